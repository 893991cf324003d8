package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// topScoreSlots is how many places of the high-score table prompt for a name.
const topScoreSlots = 5

const defaultPlayerName = "anonymous"

// GameOptions configures a GameModel.
type GameOptions struct {
	Mode       multiplayer.Mode
	Config     config.TetrisConfig
	Runtime    core.RuntimeConfig
	Store      *storage.Store // optional
	PlayerName string
	Logger     *log.Logger

	// Embedded models hand control back to their parent instead of quitting
	// the program.
	Embedded bool
}

// GameModel is the Bubble Tea model for one match, from the first tick to
// the result screen.
type GameModel struct {
	opts   GameOptions
	match  *multiplayer.Match
	input  *InputController
	keys   KeyMap
	help   help.Model
	screen *core.Screen
	width  int
	height int
	seed   int64
	best   int

	confirmingQuit   bool
	pausedForConfirm bool
	enteringName     bool
	nameInput        textinput.Model
	handledEnd       bool
	notice           string

	quitting bool
	done     bool
}

// NewGameModel creates the model and its match. link must be nil for single
// player and connected for two-player modes.
func NewGameModel(opts GameOptions, link multiplayer.Link) (GameModel, error) {
	if opts.Mode == nil {
		opts.Mode = multiplayer.SinglePlayer{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}

	seed := opts.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ni := textinput.New()
	ni.Prompt = "Name: "
	ni.Placeholder = defaultPlayerName
	ni.CharLimit = config.MaxNameLength

	m := GameModel{
		opts:      opts,
		input:     NewInputController(DefaultKeyMap()),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		screen:    core.NewScreen(tetris.ViewWidth, tetris.ViewHeight),
		width:     opts.Runtime.ScreenW,
		height:    opts.Runtime.ScreenH,
		seed:      seed,
		nameInput: ni,
	}

	if opts.Store != nil {
		if best, err := opts.Store.HighScore(); err == nil {
			m.best = best
		}
	}

	match, err := m.newMatch(link)
	if err != nil {
		return GameModel{}, err
	}
	m.match = match
	return m, nil
}

func (m GameModel) newMatch(link multiplayer.Link) (*multiplayer.Match, error) {
	engine := tetris.NewEngine(m.opts.Config.EngineOptions(m.seed))

	mo := multiplayer.MatchOptions{Logger: m.opts.Logger}
	if m.opts.Store != nil {
		mo.Saver = m.opts.Store
	}
	return multiplayer.NewMatch(m.opts.Mode, engine, link, mo)
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	if m.enteringName {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	m.input.BeginTick()
	res := m.match.Tick(now)

	var cmd tea.Cmd
	if res.Ended && !m.handledEnd {
		m.handledEnd = true
		cmd = m.onEnded()
	}
	return m, tea.Batch(cmd, tickCmd(m.opts.Runtime.TickRate))
}

// onEnded runs once per match. Single-player scores go to the high-score
// table; a top score asks for the player's name first.
func (m *GameModel) onEnded() tea.Cmd {
	if m.opts.Mode.Multiplayer() || m.opts.Store == nil {
		return nil
	}

	score := m.match.Snapshot().Board.Score
	if score.Points <= 0 {
		return nil
	}

	top, err := m.opts.Store.QualifiesForTop(score.Points, topScoreSlots)
	if err != nil {
		m.opts.Logger.Warn("could not check high scores", "err", err)
	}
	if !top {
		m.saveScore(m.opts.PlayerName)
		return nil
	}

	m.enteringName = true
	m.nameInput.SetValue(m.opts.PlayerName)
	m.nameInput.CursorEnd()
	return m.nameInput.Focus()
}

func (m *GameModel) saveScore(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultPlayerName
	}
	name = config.ClampName(name)

	score := m.match.Snapshot().Board.Score
	_, err := m.opts.Store.SaveScore(storage.ScoreEntry{
		PlayerName: name,
		Score:      score.Points,
		Lines:      score.Lines,
		Level:      score.Level,
	})
	if err != nil {
		m.opts.Logger.Error("could not save score", "err", err)
		m.notice = "score not saved"
		return
	}
	if score.Points > m.best {
		m.best = score.Points
		m.notice = "new high score!"
	}
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.enteringName {
		switch msg.Type {
		case tea.KeyEnter:
			m.saveScore(m.nameInput.Value())
			m.enteringName = false
			m.nameInput.Blur()
			return m, nil
		case tea.KeyEsc:
			m.enteringName = false
			m.nameInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	if m.confirmingQuit {
		m.confirmingQuit = false
		if s := msg.String(); s == "y" || s == "Y" {
			return m.quit()
		}
		if m.pausedForConfirm {
			m.pausedForConfirm = false
			m.match.TogglePause()
		}
		return m, nil
	}

	if m.match.Result().Ended {
		switch {
		case msg.String() == "r" && !m.opts.Mode.Multiplayer():
			return m.restart()
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.confirmingQuit = true
		if !m.opts.Mode.Multiplayer() && !m.match.Snapshot().Board.Paused {
			m.pausedForConfirm = m.match.TogglePause()
		}
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.match.TogglePause()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if cmd := m.input.Command(msg); cmd != tetris.CmdNone {
		m.match.Apply(cmd)
	}
	return m, nil
}

func (m GameModel) restart() (tea.Model, tea.Cmd) {
	m.seed = time.Now().UnixNano()
	match, err := m.newMatch(nil)
	if err != nil {
		m.opts.Logger.Error("could not restart", "err", err)
		return m, nil
	}
	m.match = match
	m.handledEnd = false
	m.notice = ""
	return m, nil
}

func (m GameModel) quit() (tea.Model, tea.Cmd) {
	if err := m.match.Close(); err != nil {
		m.opts.Logger.Warn("closing match", "err", err)
	}
	m.done = true
	if m.opts.Embedded {
		return m, nil
	}
	m.quitting = true
	return m, tea.Quit
}

// View renders the board, the status line and the help line.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	view := m.match.Snapshot()
	m.screen.Clear()
	tetris.Render(m.screen, view.Board, 0, 0)
	m.drawOverlay(view)

	lines := []string{
		titleStyle.Render(centerText("T E T R I S", tetris.ViewWidth)),
		RenderScreen(m.screen),
		statusStyle.Render(m.status(view)),
	}
	if m.enteringName {
		lines = append(lines, titleStyle.Render("New high score!"), m.nameInput.View())
	} else if m.notice != "" {
		lines = append(lines, titleStyle.Render(m.notice))
	}
	lines = append(lines, statusStyle.Render(m.help.View(m.keys)))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m GameModel) drawOverlay(view multiplayer.View) {
	if m.confirmingQuit {
		tetris.DrawOverlay(m.screen, 0, 0, core.ColorBrightYellow, "QUIT GAME?", "y / n")
		return
	}
	if !view.Result.Ended {
		return
	}

	if !view.Mode.Multiplayer() {
		tetris.DrawOverlay(m.screen, 0, 0, core.ColorBrightRed,
			"GAME OVER",
			fmt.Sprintf("score %d", view.Board.Score.Points),
			"r restart  q quit",
		)
		return
	}

	headline, color := "DRAW", core.ColorBrightYellow
	switch view.Result.LocalResult(view.Local) {
	case "win":
		headline, color = "YOU WIN!", core.ColorBrightGreen
	case "loss":
		headline, color = "YOU LOSE", core.ColorBrightRed
	}
	tetris.DrawOverlay(m.screen, 0, 0, color, headline, endReasonText(view.Result), "q quit")
}

func endReasonText(r multiplayer.Result) string {
	switch r.Reason {
	case multiplayer.EndReasonDisconnect:
		return "peer disconnected"
	case multiplayer.EndReasonTimeout:
		return "peer timed out"
	case multiplayer.EndReasonProtocolError:
		return "protocol error"
	case multiplayer.EndReasonQuit:
		return "match abandoned"
	default:
		return "opponent topped out"
	}
}

func (m GameModel) status(view multiplayer.View) string {
	elapsed := view.Elapsed.Truncate(time.Second)
	if !view.Mode.Multiplayer() {
		return fmt.Sprintf("marathon  %s  best %d", elapsed, m.best)
	}

	link := "● linked"
	if !view.LinkUp {
		link = "○ no link"
	}
	return fmt.Sprintf("%s vs %s  %s  sent %d  recv %d  %s",
		view.Mode, view.PeerAddr, link, view.GarbageSent, view.GarbageReceived, elapsed)
}

// Done reports whether the player has left the match.
func (m GameModel) Done() bool {
	return m.done
}

// RunGame runs a single-player game until the player quits.
func RunGame(opts GameOptions) error {
	opts.Mode = multiplayer.SinglePlayer{}
	model, err := NewGameModel(opts, nil)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
