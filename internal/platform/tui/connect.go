package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

// ConnectOptions configures a two-player session.
type ConnectOptions struct {
	Game        GameOptions // Mode must be multiplayer.Host or multiplayer.Guest
	Peer        multiplayer.PeerConfig
	DialTimeout time.Duration
}

type listeningMsg struct {
	listener *multiplayer.Listener
}

type connectedMsg struct {
	peer *multiplayer.Peer
}

type connectErrMsg struct {
	err error
}

// ConnectModel waits for the opponent, then runs the match.
type ConnectModel struct {
	opts     ConnectOptions
	spinner  spinner.Model
	ctx      context.Context
	cancel   context.CancelFunc
	listener *multiplayer.Listener
	status   string
	err      error
	game     *GameModel
	width    int
	height   int
	quitting bool
}

// NewConnectModel creates the model. Nothing touches the network until Init.
func NewConnectModel(opts ConnectOptions) ConnectModel {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 10 * time.Second
	}
	if opts.Peer.Logger == nil {
		opts.Peer.Logger = opts.Game.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := spinner.New(spinner.WithSpinner(spinner.Dot))

	status := "Starting..."
	switch mode := opts.Game.Mode.(type) {
	case multiplayer.Host:
		status = fmt.Sprintf("Opening %s...", mode.Addr)
	case multiplayer.Guest:
		status = fmt.Sprintf("Connecting to %s...", mode.Addr)
	}

	return ConnectModel{
		opts:    opts,
		spinner: s,
		ctx:     ctx,
		cancel:  cancel,
		status:  status,
		width:   opts.Game.Runtime.ScreenW,
		height:  opts.Game.Runtime.ScreenH,
	}
}

// Init starts the spinner and the connection attempt.
func (m ConnectModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.connect())
}

func (m ConnectModel) connect() tea.Cmd {
	ctx, cfg := m.ctx, m.opts.Peer

	switch mode := m.opts.Game.Mode.(type) {
	case multiplayer.Host:
		return func() tea.Msg {
			l, err := multiplayer.Announce(ctx, mode.Addr, cfg)
			if err != nil {
				return connectErrMsg{err}
			}
			return listeningMsg{l}
		}
	case multiplayer.Guest:
		timeout := m.opts.DialTimeout
		return func() tea.Msg {
			dialCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			p, err := multiplayer.Dial(dialCtx, mode.Addr, cfg)
			if err != nil {
				return connectErrMsg{err}
			}
			return connectedMsg{p}
		}
	default:
		return func() tea.Msg {
			return connectErrMsg{fmt.Errorf("tui: %s is not a two-player mode", m.opts.Game.Mode)}
		}
	}
}

func accept(ctx context.Context, l *multiplayer.Listener) tea.Cmd {
	return func() tea.Msg {
		p, err := l.Accept(ctx)
		if err != nil {
			return connectErrMsg{err}
		}
		return connectedMsg{p}
	}
}

// Update handles messages for the connect screen and, once connected, the match.
func (m ConnectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.game != nil {
		next, cmd := m.game.Update(msg)
		if g, ok := next.(GameModel); ok {
			m.game = &g
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m.abort()
		}
		if m.err != nil {
			return m.abort()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.opts.Game.Runtime.ScreenW = msg.Width
		m.opts.Game.Runtime.ScreenH = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listeningMsg:
		m.listener = msg.listener
		m.status = fmt.Sprintf("Waiting for an opponent on %s\nGuests on your network can join with --server-address %s",
			msg.listener.Addr(), joinAddr(msg.listener))
		return m, accept(m.ctx, msg.listener)

	case connectedMsg:
		g, err := NewGameModel(m.opts.Game, msg.peer)
		if err != nil {
			msg.peer.Close()
			m.err = err
			return m, nil
		}
		m.game = &g
		return m, g.Init()

	case connectErrMsg:
		if m.ctx.Err() != nil {
			return m, nil
		}
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// joinAddr is the address a guest should dial to reach l.
func joinAddr(l *multiplayer.Listener) string {
	addr := l.Addr().String()
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return multiplayer.OutboundIP() + addr[i:]
	}
	return addr
}

func (m ConnectModel) abort() (tea.Model, tea.Cmd) {
	m.cancel()
	if m.listener != nil {
		m.listener.Close()
	}
	m.quitting = true
	return m, tea.Quit
}

// View renders the waiting screen or the running match.
func (m ConnectModel) View() string {
	if m.game != nil {
		return m.game.View()
	}
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("T E T R I S  ·  " + strings.ToUpper(m.opts.Game.Mode.String())))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Could not connect: " + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render("press any key to exit"))
	} else {
		b.WriteString(m.spinner.View() + " " + m.status)
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render("q cancel"))
	}

	if m.width <= 0 || m.height <= 0 {
		return b.String()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

// Err returns the connection error, if the session never got to play.
func (m ConnectModel) Err() error {
	return m.err
}

// RunConnect runs a two-player session: connect, play, show the result.
func RunConnect(opts ConnectOptions) error {
	model := NewConnectModel(opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ConnectModel); ok {
		m.cancel()
		return m.Err()
	}
	return nil
}
