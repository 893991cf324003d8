package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

type stubLink struct {
	inbox chan multiplayer.Inbound
	sent  []multiplayer.Message
}

func newStubLink() *stubLink {
	return &stubLink{inbox: make(chan multiplayer.Inbound, 8)}
}

func (l *stubLink) Send(m multiplayer.Message) bool {
	l.sent = append(l.sent, m)
	return true
}

func (l *stubLink) Inbox() <-chan multiplayer.Inbound { return l.inbox }
func (l *stubLink) RemoteAddr() string                { return "10.0.0.9:8080" }
func (l *stubLink) Close() error                      { return nil }

func testGameOptions() GameOptions {
	return GameOptions{
		Mode:    multiplayer.SinglePlayer{},
		Config:  config.Default(),
		Runtime: core.RuntimeConfig{TickRate: 60, Seed: 7},
		Logger:  log.New(io.Discard),
	}
}

func newTestGame(t *testing.T, opts GameOptions, link multiplayer.Link) GameModel {
	t.Helper()
	m, err := NewGameModel(opts, link)
	require.NoError(t, err)
	return m
}

func send(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	g, ok := next.(GameModel)
	require.True(t, ok)
	return g, cmd
}

func press(t *testing.T, m GameModel, keys ...string) GameModel {
	t.Helper()
	for _, k := range keys {
		m, _ = send(t, m, keyMsg(k))
	}
	return m
}

func tick(t *testing.T, m GameModel) GameModel {
	t.Helper()
	m, _ = send(t, m, TickMsg(time.Now()))
	return m
}

// playUntilOver stacks hard drops in the spawn columns. Nothing ever clears,
// so the stack reaches the top quickly.
func playUntilOver(t *testing.T, m GameModel) GameModel {
	t.Helper()
	for i := 0; i < 200 && !m.match.Result().Ended; i++ {
		m = press(t, m, "j")
		m = tick(t, m)
	}
	require.True(t, m.match.Result().Ended, "game never ended")
	return m
}

func occupied(m GameModel) int {
	n := 0
	grid := m.match.Snapshot().Board.Grid
	for _, row := range grid {
		for _, c := range row {
			if c.Occupied() {
				n++
			}
		}
	}
	return n
}

func TestGameModelHardDrop(t *testing.T) {
	m := newTestGame(t, testGameOptions(), nil)
	m = tick(t, m)

	m = press(t, m, "j")
	assert.Equal(t, 4, occupied(m))

	// A second press in the same tick is a key repeat.
	m = press(t, m, "j")
	assert.Equal(t, 4, occupied(m))

	m = tick(t, m)
	m = press(t, m, "j")
	assert.Equal(t, 8, occupied(m))
}

func TestGameModelPause(t *testing.T) {
	m := newTestGame(t, testGameOptions(), nil)

	m = press(t, m, "p")
	assert.True(t, m.match.Snapshot().Board.Paused)
	assert.Contains(t, m.View(), "PAUSED")

	m = press(t, m, "j")
	assert.Equal(t, 0, occupied(m), "paused games ignore commands")

	m = press(t, m, "p")
	assert.False(t, m.match.Snapshot().Board.Paused)
}

func TestGameModelQuitConfirmation(t *testing.T) {
	m := newTestGame(t, testGameOptions(), nil)

	m = press(t, m, "q")
	require.True(t, m.confirmingQuit)
	assert.True(t, m.match.Snapshot().Board.Paused, "single player pauses while asking")
	assert.Contains(t, m.View(), "QUIT GAME?")

	m = press(t, m, "n")
	assert.False(t, m.confirmingQuit)
	assert.False(t, m.Done())
	assert.False(t, m.match.Snapshot().Board.Paused)

	m = press(t, m, "q")
	m, cmd := send(t, m, keyMsg("y"))
	assert.True(t, m.Done())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestGameModelEmbeddedQuitReturnsToParent(t *testing.T) {
	opts := testGameOptions()
	opts.Embedded = true
	m := newTestGame(t, opts, nil)

	m = press(t, m, "q")
	m, cmd := send(t, m, keyMsg("y"))
	assert.True(t, m.Done())
	assert.Nil(t, cmd)
}

func TestGameModelRestart(t *testing.T) {
	m := newTestGame(t, testGameOptions(), nil)
	m = playUntilOver(t, m)
	assert.Contains(t, m.View(), "GAME OVER")

	m = press(t, m, "r")
	assert.False(t, m.match.Result().Ended)
	assert.Equal(t, 0, occupied(m))
	assert.False(t, m.Done())
}

func TestGameModelResultScreenIgnoresEnter(t *testing.T) {
	m := newTestGame(t, testGameOptions(), nil)
	m = playUntilOver(t, m)

	// Keys still held from play must not leave the result screen.
	m = press(t, m, "enter", "j", "down")
	assert.False(t, m.Done())
	assert.Contains(t, m.View(), "GAME OVER")

	m = press(t, m, "q")
	assert.True(t, m.Done())
}

func TestGameModelHighScoreNameEntry(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	defer store.Close()

	opts := testGameOptions()
	opts.Store = store
	opts.PlayerName = "ann"
	m := newTestGame(t, opts, nil)

	m = playUntilOver(t, m)
	require.True(t, m.enteringName, "an empty table always has room")
	assert.Contains(t, m.View(), "New high score!")

	m = press(t, m, "enter")
	assert.False(t, m.enteringName)

	scores, err := store.TopScores(5)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "ann", scores[0].PlayerName)
	assert.Equal(t, m.match.Snapshot().Board.Score.Points, scores[0].Score)
	assert.Positive(t, scores[0].Score)
}

func TestGameModelMultiplayerResult(t *testing.T) {
	tests := []struct {
		name     string
		inbound  multiplayer.Inbound
		headline string
	}{
		{"opponent topped out", multiplayer.Inbound{Msg: multiplayer.GameOverMsg{}}, "YOU WIN!"},
		{"link lost", multiplayer.Inbound{Err: multiplayer.ErrConnection}, "DRAW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := newStubLink()
			opts := testGameOptions()
			opts.Mode = multiplayer.Host{Addr: ":8080"}
			m := newTestGame(t, opts, link)

			link.inbox <- tt.inbound
			m = tick(t, m)
			require.True(t, m.match.Result().Ended)
			assert.Contains(t, m.View(), tt.headline)

			// Two-player matches cannot restart.
			m = press(t, m, "r")
			assert.True(t, m.match.Result().Ended)
		})
	}
}

func TestGameModelStatusLine(t *testing.T) {
	link := newStubLink()
	opts := testGameOptions()
	opts.Mode = multiplayer.Guest{Addr: "10.0.0.9:8080"}
	m := newTestGame(t, opts, link)

	view := m.View()
	assert.True(t, strings.Contains(view, "guest vs 10.0.0.9:8080"), view)
	assert.Contains(t, view, "linked")
}
