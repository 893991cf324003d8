package tui

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

func TestScoreboardEmpty(t *testing.T) {
	m := NewScoreboardModel(nil, 100, 30)
	assert.Contains(t, m.View(), "No scores recorded yet")

	next, _ := m.Update(keyMsg("tab"))
	m = next.(ScoreboardModel)
	assert.Contains(t, m.View(), "No matches played yet")
}

func TestScoreboardShowsStoredData(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.SaveScore(storage.ScoreEntry{PlayerName: "zed", Score: 4200, Lines: 12, Level: 1})
	require.NoError(t, err)
	require.NoError(t, store.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:   "m-1",
		Role:      "host",
		PeerAddr:  "10.1.1.1:8080",
		Outcome:   multiplayer.OutcomePlayer1Win.String(),
		Result:    "win",
		EndReason: multiplayer.EndReasonCompleted.String(),
		Score:     900,
	}))

	m := NewScoreboardModel(store, 100, 30)
	view := m.View()
	assert.Contains(t, view, "zed")
	assert.Contains(t, view, "4200")

	next, _ := m.Update(keyMsg("tab"))
	m = next.(ScoreboardModel)
	view = m.View()
	assert.Contains(t, view, "10.1.1.1:8080")
	assert.Contains(t, view, "wins 1  losses 0  draws 0")
}

func TestScoreboardBackAndQuit(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	next, cmd := m.Update(keyMsg("esc"))
	m = next.(ScoreboardModel)
	assert.True(t, m.IsGoingBack())
	assert.NotNil(t, cmd)

	m = NewScoreboardModel(nil, 80, 24)
	m.embedded = true
	next, cmd = m.Update(keyMsg("q"))
	m = next.(ScoreboardModel)
	assert.True(t, m.IsQuitting())
	assert.Nil(t, cmd)
}
