package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "scores.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	entries := []ScoreEntry{
		{PlayerName: "ann", Score: 1200, Lines: 12, Level: 0},
		{PlayerName: "bob", Score: 300, Lines: 3, Level: 0},
		{PlayerName: "cid", Score: 4800, Lines: 31, Level: 1},
	}
	for _, e := range entries {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	want := []string{"cid", "ann", "bob"}
	for i, name := range want {
		if scores[i].PlayerName != name {
			t.Errorf("scores[%d].PlayerName = %q, expected %q", i, scores[i].PlayerName, name)
		}
	}
	if scores[0].Lines != 31 || scores[0].Level != 1 {
		t.Errorf("top entry = %+v, expected lines 31 level 1", scores[0])
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 8; i++ {
		if _, err := store.SaveScore(ScoreEntry{PlayerName: "p", Score: i * 100}); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores(5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 {
		t.Fatalf("Expected 5 scores, got %d", len(scores))
	}
	if scores[4].Score != 400 {
		t.Errorf("fifth score = %d, expected 400", scores[4].Score)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() on empty table = %d, expected 0", high)
	}

	store.SaveScore(ScoreEntry{PlayerName: "a", Score: 700})
	store.SaveScore(ScoreEntry{PlayerName: "b", Score: 900})

	high, err = store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 900 {
		t.Errorf("HighScore() = %d, expected 900", high)
	}
}

func TestStoreQualifiesForTop(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		name     string
		seed     []int
		score    int
		expected bool
	}{
		{name: "empty table", seed: nil, score: 100, expected: true},
		{name: "zero never qualifies", seed: nil, score: 0, expected: false},
		{name: "table not full", seed: []int{500, 400}, score: 1, expected: true},
		{name: "beats the fifth", seed: []int{500, 400, 300, 200, 100}, score: 150, expected: true},
		{name: "ties the fifth", seed: []int{500, 400, 300, 200, 100}, score: 100, expected: false},
		{name: "below the fifth", seed: []int{500, 400, 300, 200, 100}, score: 50, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.ClearScores(); err != nil {
				t.Fatalf("ClearScores() failed: %v", err)
			}
			for _, s := range tc.seed {
				store.SaveScore(ScoreEntry{PlayerName: "x", Score: s})
			}

			got, err := store.QualifiesForTop(tc.score, 5)
			if err != nil {
				t.Fatalf("QualifiesForTop() failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("QualifiesForTop(%d, 5) = %v, expected %v", tc.score, got, tc.expected)
			}
		})
	}
}

func TestStoreSaveMatchResult(t *testing.T) {
	store := openTestStore(t)

	var saver multiplayer.MatchResultSaver = store
	err := saver.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:      "m-1",
		Role:         "host",
		PeerAddr:     "10.0.0.2:51000",
		Outcome:      multiplayer.OutcomePlayer1Win.String(),
		Result:       "win",
		EndReason:    multiplayer.EndReasonCompleted.String(),
		Score:        2400,
		Lines:        18,
		DurationSecs: 95,
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	m, err := store.MatchByID("m-1")
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if m == nil {
		t.Fatal("MatchByID() returned nil for a saved match")
	}
	if m.Role != "host" || m.Result != "win" || m.Score != 2400 || m.Duration != 95 {
		t.Errorf("saved match = %+v", m)
	}

	missing, err := store.MatchByID("nope")
	if err != nil || missing != nil {
		t.Errorf("MatchByID(missing) = %v, %v; expected nil, nil", missing, err)
	}
}

func TestStoreRecentMatchesAndTally(t *testing.T) {
	store := openTestStore(t)

	results := []string{"win", "loss", "win", "draw"}
	for i, r := range results {
		_, err := store.SaveMatch(MatchRecord{
			MatchID:   string(rune('a' + i)),
			Role:      "guest",
			Outcome:   "player2_win",
			Result:    r,
			EndReason: "completed",
		})
		if err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	recent, err := store.RecentMatches(3)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(recent))
	}
	if recent[0].MatchID != "d" {
		t.Errorf("newest match = %q, expected \"d\"", recent[0].MatchID)
	}

	tally, err := store.Tally()
	if err != nil {
		t.Fatalf("Tally() failed: %v", err)
	}
	if tally != (Record{Wins: 2, Losses: 1, Draws: 1}) {
		t.Errorf("Tally() = %+v, expected 2/1/1", tally)
	}
}
