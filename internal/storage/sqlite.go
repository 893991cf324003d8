// Package storage provides SQLite-based persistence for high scores and
// two-player match history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-tetris/internal/multiplayer"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one high score record.
type ScoreEntry struct {
	ID         int64
	PlayerName string
	Score      int
	Lines      int
	Level      int
	CreatedAt  time.Time
}

// MatchRecord is the local view of a finished two-player match.
type MatchRecord struct {
	ID        int64
	MatchID   string
	Role      string // "host" or "guest"
	PeerAddr  string
	Outcome   string // multiplayer.Outcome name
	Result    string // "win", "loss" or "draw" for the local player
	EndReason string
	Score     int
	Lines     int
	Duration  int // seconds
	CreatedAt time.Time
}

// Record is a win/loss/draw tally.
type Record struct {
	Wins   int
	Losses int
	Draws  int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS high_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_high_scores_top ON high_scores(score DESC);

		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			peer_addr TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			result TEXT NOT NULL,
			end_reason TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			lines INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime converts a DATETIME column that the driver may return either as
// time.Time or as text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a finished single-player game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO high_scores (player_name, score, lines, level) VALUES (?, ?, ?, ?)",
		e.PlayerName, e.Score, e.Lines, e.Level,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores returns the best limit scores, highest first. Ties keep
// insertion order.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, player_name, score, lines, level, created_at
		 FROM high_scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Score, &e.Lines, &e.Level, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score recorded, or 0 when there is none.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM high_scores").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// QualifiesForTop reports whether score would enter the top n table.
// Zero scores never qualify.
func (s *Store) QualifiesForTop(score, n int) (bool, error) {
	if score <= 0 {
		return false, nil
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM high_scores").Scan(&count); err != nil {
		return false, fmt.Errorf("storage: cannot count scores: %w", err)
	}
	if count < n {
		return true, nil
	}

	var lowest int
	err := s.db.QueryRow(
		`SELECT score FROM high_scores ORDER BY score DESC, id ASC LIMIT 1 OFFSET ?`,
		n-1,
	).Scan(&lowest)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query score threshold: %w", err)
	}

	return score > lowest, nil
}

// ClearScores deletes every high score.
func (s *Store) ClearScores() error {
	if _, err := s.db.Exec("DELETE FROM high_scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SaveMatch records a finished match. Returns the ID of the inserted record.
func (s *Store) SaveMatch(m MatchRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, role, peer_addr, outcome, result, end_reason, score, lines, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MatchID,
		m.Role,
		m.PeerAddr,
		m.Outcome,
		m.Result,
		m.EndReason,
		m.Score,
		m.Lines,
		m.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const matchColumns = `id, match_id, role, peer_addr, outcome, result, end_reason,
		        score, lines, duration_secs, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(r rowScanner) (MatchRecord, error) {
	var m MatchRecord
	var createdAt any
	err := r.Scan(
		&m.ID,
		&m.MatchID,
		&m.Role,
		&m.PeerAddr,
		&m.Outcome,
		&m.Result,
		&m.EndReason,
		&m.Score,
		&m.Lines,
		&m.Duration,
		&createdAt,
	)
	m.CreatedAt = parseTime(createdAt)
	return m, err
}

// MatchByID returns a match by its match ID, or nil when it does not exist.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`,
		matchID,
	)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches returns the latest matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Tally returns the local win/loss/draw record across all matches.
func (s *Store) Tally() (Record, error) {
	var r Record
	err := s.db.QueryRow(
		`SELECT
			COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result = 'loss' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result = 'draw' THEN 1 ELSE 0 END), 0)
		 FROM matches`,
	).Scan(&r.Wins, &r.Losses, &r.Draws)
	if err != nil {
		return r, fmt.Errorf("storage: cannot query match record: %w", err)
	}
	return r, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveMatch(MatchRecord{
		MatchID:   data.MatchID,
		Role:      data.Role,
		PeerAddr:  data.PeerAddr,
		Outcome:   data.Outcome,
		Result:    data.Result,
		EndReason: data.EndReason,
		Score:     data.Score,
		Lines:     data.Lines,
		Duration:  data.DurationSecs,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)
