// internal/history/store.go
//
// Best-effort SQLite history of rounds: one row per round, inserted at
// creation and updated at reveal. The live round store never reads this;
// history is for stats only, and every write is allowed to fail without
// failing the request (callers log and move on).

package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/wavelength-party/go-server/internal/round"
)

// Store persists round history.
type Store struct{ db *sql.DB }

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Init creates the rounds table if missing. Idempotent.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS rounds (
	id          TEXT PRIMARY KEY,
	theme       TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'open',
	target      INTEGER,
	guess       INTEGER,
	distance    INTEGER,
	won         INTEGER,
	revealed_at TEXT
)`)
	return err
}

// RoundCreated records a new open round.
func (s *Store) RoundCreated(ctx context.Context, id, theme string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO rounds(id, theme, created_at, status) VALUES(?,?,?,'open')`,
		id, theme, at.UTC().Format(time.RFC3339),
	)
	return err
}

// RoundRevealed marks the round revealed and stores the grading.
func (s *Store) RoundRevealed(ctx context.Context, id string, res round.Result, guess int, at time.Time) error {
	won := 0
	if res.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE rounds SET status='revealed', target=?, guess=?, distance=?, won=?, revealed_at=? WHERE id=?`,
		res.Target, guess, res.Distance, won, at.UTC().Format(time.RFC3339), id,
	)
	return err
}

// Stats are aggregate counters over the whole history table.
type Stats struct {
	Played   int `json:"played"`
	Revealed int `json:"revealed"`
	Wins     int `json:"wins"`
}

// Stats computes the aggregate counters.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(1),
       COALESCE(SUM(CASE WHEN status='revealed' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(COALESCE(won, 0)), 0)
FROM rounds`).Scan(&st.Played, &st.Revealed, &st.Wins)
	return st, err
}
