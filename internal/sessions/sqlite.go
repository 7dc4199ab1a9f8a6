package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/haasonsaas/notabot/pkg/models"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// SQLiteStore implements Store on a SQLite database, for deployments where
// conversation state must survive process restarts or be shared between
// instances.
type SQLiteStore struct {
	db      *sql.DB
	nowFunc func() time.Time // For testing
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. An empty path opens an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, nowFunc: time.Now}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			owner_id TEXT PRIMARY KEY,
			adding_step TEXT NOT NULL DEFAULT 'idle',
			pending_title TEXT NOT NULL DEFAULT '',
			editing_id INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Migrate ensures the schema exists. Exposed for the migrate CLI command.
func (s *SQLiteStore) Migrate() error {
	return s.init()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SetNowFunc sets a custom time function for testing.
func (s *SQLiteStore) SetNowFunc(fn func() time.Time) {
	s.nowFunc = fn
}

func (s *SQLiteStore) Get(ctx context.Context, ownerID string) (*models.Session, error) {
	// INSERT OR IGNORE makes create-if-absent a single atomic statement:
	// two concurrent first-time calls both land on the one default row.
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (owner_id, updated_at) VALUES (?, ?)`,
		ownerID, s.nowFunc().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure session: %w", err)
	}

	sess := &models.Session{}
	err = s.db.QueryRowContext(ctx,
		`SELECT owner_id, adding_step, pending_title, editing_id, updated_at FROM sessions WHERE owner_id = ?`,
		ownerID,
	).Scan(&sess.OwnerID, &sess.AddingStep, &sess.PendingTitle, &sess.EditingID, &sess.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return sess, nil
}

func (s *SQLiteStore) Update(ctx context.Context, ownerID string, patch Patch) error {
	sets := []string{"updated_at = ?"}
	args := []any{s.nowFunc().UTC()}

	if patch.AddingStep != nil {
		sets = append(sets, "adding_step = ?")
		args = append(args, string(*patch.AddingStep))
	}
	if patch.PendingTitle != nil {
		sets = append(sets, "pending_title = ?")
		args = append(args, *patch.PendingTitle)
	}
	if patch.EditingID != nil {
		sets = append(sets, "editing_id = ?")
		args = append(args, *patch.EditingID)
	}
	args = append(args, ownerID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET `+strings.Join(sets, ", ")+` WHERE owner_id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		// The row may have been swept between Get and Update; recreate it
		// with defaults and re-apply the patch.
		if _, err := s.Get(ctx, ownerID); err != nil {
			return err
		}
		return s.Update(ctx, ownerID, patch)
	}
	return nil
}

func (s *SQLiteStore) Reset(ctx context.Context, ownerID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (owner_id, adding_step, pending_title, editing_id, updated_at)
		 VALUES (?, 'idle', '', 0, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET
		   adding_step = 'idle', pending_title = '', editing_id = 0, updated_at = excluded.updated_at`,
		ownerID, s.nowFunc().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Sweep(ctx context.Context, idleFor time.Duration) (int, error) {
	cutoff := s.nowFunc().UTC().Add(-idleFor)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions
		 WHERE adding_step = 'idle' AND pending_title = '' AND editing_id = 0 AND updated_at < ?`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read sweep result: %w", err)
	}
	return int(affected), nil
}
