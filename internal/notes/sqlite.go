package notes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haasonsaas/notabot/pkg/models"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
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

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStoreWithDB wraps an existing database handle. The caller is
// responsible for the schema; used by tests.
func NewSQLiteStoreWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) init() error {
	// Schema matches the original deployment, including the title default
	// that backfills rows created before titles existed.
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT 'Untitled',
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create notes table: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_notes_owner ON notes(owner_id)`)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
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

func (s *SQLiteStore) Create(ctx context.Context, ownerID, title, content string) (*models.Note, error) {
	if title == "" {
		title = models.DefaultTitle
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (owner_id, title, content, created_at) VALUES (?, ?, ?, ?)`,
		ownerID, title, content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return &models.Note{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, content, created_at FROM notes WHERE owner_id = ? ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var out []*models.Note
	for rows.Next() {
		n := &models.Note{}
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64, ownerID string) (*models.Note, error) {
	// The owner filter is part of the query, never applied after the read.
	n := &models.Note{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, content, created_at FROM notes WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, ownerID, content string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET content = ?, created_at = ? WHERE id = ? AND owner_id = ?`,
		content, time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64, ownerID string) error {
	// Idempotent: deleting a missing row is not an error.
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
