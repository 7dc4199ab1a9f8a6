// Package notes provides durable CRUD over note records, scoped by owner.
package notes

import (
	"context"
	"errors"

	"github.com/haasonsaas/notabot/pkg/models"
)

// ErrNotFound is returned when a note id does not exist or belongs to a
// different owner. The two cases are indistinguishable on purpose: a wrong
// owner must never learn that the id exists.
var ErrNotFound = errors.New("note not found")

// Store is the interface for note persistence. Every operation is scoped by
// owner id; there is no unscoped read or write path.
type Store interface {
	// Create persists a new note, assigning its id and timestamp, and
	// returns the stored record.
	Create(ctx context.Context, ownerID, title, content string) (*models.Note, error)

	// ListByOwner returns all notes for the owner, ordered by id. The
	// order is stable within a single read.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error)

	// GetByID returns the note with the given id if it belongs to the
	// owner, ErrNotFound otherwise.
	GetByID(ctx context.Context, id int64, ownerID string) (*models.Note, error)

	// Update replaces the note content and refreshes its timestamp.
	// Returns ErrNotFound if no matching owned row exists.
	Update(ctx context.Context, id int64, ownerID, content string) error

	// Delete removes the note permanently. Deleting a missing or
	// not-owned id is a no-op, not an error.
	Delete(ctx context.Context, id int64, ownerID string) error
}
