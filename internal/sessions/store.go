// Package sessions provides per-user conversation state with
// create-if-absent semantics and pluggable backends.
//
// The conversation engine depends only on the Store interface. The memory
// backend serves single-process deployments; the sqlite backend serves
// multi-instance deployments where state must survive restarts.
package sessions

import (
	"context"
	"time"

	"github.com/haasonsaas/notabot/pkg/models"
)

// Store is the interface for session persistence.
type Store interface {
	// Get returns the owner's session, creating a default one if absent.
	// Concurrent first-time calls for the same owner must converge on a
	// single default row, never two divergent ones.
	Get(ctx context.Context, ownerID string) (*models.Session, error)

	// Update merges only the fields set on the patch into the stored
	// session, leaving the rest untouched. Overlapping updates for the
	// same owner are last-writer-wins per field group; replayed
	// sequentially the outcome is deterministic.
	Update(ctx context.Context, ownerID string, patch Patch) error

	// Reset returns the owner's session to the default state.
	Reset(ctx context.Context, ownerID string) error

	// Sweep removes sessions that have sat in the default state for
	// longer than idleFor and returns how many were removed. A removed
	// session is recreated with defaults on the owner's next interaction,
	// so sweeping is invisible to users.
	Sweep(ctx context.Context, idleFor time.Duration) (int, error)
}

// Patch carries the session fields to merge. Nil fields are left untouched.
// Clearing uses the zero value: an empty PendingTitle or a zero EditingID
// clears the field (note ids start at 1 and an empty pending title is never
// valid, so the zero values are unambiguous).
type Patch struct {
	AddingStep   *models.AddingStep
	PendingTitle *string
	EditingID    *int64
}

// Step returns a patch field for the given adding step.
func Step(s models.AddingStep) *models.AddingStep { return &s }

// Title returns a patch field for the given pending title.
func Title(t string) *string { return &t }

// NoteID returns a patch field for the given editing target.
func NoteID(id int64) *int64 { return &id }

func (p Patch) apply(s *models.Session, now time.Time) {
	if p.AddingStep != nil {
		s.AddingStep = *p.AddingStep
	}
	if p.PendingTitle != nil {
		s.PendingTitle = *p.PendingTitle
	}
	if p.EditingID != nil {
		s.EditingID = *p.EditingID
	}
	s.UpdatedAt = now
}
