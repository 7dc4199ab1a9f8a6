package models

import "time"

// AddingStep tracks progress through the two-step add-note flow.
type AddingStep string

const (
	// StepIdle means no add flow is in progress.
	StepIdle AddingStep = "idle"

	// StepAwaitingTitle means the bot asked for a title and the next
	// free-text message is taken as the title.
	StepAwaitingTitle AddingStep = "awaiting_title"

	// StepAwaitingContent means a title is pending and the next free-text
	// message completes the note.
	StepAwaitingContent AddingStep = "awaiting_content"
)

// Session is the per-user conversation state. One session exists per owner,
// created lazily with default values on first interaction.
//
// AddingStep != StepIdle and EditingID != 0 are mutually exclusive in
// practice: free-text dispatch checks the add flow first, so a stale
// EditingID can never hijack an in-progress add.
type Session struct {
	// OwnerID keys the session. Sessions are never shared across owners.
	OwnerID string `json:"owner_id"`

	// AddingStep drives the add-note flow.
	AddingStep AddingStep `json:"adding_step"`

	// PendingTitle holds the title captured in step one until the content
	// arrives. Empty when no title is pending.
	PendingTitle string `json:"pending_title,omitempty"`

	// EditingID references the note currently targeted for content
	// replacement. Zero when not editing; note ids start at 1.
	EditingID int64 `json:"editing_id,omitempty"`

	// UpdatedAt is the time of the last state change, used by the idle
	// session sweeper.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns a session in the default state.
func NewSession(ownerID string) *Session {
	return &Session{
		OwnerID:    ownerID,
		AddingStep: StepIdle,
		UpdatedAt:  time.Now(),
	}
}

// Idle reports whether the session is in the default state: no add flow
// in progress and no note targeted for edit.
func (s *Session) Idle() bool {
	return s.AddingStep == StepIdle && s.PendingTitle == "" && s.EditingID == 0
}
