// Package models contains the shared domain types used across the bot:
// notes, conversation sessions, and the transport-neutral event and reply
// shapes exchanged with channel adapters.
package models

import "time"

// DefaultTitle is used for legacy note rows created before titles existed.
const DefaultTitle = "Untitled"

// Note is a single text note owned by one user.
type Note struct {
	// ID is the surrogate key assigned by the store.
	ID int64 `json:"id"`

	// OwnerID is the opaque per-user identifier that scopes every read
	// and write. A note is never visible through any other owner id.
	OwnerID string `json:"owner_id"`

	// Title is the display string shown in list keyboards.
	Title string `json:"title"`

	// Content is the note body.
	Content string `json:"content"`

	// CreatedAt is the time of the last write. A content update rewrites
	// it; there is no separate modified field.
	CreatedAt time.Time `json:"created_at"`
}
