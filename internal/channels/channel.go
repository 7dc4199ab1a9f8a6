// Package channels defines the adapter contract between the bot core and
// messaging platforms.
package channels

import (
	"context"
	"time"

	"github.com/haasonsaas/notabot/pkg/models"
)

// Adapter is the interface a platform binding must implement. The service
// layer consumes events from it and sends replies through it; everything
// platform-specific stays behind this boundary.
type Adapter interface {
	// Start begins listening for inbound events. It should authenticate,
	// establish connections, and start the receive loop.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the adapter.
	Stop(ctx context.Context) error

	// Events returns the channel of inbound events. It is closed when the
	// adapter stops.
	Events() <-chan *models.Event

	// Send delivers a reply to the given chat.
	Send(ctx context.Context, chatID string, reply *models.Reply) error

	// AckCallback acknowledges a callback event so the originating button
	// affordance clears. It must be invoked for every callback event,
	// whatever the handling outcome. Text, when non-empty, is shown to
	// the user as a short notification.
	AckCallback(ctx context.Context, callbackID, text string) error

	// HealthCheck performs a lightweight upstream connectivity check.
	HealthCheck(ctx context.Context) HealthStatus
}

// Status represents the connection status of an adapter.
type Status struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
	LastPing  int64  `json:"last_ping,omitempty"` // Unix timestamp
}

// HealthStatus represents a health check result.
type HealthStatus struct {
	// Healthy indicates whether the adapter is functioning correctly.
	Healthy bool `json:"healthy"`

	// Latency is the time taken to perform the health check.
	Latency time.Duration `json:"latency"`

	// Message provides additional context about the health status.
	Message string `json:"message,omitempty"`

	// LastCheck is the timestamp of this health check.
	LastCheck time.Time `json:"last_check"`
}
