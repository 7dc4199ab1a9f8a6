package models

// EventKind is the coarse classification a channel adapter applies to an
// inbound item before dispatch.
type EventKind string

const (
	// KindCommand is a text message starting with the command prefix.
	KindCommand EventKind = "command"

	// KindText is any other text message.
	KindText EventKind = "text"

	// KindCallback is a button press carrying an opaque callback token.
	KindCallback EventKind = "callback"
)

// Event is the transport-neutral inbound item produced by a channel adapter.
type Event struct {
	// SenderID is the opaque stable identifier of the user, used as the
	// owner id for all note and session access.
	SenderID string `json:"sender_id"`

	// ChatID addresses the reply. For direct messages it usually equals
	// SenderID; adapters set it when the platform distinguishes the two.
	ChatID string `json:"chat_id,omitempty"`

	// Kind classifies the event.
	Kind EventKind `json:"kind"`

	// Payload is the message text for command/text events, or the callback
	// token for callback events.
	Payload string `json:"payload"`

	// CallbackID is the platform handle for acknowledging a callback event
	// so the originating button affordance clears. Empty for non-callbacks.
	CallbackID string `json:"callback_id,omitempty"`

	// MessageID is the platform id of the message the event originated
	// from, when the platform supports editing it in place.
	MessageID int `json:"message_id,omitempty"`
}

// Button is one selectable element of a reply keyboard.
type Button struct {
	// Label is the caption shown to the user.
	Label string `json:"label"`

	// Token is the opaque callback data returned when the button is
	// pressed. It round-trips through the token codec.
	Token string `json:"token"`
}

// Reply is the transport-neutral outbound message produced by the renderer.
type Reply struct {
	// Text is the message body.
	Text string `json:"text"`

	// Buttons, when present, is rendered as an inline keyboard: one row
	// per outer slice element.
	Buttons [][]Button `json:"buttons,omitempty"`
}
