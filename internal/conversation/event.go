// Package conversation implements the per-user conversation state machine.
//
// The engine interprets one classified inbound event at a time against the
// owner's session, mutates the note and session stores, and produces an
// output directive for the renderer. It holds no state of its own between
// turns; everything lives in the session store.
package conversation

// EventType classifies an inbound event for the engine.
type EventType int

const (
	// EventCommand is a recognized slash command.
	EventCommand EventType = iota

	// EventText is a free-form text message.
	EventText

	// EventSelection is a button press carrying an action and an optional
	// target note id.
	EventSelection
)

// CommandName identifies a bot command.
type CommandName string

const (
	CmdStart  CommandName = "start"
	CmdAdd    CommandName = "add"
	CmdList   CommandName = "list"
	CmdHelp   CommandName = "help"
	CmdCancel CommandName = "cancel"
)

// Action identifies what a button press asks for.
type Action string

const (
	// ActionView shows one note's detail.
	ActionView Action = "view"

	// ActionDelete removes a note and re-renders the list.
	ActionDelete Action = "delete"

	// ActionEdit starts the content-replacement flow for a note.
	ActionEdit Action = "edit"

	// ActionBack returns to the note list.
	ActionBack Action = "back"

	// ActionUnknown is the sentinel an unrecognized callback token decodes
	// to. The dispatcher routes it to a safe state instead of failing.
	ActionUnknown Action = "unknown"
)

// Event is a classified inbound event. Exactly the fields implied by Type
// are meaningful.
type Event struct {
	Type EventType

	// Command is set for EventCommand.
	Command CommandName

	// Body is set for EventText.
	Body string

	// Action and TargetID are set for EventSelection. TargetID is zero
	// for actions that do not reference a note.
	Action   Action
	TargetID int64
}
