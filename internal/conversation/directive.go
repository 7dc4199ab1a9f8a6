package conversation

// DirectiveKind discriminates the engine's output shapes.
type DirectiveKind int

const (
	// DirectiveNone means no reply at all (silent ignore).
	DirectiveNone DirectiveKind = iota

	// DirectivePlainText is a static informational reply.
	DirectivePlainText

	// DirectivePrompt asks the user for the next input of a flow.
	DirectivePrompt

	// DirectiveList shows the owner's notes as selectable items.
	DirectiveList

	// DirectiveDetail shows one note with action buttons attached.
	DirectiveDetail

	// DirectiveError is a user-visible failure reply.
	DirectiveError
)

// Item is one selectable element of a list or detail directive: a labeled
// action, optionally targeting a note.
type Item struct {
	Label    string
	Action   Action
	TargetID int64
}

// Directive is the engine's abstract output before platform rendering.
type Directive struct {
	Kind DirectiveKind

	// Text is the reply body. Empty for DirectiveNone.
	Text string

	// Items holds the selectable rows of a DirectiveList.
	Items []Item

	// Actions holds the action buttons of a DirectiveDetail.
	Actions []Item
}

// None is the silent-ignore directive.
func None() Directive { return Directive{Kind: DirectiveNone} }

// PlainText builds a static text directive.
func PlainText(text string) Directive {
	return Directive{Kind: DirectivePlainText, Text: text}
}

// Prompt builds a prompt directive.
func Prompt(text string) Directive {
	return Directive{Kind: DirectivePrompt, Text: text}
}

// List builds a selectable-list directive.
func List(text string, items []Item) Directive {
	return Directive{Kind: DirectiveList, Text: text, Items: items}
}

// Detail builds a note-detail directive with attached actions.
func Detail(text string, actions []Item) Directive {
	return Directive{Kind: DirectiveDetail, Text: text, Actions: actions}
}

// Error builds a user-visible failure directive.
func Error(text string) Directive {
	return Directive{Kind: DirectiveError, Text: text}
}
