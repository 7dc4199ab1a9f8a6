// Package dispatch classifies raw inbound events into the engine's event
// shapes. It is a pure lookup with no state.
package dispatch

import (
	"strings"

	"github.com/haasonsaas/notabot/internal/conversation"
	"github.com/haasonsaas/notabot/internal/render"
	"github.com/haasonsaas/notabot/pkg/models"
)

// CommandPrefix starts every bot command.
const CommandPrefix = "/"

// knownCommands maps command words to their canonical names.
var knownCommands = map[string]conversation.CommandName{
	"start":  conversation.CmdStart,
	"add":    conversation.CmdAdd,
	"list":   conversation.CmdList,
	"help":   conversation.CmdHelp,
	"cancel": conversation.CmdCancel,
}

// Classify turns a raw inbound event into an engine event. The second
// return value is false when the event should be dropped without a reply:
// command-prefixed text that matches no known command.
func Classify(ev *models.Event) (conversation.Event, bool) {
	switch ev.Kind {
	case models.KindCallback:
		return classifyCallback(ev.Payload), true

	case models.KindCommand:
		return classifyCommand(ev.Payload)

	default:
		// Free text; a defensive prefix check covers adapters that do
		// not pre-classify commands.
		if strings.HasPrefix(ev.Payload, CommandPrefix) {
			return classifyCommand(ev.Payload)
		}
		return conversation.Event{Type: conversation.EventText, Body: ev.Payload}, true
	}
}

func classifyCommand(text string) (conversation.Event, bool) {
	word := strings.TrimPrefix(strings.TrimSpace(text), CommandPrefix)
	if i := strings.IndexAny(word, " \t\n"); i >= 0 {
		word = word[:i]
	}
	// Telegram suffixes commands with the bot username in groups.
	if i := strings.Index(word, "@"); i >= 0 {
		word = word[:i]
	}

	cmd, ok := knownCommands[strings.ToLower(word)]
	if !ok {
		return conversation.Event{}, false
	}
	return conversation.Event{Type: conversation.EventCommand, Command: cmd}, true
}

func classifyCallback(token string) conversation.Event {
	action, targetID := render.DecodeToken(token)
	if action == conversation.ActionUnknown {
		// Malformed or unrecognized token: route to the list, a state
		// that is always safe to show.
		return conversation.Event{Type: conversation.EventSelection, Action: conversation.ActionBack}
	}
	return conversation.Event{
		Type:     conversation.EventSelection,
		Action:   action,
		TargetID: targetID,
	}
}
