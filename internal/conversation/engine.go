package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/haasonsaas/notabot/internal/notes"
	"github.com/haasonsaas/notabot/internal/observability"
	"github.com/haasonsaas/notabot/internal/sessions"
	"github.com/haasonsaas/notabot/pkg/models"
)

// Engine decides, for each classified event, which state the owner is in,
// what the event means in that state, and how it mutates the stores.
// It depends only on the store interfaces.
type Engine struct {
	notes    notes.Store
	sessions sessions.Store
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewEngine creates a conversation engine. Logger and metrics may be nil.
func NewEngine(noteStore notes.Store, sessionStore sessions.Store, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		notes:    noteStore,
		sessions: sessionStore,
		logger:   logger.With("component", "conversation"),
		metrics:  metrics,
	}
}

// Handle processes one event for one owner and returns the output
// directive. Every path resolves to a reply or a silent ignore; no error
// escapes to the caller.
func (e *Engine) Handle(ctx context.Context, ownerID string, ev Event) Directive {
	switch ev.Type {
	case EventCommand:
		return e.handleCommand(ctx, ownerID, ev.Command)
	case EventText:
		return e.handleText(ctx, ownerID, ev.Body)
	case EventSelection:
		return e.handleSelection(ctx, ownerID, ev.Action, ev.TargetID)
	default:
		return None()
	}
}

func (e *Engine) handleCommand(ctx context.Context, ownerID string, cmd CommandName) Directive {
	switch cmd {
	case CmdStart:
		return PlainText(msgWelcome)

	case CmdHelp:
		return PlainText(msgHelp)

	case CmdCancel:
		if err := e.sessions.Reset(ctx, ownerID); err != nil {
			return e.sessionError(ownerID, "reset", err)
		}
		return PlainText(msgCancelled)

	case CmdAdd:
		err := e.sessions.Update(ctx, ownerID, sessions.Patch{
			AddingStep:   sessions.Step(models.StepAwaitingTitle),
			PendingTitle: sessions.Title(""),
		})
		if err != nil {
			return e.sessionError(ownerID, "start add flow", err)
		}
		return Prompt(msgAskTitle)

	case CmdList:
		return e.renderList(ctx, ownerID, "")

	default:
		return None()
	}
}

func (e *Engine) handleSelection(ctx context.Context, ownerID string, action Action, targetID int64) Directive {
	switch action {
	case ActionView:
		note, err := e.notes.GetByID(ctx, targetID, ownerID)
		if errors.Is(err, notes.ErrNotFound) {
			return Error(msgNotFound)
		}
		if err != nil {
			return e.noteError(ownerID, "load note", err, msgLoadFailed)
		}
		return Detail(formatDetail(note), []Item{
			{Label: labelEdit, Action: ActionEdit, TargetID: note.ID},
			{Label: labelDelete, Action: ActionDelete, TargetID: note.ID},
			{Label: labelBack, Action: ActionBack},
		})

	case ActionDelete:
		if err := e.notes.Delete(ctx, targetID, ownerID); err != nil {
			return e.noteError(ownerID, "delete note", err, msgDeleteFailed)
		}
		// Re-render from a fresh read, never from a cached list.
		return e.renderList(ctx, ownerID, msgDeleted+"\n\n")

	case ActionEdit:
		// Only the editing target changes; an in-progress add flow keeps
		// its fields and still wins the free-text dispatch.
		err := e.sessions.Update(ctx, ownerID, sessions.Patch{
			EditingID: sessions.NoteID(targetID),
		})
		if err != nil {
			return e.sessionError(ownerID, "start edit flow", err)
		}
		return Prompt(fmt.Sprintf(
			"✏️ Editing note #%d\n\nSend the new text to replace the note content:\n\n(type /cancel to abort)",
			targetID))

	case ActionBack, ActionUnknown:
		return e.renderList(ctx, ownerID, "")

	default:
		return e.renderList(ctx, ownerID, "")
	}
}

// handleText dispatches free text in the order that defines the core
// sequencing invariant: add-flow title, then add-flow content, then edit
// flow, then silent ignore. First match wins.
func (e *Engine) handleText(ctx context.Context, ownerID, body string) Directive {
	session, err := e.sessions.Get(ctx, ownerID)
	if err != nil {
		return e.sessionError(ownerID, "load session", err)
	}

	body = strings.TrimSpace(body)

	switch {
	case session.AddingStep == models.StepAwaitingTitle:
		return e.handleTitleInput(ctx, ownerID, body)

	case session.AddingStep == models.StepAwaitingContent:
		return e.handleContentInput(ctx, ownerID, session.PendingTitle, body)

	case session.EditingID != 0:
		return e.handleEditInput(ctx, ownerID, session.EditingID, body)

	default:
		// Unrelated free text while idle: no store calls, no reply.
		return None()
	}
}

func (e *Engine) handleTitleInput(ctx context.Context, ownerID, title string) Directive {
	if title == "" {
		// Validation failure re-prompts the same step; state unchanged.
		return Error(msgEmptyTitle)
	}

	err := e.sessions.Update(ctx, ownerID, sessions.Patch{
		AddingStep:   sessions.Step(models.StepAwaitingContent),
		PendingTitle: sessions.Title(title),
	})
	if err != nil {
		return e.sessionError(ownerID, "save pending title", err)
	}

	return Prompt(fmt.Sprintf(
		"📌 Title: %s\n\nNow enter the note content:\n\n(type /cancel to abort)", title))
}

func (e *Engine) handleContentInput(ctx context.Context, ownerID, pendingTitle, content string) Directive {
	if content == "" {
		return Error(msgEmptyContent)
	}

	if pendingTitle == "" {
		// Should be unreachable: awaiting_content implies a stored title.
		e.logger.Warn("awaiting content without pending title", "owner_id", ownerID)
		if err := e.sessions.Update(ctx, ownerID, sessions.Patch{
			AddingStep: sessions.Step(models.StepIdle),
		}); err != nil {
			return e.sessionError(ownerID, "reset broken add flow", err)
		}
		return Error(msgAddBroken)
	}

	note, err := e.notes.Create(ctx, ownerID, pendingTitle, content)
	if err != nil {
		e.recordFlow("add", "failed")
		e.clearAddFlow(ctx, ownerID)
		return e.noteError(ownerID, "create note", err, msgCreateFailed)
	}

	if d := e.clearAddFlow(ctx, ownerID); d != nil {
		return *d
	}

	e.recordFlow("add", "completed")
	return PlainText(fmt.Sprintf("✅ Note saved!\n\n📌 %s\n%s", note.Title, note.Content))
}

func (e *Engine) handleEditInput(ctx context.Context, ownerID string, editingID int64, content string) Directive {
	if content == "" {
		return Error(msgEmptyContent)
	}

	err := e.notes.Update(ctx, editingID, ownerID, content)
	if errors.Is(err, notes.ErrNotFound) {
		// The target is gone; clear the edit so stale state cannot swallow
		// the owner's next unrelated message.
		e.recordFlow("edit", "failed")
		e.clearEditFlow(ctx, ownerID)
		return Error(msgUpdateFailed)
	}
	if err != nil {
		// Transient storage failure: keep the edit target so the owner
		// can simply resend.
		e.recordFlow("edit", "failed")
		return e.noteError(ownerID, "update note", err, msgUpdateFailed)
	}

	if d := e.clearEditFlow(ctx, ownerID); d != nil {
		return *d
	}

	e.recordFlow("edit", "completed")
	return PlainText(fmt.Sprintf("✅ Note #%d updated!\n\n%q", editingID, content))
}

// renderList fetches the owner's notes and builds the list directive,
// optionally prefixed with a confirmation line.
func (e *Engine) renderList(ctx context.Context, ownerID, prefix string) Directive {
	all, err := e.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return e.noteError(ownerID, "list notes", err, msgListFailed)
	}

	if len(all) == 0 {
		return PlainText(prefix + msgNoNotes)
	}

	items := make([]Item, 0, len(all))
	for _, n := range all {
		items = append(items, Item{Label: n.Title, Action: ActionView, TargetID: n.ID})
	}
	return List(prefix+msgListNotes, items)
}

func (e *Engine) clearAddFlow(ctx context.Context, ownerID string) *Directive {
	err := e.sessions.Update(ctx, ownerID, sessions.Patch{
		AddingStep:   sessions.Step(models.StepIdle),
		PendingTitle: sessions.Title(""),
	})
	if err != nil {
		d := e.sessionError(ownerID, "clear add flow", err)
		return &d
	}
	return nil
}

func (e *Engine) clearEditFlow(ctx context.Context, ownerID string) *Directive {
	err := e.sessions.Update(ctx, ownerID, sessions.Patch{
		EditingID: sessions.NoteID(0),
	})
	if err != nil {
		d := e.sessionError(ownerID, "clear edit flow", err)
		return &d
	}
	return nil
}

func (e *Engine) sessionError(ownerID, op string, err error) Directive {
	e.logger.Error("session store failure", "op", op, "owner_id", ownerID, "error", err)
	if e.metrics != nil {
		e.metrics.StoreErrors.WithLabelValues("sessions").Inc()
	}
	return Error(msgOperationFailed)
}

func (e *Engine) noteError(ownerID, op string, err error, reply string) Directive {
	e.logger.Error("note store failure", "op", op, "owner_id", ownerID, "error", err)
	if e.metrics != nil {
		e.metrics.StoreErrors.WithLabelValues("notes").Inc()
	}
	return Error(reply)
}

func (e *Engine) recordFlow(flow, outcome string) {
	if e.metrics != nil {
		e.metrics.FlowOutcomes.WithLabelValues(flow, outcome).Inc()
	}
}

func formatDetail(n *models.Note) string {
	return fmt.Sprintf("📌 %s\n\n%s\n\n📅 %s", n.Title, n.Content, n.CreatedAt.Format("02 Jan 2006"))
}
