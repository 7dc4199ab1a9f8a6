package render

import (
	"github.com/haasonsaas/notabot/internal/conversation"
	"github.com/haasonsaas/notabot/pkg/models"
)

// Render converts a directive into a reply. A nil result means no reply is
// sent (silent ignore).
func Render(d conversation.Directive) *models.Reply {
	switch d.Kind {
	case conversation.DirectiveNone:
		return nil

	case conversation.DirectiveList:
		return &models.Reply{
			Text:    d.Text,
			Buttons: listKeyboard(d.Items),
		}

	case conversation.DirectiveDetail:
		return &models.Reply{
			Text:    d.Text,
			Buttons: detailKeyboard(d.Actions),
		}

	default:
		// PlainText, Prompt and Error all render as bare text.
		return &models.Reply{Text: d.Text}
	}
}

// listKeyboard lays out one note per row, matching the original bot's list.
func listKeyboard(items []conversation.Item) [][]models.Button {
	rows := make([][]models.Button, 0, len(items))
	for _, item := range items {
		rows = append(rows, []models.Button{{
			Label: "📌 " + item.Label,
			Token: EncodeToken(item.Action, item.TargetID),
		}})
	}
	return rows
}

// detailKeyboard lays out note actions on one row with back on its own row
// below, matching the original bot's detail view.
func detailKeyboard(actions []conversation.Item) [][]models.Button {
	var main, back []models.Button
	for _, a := range actions {
		btn := models.Button{
			Label: a.Label,
			Token: EncodeToken(a.Action, a.TargetID),
		}
		if a.Action == conversation.ActionBack {
			back = append(back, btn)
		} else {
			main = append(main, btn)
		}
	}

	var rows [][]models.Button
	if len(main) > 0 {
		rows = append(rows, main)
	}
	if len(back) > 0 {
		rows = append(rows, back)
	}
	return rows
}
