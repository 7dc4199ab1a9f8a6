package telegram

import (
	"testing"

	tgmodels "github.com/go-telegram/bot/models"
	"github.com/haasonsaas/notabot/pkg/models"
)

func TestConfigValidate(t *testing.T) {
	t.Run("requires token", func(t *testing.T) {
		cfg := Config{}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing token")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := Config{Token: "123:abc"}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if cfg.Mode != ModeLongPolling {
			t.Errorf("mode = %q", cfg.Mode)
		}
		if cfg.MaxReconnectAttempts != 5 {
			t.Errorf("max reconnect attempts = %d", cfg.MaxReconnectAttempts)
		}
	})

	t.Run("webhook requires url", func(t *testing.T) {
		cfg := Config{Token: "123:abc", Mode: ModeWebhook}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing webhook url")
		}
	})

	t.Run("webhook listen addr default", func(t *testing.T) {
		cfg := Config{Token: "123:abc", Mode: ModeWebhook, WebhookURL: "https://example.com/webhook"}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if cfg.ListenAddr != ":8443" {
			t.Errorf("listen addr = %q", cfg.ListenAddr)
		}
	})
}

func TestConvertUpdate(t *testing.T) {
	tests := []struct {
		name   string
		update *tgmodels.Update
		want   *models.Event
	}{
		{
			name:   "nil update",
			update: nil,
			want:   nil,
		},
		{
			name:   "empty update",
			update: &tgmodels.Update{},
			want:   nil,
		},
		{
			name: "plain text",
			update: &tgmodels.Update{Message: &tgmodels.Message{
				ID:   7,
				From: &tgmodels.User{ID: 42},
				Chat: tgmodels.Chat{ID: 42},
				Text: "milk, eggs",
			}},
			want: &models.Event{
				SenderID:  "42",
				ChatID:    "42",
				Kind:      models.KindText,
				Payload:   "milk, eggs",
				MessageID: 7,
			},
		},
		{
			name: "command",
			update: &tgmodels.Update{Message: &tgmodels.Message{
				ID:   8,
				From: &tgmodels.User{ID: 42},
				Chat: tgmodels.Chat{ID: -100},
				Text: "/add",
			}},
			want: &models.Event{
				SenderID:  "42",
				ChatID:    "-100",
				Kind:      models.KindCommand,
				Payload:   "/add",
				MessageID: 8,
			},
		},
		{
			name: "message without text",
			update: &tgmodels.Update{Message: &tgmodels.Message{
				From: &tgmodels.User{ID: 42},
				Chat: tgmodels.Chat{ID: 42},
			}},
			want: nil,
		},
		{
			name: "callback with message",
			update: &tgmodels.Update{CallbackQuery: &tgmodels.CallbackQuery{
				ID:   "cb-1",
				From: tgmodels.User{ID: 42},
				Data: "view_3",
				Message: tgmodels.MaybeInaccessibleMessage{Message: &tgmodels.Message{
					ID:   9,
					Chat: tgmodels.Chat{ID: -100},
				}},
			}},
			want: &models.Event{
				SenderID:   "42",
				ChatID:     "-100",
				Kind:       models.KindCallback,
				Payload:    "view_3",
				CallbackID: "cb-1",
				MessageID:  9,
			},
		},
		{
			name: "callback without message falls back to sender chat",
			update: &tgmodels.Update{CallbackQuery: &tgmodels.CallbackQuery{
				ID:   "cb-2",
				From: tgmodels.User{ID: 42},
				Data: "back_to_list",
			}},
			want: &models.Event{
				SenderID:   "42",
				ChatID:     "42",
				Kind:       models.KindCallback,
				Payload:    "back_to_list",
				CallbackID: "cb-2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertUpdate(tt.update)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil event, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected event, got nil")
			}
			if *got != *tt.want {
				t.Errorf("event = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestInlineKeyboard(t *testing.T) {
	rows := [][]models.Button{
		{{Label: "📌 alpha", Token: "view_1"}},
		{{Label: "✏️ Edit", Token: "edit_1"}, {Label: "🗑 Delete", Token: "del_1"}},
	}

	kb := inlineKeyboard(rows)
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d", len(kb.InlineKeyboard))
	}
	if len(kb.InlineKeyboard[1]) != 2 {
		t.Fatalf("second row buttons = %d", len(kb.InlineKeyboard[1]))
	}
	got := kb.InlineKeyboard[1][1]
	if got.Text != "🗑 Delete" || got.CallbackData != "del_1" {
		t.Errorf("button = %+v", got)
	}
}
