package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/haasonsaas/notabot/internal/channels"
	"github.com/haasonsaas/notabot/internal/conversation"
	"github.com/haasonsaas/notabot/internal/notes"
	"github.com/haasonsaas/notabot/internal/sessions"
	"github.com/haasonsaas/notabot/pkg/models"
)

type sentReply struct {
	chatID string
	reply  *models.Reply
}

// fakeAdapter feeds scripted events and records outbound traffic.
type fakeAdapter struct {
	events chan *models.Event

	mu    sync.Mutex
	sent  []sentReply
	acked []string
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{events: make(chan *models.Event, 32)}
}

func (f *fakeAdapter) Start(ctx context.Context) error { return nil }
func (f *fakeAdapter) Stop(ctx context.Context) error  { return nil }

func (f *fakeAdapter) Events() <-chan *models.Event { return f.events }

func (f *fakeAdapter) Send(ctx context.Context, chatID string, reply *models.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentReply{chatID: chatID, reply: reply})
	return nil
}

func (f *fakeAdapter) AckCallback(ctx context.Context, callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, callbackID)
	return nil
}

func (f *fakeAdapter) HealthCheck(ctx context.Context) channels.HealthStatus {
	return channels.HealthStatus{Healthy: true}
}

func (f *fakeAdapter) snapshot() ([]sentReply, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentReply(nil), f.sent...), append([]string(nil), f.acked...)
}

func runService(t *testing.T, adapter *fakeAdapter, feed []*models.Event) ([]sentReply, []string) {
	t.Helper()

	noteStore := notes.NewMemoryStore()
	sessionStore := sessions.NewMemoryStore()
	engine := conversation.NewEngine(noteStore, sessionStore, nil, nil)
	svc := New(adapter, engine, sessionStore, SweepConfig{}, nil, nil)

	done := make(chan error, 1)
	go func() { done <- svc.Run(context.Background()) }()

	for _, ev := range feed {
		adapter.events <- ev
	}
	close(adapter.events)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}

	return adapter.snapshot()
}

func TestRunProcessesCommand(t *testing.T) {
	adapter := newFakeAdapter()
	sent, _ := runService(t, adapter, []*models.Event{
		{SenderID: "1", ChatID: "1", Kind: models.KindCommand, Payload: "/start"},
	})

	if len(sent) != 1 {
		t.Fatalf("sent = %d replies", len(sent))
	}
	if sent[0].chatID != "1" {
		t.Errorf("chat id = %q", sent[0].chatID)
	}
	if !strings.Contains(sent[0].reply.Text, "Welcome") {
		t.Errorf("reply = %q", sent[0].reply.Text)
	}
}

func TestRunIdleTextIsSilent(t *testing.T) {
	adapter := newFakeAdapter()
	sent, _ := runService(t, adapter, []*models.Event{
		{SenderID: "1", ChatID: "1", Kind: models.KindText, Payload: "stray message"},
	})

	if len(sent) != 0 {
		t.Fatalf("expected no replies, got %d", len(sent))
	}
}

func TestRunAcksEveryCallback(t *testing.T) {
	adapter := newFakeAdapter()
	_, acked := runService(t, adapter, []*models.Event{
		{SenderID: "1", ChatID: "1", Kind: models.KindCallback, Payload: "view_999", CallbackID: "cb-1"},
		{SenderID: "1", ChatID: "1", Kind: models.KindCallback, Payload: "garbage", CallbackID: "cb-2"},
	})

	if len(acked) != 2 {
		t.Fatalf("acked = %v", acked)
	}
}

func TestRunKeepsSenderOrder(t *testing.T) {
	adapter := newFakeAdapter()

	// Full add flow as three rapid events from one sender. Order matters:
	// title must be captured before the content arrives.
	sent, _ := runService(t, adapter, []*models.Event{
		{SenderID: "7", ChatID: "7", Kind: models.KindCommand, Payload: "/add"},
		{SenderID: "7", ChatID: "7", Kind: models.KindText, Payload: "groceries"},
		{SenderID: "7", ChatID: "7", Kind: models.KindText, Payload: "milk, eggs"},
	})

	if len(sent) != 3 {
		t.Fatalf("sent = %d replies", len(sent))
	}
	if !strings.Contains(sent[2].reply.Text, "groceries") {
		t.Errorf("final reply = %q", sent[2].reply.Text)
	}
}

func TestRunDropsUnknownCommands(t *testing.T) {
	adapter := newFakeAdapter()
	sent, _ := runService(t, adapter, []*models.Event{
		{SenderID: "1", ChatID: "1", Kind: models.KindCommand, Payload: "/frobnicate"},
	})

	if len(sent) != 0 {
		t.Fatalf("expected no replies, got %d", len(sent))
	}
}
