// Package service runs the bot: it pulls events from a channel adapter,
// routes them through the conversation engine, and sends the rendered
// replies back out.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/haasonsaas/notabot/internal/channels"
	"github.com/haasonsaas/notabot/internal/conversation"
	"github.com/haasonsaas/notabot/internal/dispatch"
	"github.com/haasonsaas/notabot/internal/observability"
	"github.com/haasonsaas/notabot/internal/render"
	"github.com/haasonsaas/notabot/internal/sessions"
	"github.com/haasonsaas/notabot/pkg/models"
)

// SweepConfig controls the periodic session sweep job.
type SweepConfig struct {
	// Schedule is a cron expression, e.g. "@hourly".
	Schedule string

	// IdleTTL is how long an idle session may sit before removal.
	IdleTTL time.Duration
}

// Service wires an adapter to the conversation engine. Events from
// different senders are handled concurrently; events from the same sender
// are handled strictly in arrival order.
type Service struct {
	adapter  channels.Adapter
	engine   *conversation.Engine
	sessions sessions.Store
	sweep    SweepConfig
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu     sync.Mutex
	queues map[string]chan *models.Event
	wg     sync.WaitGroup
}

// New creates a Service. Logger and metrics may be nil.
func New(adapter channels.Adapter, engine *conversation.Engine, sessionStore sessions.Store, sweep SweepConfig, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Service{
		adapter:  adapter,
		engine:   engine,
		sessions: sessionStore,
		sweep:    sweep,
		logger:   logger.With("component", "service"),
		metrics:  metrics,
		queues:   make(map[string]chan *models.Event),
	}
}

// Run starts the adapter and processes events until the context is
// cancelled or the adapter's event channel closes.
func (s *Service) Run(ctx context.Context) error {
	if err := s.adapter.Start(ctx); err != nil {
		return err
	}

	sweeper := s.startSweeper(ctx)

	s.logger.Info("service started")
	for {
		select {
		case <-ctx.Done():
			s.shutdown(sweeper)
			return ctx.Err()
		case ev, ok := <-s.adapter.Events():
			if !ok {
				s.shutdown(sweeper)
				return nil
			}
			if ev == nil {
				continue
			}
			s.enqueue(ctx, ev)
		}
	}
}

// enqueue routes the event to its sender's queue, creating the worker on
// first use. Ordering per sender is what keeps the two-step add flow
// coherent when a user types quickly.
func (s *Service) enqueue(ctx context.Context, ev *models.Event) {
	s.mu.Lock()
	q, ok := s.queues[ev.SenderID]
	if !ok {
		q = make(chan *models.Event, 16)
		s.queues[ev.SenderID] = q
		s.wg.Add(1)
		go s.worker(ctx, q)
	}
	s.mu.Unlock()

	select {
	case q <- ev:
	case <-ctx.Done():
	default:
		s.logger.Warn("sender queue full, dropping event", "sender_id", ev.SenderID)
	}
}

func (s *Service) worker(ctx context.Context, q <-chan *models.Event) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-q:
			if !ok {
				return
			}
			s.handle(ctx, ev)
		}
	}
}

// handle processes one event end to end. Callback events are acknowledged
// whatever the outcome, so buttons never spin forever.
func (s *Service) handle(ctx context.Context, ev *models.Event) {
	start := time.Now()
	logger := s.logger.With("request_id", uuid.NewString(), "sender_id", ev.SenderID)

	s.metrics.EventsProcessed.WithLabelValues(string(ev.Kind)).Inc()

	if ev.Kind == models.KindCallback && ev.CallbackID != "" {
		defer func() {
			if err := s.adapter.AckCallback(ctx, ev.CallbackID, ""); err != nil {
				logger.Warn("failed to ack callback", "error", err)
			}
		}()
	}

	convEv, ok := dispatch.Classify(ev)
	if !ok {
		logger.Debug("dropping unroutable event", "kind", ev.Kind)
		return
	}

	directive := s.engine.Handle(ctx, ev.SenderID, convEv)
	s.metrics.HandleDuration.Observe(time.Since(start).Seconds())

	reply := render.Render(directive)
	if reply == nil {
		return
	}

	if err := s.adapter.Send(ctx, ev.ChatID, reply); err != nil {
		logger.Error("failed to send reply", "error", err)
		return
	}
	s.metrics.RepliesSent.Inc()
}

// startSweeper schedules the periodic idle-session sweep. A nil session
// store or empty schedule disables it.
func (s *Service) startSweeper(ctx context.Context) *cron.Cron {
	if s.sessions == nil || s.sweep.Schedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(s.sweep.Schedule, func() {
		removed, err := s.sessions.Sweep(ctx, s.sweep.IdleTTL)
		if err != nil {
			s.logger.Error("session sweep failed", "error", err)
			return
		}
		if removed > 0 {
			s.logger.Info("swept idle sessions", "removed", removed)
		}
	})
	if err != nil {
		s.logger.Error("invalid sweep schedule", "schedule", s.sweep.Schedule, "error", err)
		return nil
	}
	c.Start()
	return c
}

func (s *Service) shutdown(sweeper *cron.Cron) {
	if sweeper != nil {
		<-sweeper.Stop().Done()
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.adapter.Stop(stopCtx); err != nil {
		s.logger.Warn("adapter stop failed", "error", err)
	}

	s.mu.Lock()
	for _, q := range s.queues {
		close(q)
	}
	s.queues = nil
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.logger.Warn("workers did not drain before shutdown deadline")
	}
	s.logger.Info("service stopped")
}
