// Package telegram binds the bot core to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/haasonsaas/notabot/internal/channels"
	"github.com/haasonsaas/notabot/pkg/models"
)

// Mode represents the operation mode of the Telegram adapter.
type Mode string

const (
	// ModeLongPolling uses long polling to receive updates from Telegram.
	ModeLongPolling Mode = "long_polling"

	// ModeWebhook uses webhooks to receive updates from Telegram.
	ModeWebhook Mode = "webhook"
)

// Config holds configuration for the Telegram adapter.
type Config struct {
	// Token is the bot token from @BotFather (required).
	Token string

	// Mode determines whether to use long polling or webhooks.
	Mode Mode

	// WebhookURL is the HTTPS URL for webhook mode (required if Mode is
	// ModeWebhook).
	WebhookURL string

	// ListenAddr is the address for the webhook server, e.g. ":8443".
	ListenAddr string

	// MaxReconnectAttempts is the maximum number of reconnection attempts.
	MaxReconnectAttempts int

	// ReconnectDelay is the delay between reconnection attempts.
	ReconnectDelay time.Duration

	// Logger is an optional slog.Logger instance.
	Logger *slog.Logger
}

// Validate checks if the configuration is valid and applies defaults.
func (c *Config) Validate() error {
	if c.Token == "" {
		return channels.ErrConfig("token is required", nil)
	}
	if c.Mode == "" {
		c.Mode = ModeLongPolling
	}
	if c.Mode == ModeWebhook && c.WebhookURL == "" {
		return channels.ErrConfig("webhook_url is required for webhook mode", nil)
	}
	if c.Mode == ModeWebhook && c.ListenAddr == "" {
		c.ListenAddr = ":8443"
	}
	if c.MaxReconnectAttempts == 0 {
		c.MaxReconnectAttempts = 5
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

// Adapter implements the channels.Adapter interface for Telegram. One
// adapter serves both delivery modes; everything downstream of the event
// channel is identical for polling and webhook deployments.
type Adapter struct {
	config   Config
	bot      *bot.Bot
	events   chan *models.Event
	status   channels.Status
	statusMu sync.RWMutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *slog.Logger
}

// NewAdapter creates a new Telegram adapter with the given configuration.
func NewAdapter(config Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Adapter{
		config: config,
		events: make(chan *models.Event, 100),
		status: channels.Status{Connected: false},
		logger: config.Logger.With("adapter", "telegram"),
	}, nil
}

// Start begins listening for updates from Telegram.
func (a *Adapter) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.logger.Info("starting telegram adapter", "mode", a.config.Mode)

	b, err := bot.New(a.config.Token, bot.WithDefaultHandler(a.handleUpdate))
	if err != nil {
		a.updateStatus(false, fmt.Sprintf("failed to create bot: %v", err))
		return channels.ErrAuthentication("failed to create bot", err)
	}
	a.bot = b

	a.wg.Add(1)
	go a.runWithReconnection(ctx)

	a.logger.Info("telegram adapter started")
	return nil
}

// runWithReconnection drives the receive loop, reconnecting with bounded
// attempts after transient failures.
func (a *Adapter) runWithReconnection(ctx context.Context) {
	defer a.wg.Done()
	defer close(a.events)

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			a.updateStatus(false, "")
			a.logger.Info("telegram adapter stopped")
			return
		default:
		}

		if err := a.run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				a.updateStatus(false, "")
				return
			}

			attempts++
			a.updateStatus(false, fmt.Sprintf("bot error (attempt %d/%d)", attempts, a.config.MaxReconnectAttempts))
			a.logger.Error("telegram bot error",
				"error", err,
				"attempt", attempts,
				"max_attempts", a.config.MaxReconnectAttempts)

			if attempts >= a.config.MaxReconnectAttempts {
				a.logger.Error("max reconnection attempts reached, stopping adapter")
				return
			}

			select {
			case <-ctx.Done():
				a.updateStatus(false, "")
				return
			case <-time.After(a.config.ReconnectDelay):
				a.logger.Info("attempting to reconnect")
			}
			continue
		}

		a.updateStatus(false, "")
		return
	}
}

func (a *Adapter) run(ctx context.Context) error {
	a.updateStatus(true, "")

	if a.config.Mode == ModeWebhook {
		return a.runWebhook(ctx)
	}

	a.logger.Info("starting long polling mode")
	a.bot.Start(ctx)
	return nil
}

// runWebhook registers the webhook with Telegram and serves it locally,
// along with a health endpoint.
func (a *Adapter) runWebhook(ctx context.Context) error {
	a.logger.Info("starting webhook mode", "url", a.config.WebhookURL, "listen", a.config.ListenAddr)

	if _, err := a.bot.SetWebhook(ctx, &bot.SetWebhookParams{URL: a.config.WebhookURL}); err != nil {
		return channels.ErrConnection("failed to set webhook", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/webhook", a.bot.WebhookHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{Addr: a.config.ListenAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	// StartWebhook processes the updates the handler queues.
	go a.bot.StartWebhook(ctx)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return channels.ErrConnection("webhook server failed", err)
	}
	return nil
}

// handleUpdate converts a Telegram update into a transport-neutral event
// and queues it for the service layer.
func (a *Adapter) handleUpdate(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	ev := convertUpdate(update)
	if ev == nil {
		return
	}

	a.logger.Debug("received event",
		"sender_id", ev.SenderID,
		"kind", ev.Kind)

	select {
	case a.events <- ev:
		a.updateLastPing()
	case <-ctx.Done():
	default:
		a.logger.Warn("events channel full, dropping event", "sender_id", ev.SenderID)
	}
}

// Stop gracefully shuts down the adapter.
func (a *Adapter) Stop(ctx context.Context) error {
	a.logger.Info("stopping telegram adapter")

	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("telegram adapter stopped gracefully")
		return nil
	case <-ctx.Done():
		return channels.ErrTimeout("stop timeout", ctx.Err())
	}
}

// Send delivers a reply, attaching an inline keyboard when the reply
// carries buttons.
func (a *Adapter) Send(ctx context.Context, chatID string, reply *models.Reply) error {
	if a.bot == nil {
		return channels.ErrInternal("bot not initialized", nil)
	}
	if reply == nil {
		return nil
	}

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return channels.ErrInvalidInput("invalid chat id", err)
	}

	params := &bot.SendMessageParams{
		ChatID: id,
		Text:   reply.Text,
	}
	if len(reply.Buttons) > 0 {
		params.ReplyMarkup = inlineKeyboard(reply.Buttons)
	}

	if _, err := a.bot.SendMessage(ctx, params); err != nil {
		a.logger.Error("failed to send message", "error", err, "chat_id", chatID)
		return channels.ErrInternal("failed to send message", err)
	}
	return nil
}

// AckCallback answers a callback query so the pressed button stops
// showing a spinner.
func (a *Adapter) AckCallback(ctx context.Context, callbackID, text string) error {
	if a.bot == nil {
		return channels.ErrInternal("bot not initialized", nil)
	}

	_, err := a.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		a.logger.Error("failed to answer callback query", "error", err)
		return channels.ErrInternal("failed to answer callback query", err)
	}
	return nil
}

// Events returns the channel of inbound events.
func (a *Adapter) Events() <-chan *models.Event {
	return a.events
}

// Status returns the current connection status.
func (a *Adapter) Status() channels.Status {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status
}

// HealthCheck verifies authentication and connectivity with getMe.
func (a *Adapter) HealthCheck(ctx context.Context) channels.HealthStatus {
	start := time.Now()
	health := channels.HealthStatus{LastCheck: start}

	if a.bot == nil {
		health.Message = "bot not initialized"
		health.Latency = time.Since(start)
		return health
	}

	if _, err := a.bot.GetMe(ctx); err != nil {
		health.Message = fmt.Sprintf("health check failed: %v", err)
		health.Latency = time.Since(start)
		a.logger.Warn("health check failed", "error", err)
		return health
	}

	health.Healthy = true
	health.Message = "healthy"
	health.Latency = time.Since(start)
	return health
}

func (a *Adapter) updateStatus(connected bool, errMsg string) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.status.Connected = connected
	a.status.Error = errMsg
}

func (a *Adapter) updateLastPing() {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.status.LastPing = time.Now().Unix()
}

func inlineKeyboard(rows [][]models.Button) *tgmodels.InlineKeyboardMarkup {
	keyboard := make([][]tgmodels.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgmodels.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgmodels.InlineKeyboardButton{
				Text:         b.Label,
				CallbackData: b.Token,
			})
		}
		keyboard = append(keyboard, buttons)
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

// convertUpdate maps a Telegram update to the unified event shape. Updates
// that carry neither a text message nor a callback query are dropped.
func convertUpdate(update *tgmodels.Update) *models.Event {
	if update == nil {
		return nil
	}

	if cq := update.CallbackQuery; cq != nil {
		ev := &models.Event{
			SenderID:   strconv.FormatInt(cq.From.ID, 10),
			ChatID:     strconv.FormatInt(cq.From.ID, 10),
			Kind:       models.KindCallback,
			Payload:    cq.Data,
			CallbackID: cq.ID,
		}
		if msg := cq.Message.Message; msg != nil {
			ev.ChatID = strconv.FormatInt(msg.Chat.ID, 10)
			ev.MessageID = msg.ID
		}
		return ev
	}

	if msg := update.Message; msg != nil && msg.Text != "" && msg.From != nil {
		kind := models.KindText
		if strings.HasPrefix(msg.Text, "/") {
			kind = models.KindCommand
		}
		return &models.Event{
			SenderID:  strconv.FormatInt(msg.From.ID, 10),
			ChatID:    strconv.FormatInt(msg.Chat.ID, 10),
			Kind:      kind,
			Payload:   msg.Text,
			MessageID: msg.ID,
		}
	}

	return nil
}
