// Package bot wires the Telegram transport to the conversation flow engine.
package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/giftdesk/giftdesk-bot/internal/bot/keyboard"
	"github.com/giftdesk/giftdesk-bot/internal/errors"
	"github.com/giftdesk/giftdesk-bot/internal/flow"
	"github.com/giftdesk/giftdesk-bot/internal/i18n"
	"github.com/giftdesk/giftdesk-bot/internal/state"
	"github.com/giftdesk/giftdesk-bot/pkg/config"
)

// Bot wraps telebot.Bot with the application dependencies required for
// handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	engine     *flow.Engine
	router     *Router
	errHandler *errors.Handler
}

// New builds a telegram bot instance configured according to the
// application settings.
func New(
	cfg *config.Config,
	log *slog.Logger,
	store state.Storage,
	market flow.Marketplace,
	translator i18n.Translator,
	access *config.AccessList,
) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
		Poller: &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		},
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	kb := keyboard.NewBuilder(translator, log)
	prompter := NewPrompter(tb, kb, translator, log)
	engine := flow.New(store, market, prompter, log, cfg.Bot.AdminUserID)
	errHandler := errors.NewHandler(log, cfg.Sentry.Enabled)

	router := NewRouter(engine, log)
	router.Use(RecoveryMiddleware(log, errHandler))
	router.Use(AccessMiddleware(access, log))
	router.Use(ErrorHandlingMiddleware(errHandler))
	router.Use(LoggingMiddleware(log))

	b := &Bot{
		telebot:    tb,
		log:        log,
		engine:     engine,
		router:     router,
		errHandler: errHandler,
	}

	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such
// as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Engine exposes the flow engine, used by tests and diagnostics.
func (b *Bot) Engine() *flow.Engine {
	return b.engine
}

func (b *Bot) registerTelebotHandlers() {
	start := b.router.StartHandler()

	b.telebot.Handle(CommandStart, telebot.HandlerFunc(start))
	// Cancelling and starting over are the same transition: clear state,
	// show the menu.
	b.telebot.Handle(CommandCancel, telebot.HandlerFunc(start))
	b.telebot.Handle(telebot.OnText, telebot.HandlerFunc(b.router.TextHandler()))
	b.telebot.Handle(telebot.OnCallback, telebot.HandlerFunc(b.router.CallbackHandler()))
}
