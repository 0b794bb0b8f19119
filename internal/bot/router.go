package bot

import (
	"context"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/giftdesk/giftdesk-bot/internal/flow"
	"github.com/giftdesk/giftdesk-bot/pkg/logger"
)

// Handler processes one Telegram update.
type Handler func(telebot.Context) error

// Middleware wraps a Handler with cross-cutting behavior.
type Middleware func(Handler) Handler

// Router translates Telegram updates into flow engine calls. Every inbound
// message and pressed button message is deleted so the chat only ever shows
// the current prompt.
type Router struct {
	engine      *flow.Engine
	log         *slog.Logger
	middlewares []Middleware
}

// NewRouter builds a Router around the flow engine.
func NewRouter(engine *flow.Engine, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{engine: engine, log: log}
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

// StartHandler returns the wrapped /start handler.
func (r *Router) StartHandler() Handler {
	return r.wrap(r.handleStart)
}

// TextHandler returns the wrapped free-text handler.
func (r *Router) TextHandler() Handler {
	return r.wrap(r.handleText)
}

// CallbackHandler returns the wrapped inline-button handler.
func (r *Router) CallbackHandler() Handler {
	return r.wrap(r.handleCallback)
}

func (r *Router) handleStart(c telebot.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	r.deleteInbound(c)
	return r.engine.Start(r.ctx(), sender.ID)
}

func (r *Router) handleText(c telebot.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	text := c.Text()
	r.deleteInbound(c)

	return r.engine.HandleText(r.ctx(), sender.ID, text)
}

func (r *Router) handleCallback(c telebot.Context) error {
	sender := c.Sender()
	callback := c.Callback()
	if sender == nil || callback == nil {
		return nil
	}

	// Stop the client-side loading spinner regardless of outcome.
	defer func() { _ = c.Respond() }()

	data := strings.TrimPrefix(callback.Data, "\f")
	act, ok := flow.ParseAction(data)
	if !ok {
		r.log.Info("unrecognized callback payload", slog.Int64("user_id", sender.ID), slog.String("data", data))
		return nil
	}

	r.deleteInbound(c)
	return r.engine.HandleAction(r.ctx(), sender.ID, act)
}

// deleteInbound removes the triggering message, best effort. Prompts the
// engine tracks are retracted by the engine itself; this covers operator
// messages and stateless views.
func (r *Router) deleteInbound(c telebot.Context) {
	msg := c.Message()
	if msg == nil {
		return
	}

	if err := c.Bot().Delete(msg); err != nil {
		r.log.Debug("failed to delete inbound message", slog.Int("message_id", msg.ID), slog.Any("error", err))
	}
}

func (r *Router) ctx() context.Context {
	return logger.WithCorrelationID(context.Background(), "")
}

// wrap applies registered middlewares, outermost first.
func (r *Router) wrap(h Handler) Handler {
	wrapped := h
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}
