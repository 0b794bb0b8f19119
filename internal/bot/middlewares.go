package bot

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/giftdesk/giftdesk-bot/internal/errors"
	"github.com/giftdesk/giftdesk-bot/pkg/config"
	"github.com/giftdesk/giftdesk-bot/pkg/metrics"
)

// AccessMiddleware drops updates from operators outside the allow-list.
// Rejected updates are counted but never answered.
func AccessMiddleware(access *config.AccessList, log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			if access != nil && !access.Allowed(sender.ID) {
				log.Warn("update from unlisted user dropped", slog.Int64("user_id", sender.ID))
				metrics.RecordDenied()

				if c.Callback() != nil {
					_ = c.Respond()
				}
				return nil
			}

			return next(c)
		}
	}
}

// RecoveryMiddleware catches panics, reports them via the centralized
// handler, and keeps the poller alive.
func RecoveryMiddleware(log *slog.Logger, errHandler *errors.Handler) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))

					if errHandler != nil {
						appErr := errors.NewStateError(fmt.Sprintf("panic recovered: %v", r))
						_, _ = errHandler.Handle(context.Background(), appErr)
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and operator
// messaging for handler failures.
func ErrorHandlingMiddleware(errHandler *errors.Handler) Middleware {
	return func(next Handler) Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			recordErrorMetric(err)

			userMsg := "Сталася помилка. Спробуйте пізніше"
			if errHandler != nil {
				if msg, _ := errHandler.Handle(context.Background(), err); msg != "" {
					userMsg = msg
				}
			}

			_ = c.Send(userMsg)

			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates and feeds
// the update counters.
func LoggingMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()

			userID := int64(0)
			if c.Sender() != nil {
				userID = c.Sender().ID
			}

			updateType := "text"
			action := c.Text()
			if cb := c.Callback(); cb != nil {
				updateType = "callback"
				action = cb.Data
			}

			err := next(c)

			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.RecordUpdate(updateType, status)

			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("type", updateType),
				slog.String("action", action),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

func recordErrorMetric(err error) {
	var appErr *errors.AppError
	if stdErrors.As(err, &appErr) && appErr != nil {
		metrics.RecordError(appErr.Code, string(appErr.Severity))
		return
	}
	metrics.RecordError("unknown", string(errors.SeverityHigh))
}
