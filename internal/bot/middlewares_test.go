package bot

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	telebot "gopkg.in/telebot.v3"

	"github.com/giftdesk/giftdesk-bot/pkg/config"
)

// stubContext implements only the methods the middlewares touch.
type stubContext struct {
	telebot.Context
	sender *telebot.User
}

func (s *stubContext) Sender() *telebot.User       { return s.sender }
func (s *stubContext) Callback() *telebot.Callback { return nil }
func (s *stubContext) Text() string                { return "" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAccessMiddlewareAllowsListedUser(t *testing.T) {
	access := config.NewAccessList([]int64{100})
	mw := AccessMiddleware(access, discardLogger())

	called := false
	handler := mw(func(telebot.Context) error {
		called = true
		return nil
	})

	err := handler(&stubContext{sender: &telebot.User{ID: 100}})

	assert.NoError(t, err)
	assert.True(t, called)
}

func TestAccessMiddlewareDropsUnlistedUser(t *testing.T) {
	access := config.NewAccessList([]int64{100})
	mw := AccessMiddleware(access, discardLogger())

	called := false
	handler := mw(func(telebot.Context) error {
		called = true
		return nil
	})

	err := handler(&stubContext{sender: &telebot.User{ID: 999}})

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestAccessMiddlewareIgnoresMissingSender(t *testing.T) {
	access := config.NewAccessList([]int64{100})
	mw := AccessMiddleware(access, discardLogger())

	called := false
	handler := mw(func(telebot.Context) error {
		called = true
		return nil
	})

	err := handler(&stubContext{})

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestRecoveryMiddlewareSwallowsPanic(t *testing.T) {
	mw := RecoveryMiddleware(discardLogger(), nil)

	handler := mw(func(telebot.Context) error {
		panic("boom")
	})

	err := handler(&stubContext{sender: &telebot.User{ID: 1}})

	assert.NoError(t, err)
}

func TestErrorHandlingMiddlewarePassesThroughSuccess(t *testing.T) {
	mw := ErrorHandlingMiddleware(nil)

	handler := mw(func(telebot.Context) error { return nil })

	assert.NoError(t, handler(&stubContext{sender: &telebot.User{ID: 1}}))
}
