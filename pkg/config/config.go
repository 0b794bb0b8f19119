// Package config provides configuration loading and validation utilities.
package config

import (
	"sync"
	"time"

	"github.com/giftdesk/giftdesk-bot/internal/marketplace"
	"github.com/giftdesk/giftdesk-bot/pkg/logger"
	"github.com/giftdesk/giftdesk-bot/pkg/redis"
)

// Storage backends for conversation state.
const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds the runtime configuration for the bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Logger      logger.Config      `mapstructure:"logger"`
	Bot         BotConfig          `mapstructure:"bot"`
	Marketplace marketplace.Config `mapstructure:"marketplace"`
	Storage     StorageConfig      `mapstructure:"storage"`
	Redis       redis.Config       `mapstructure:"redis"`
	Postgres    PostgresConfig     `mapstructure:"postgres"`
	Sentry      SentryConfig       `mapstructure:"sentry"`
	Server      ServerConfig       `mapstructure:"server"`
	I18n        I18nConfig         `mapstructure:"i18n"`
}

// BotConfig configures the Telegram connection and the operator allow-list.
type BotConfig struct {
	Token          string        `mapstructure:"token" validate:"required"`
	Timeout        time.Duration `mapstructure:"timeout"`
	AllowedUserIDs []int64       `mapstructure:"allowed_user_ids" validate:"required,min=1"`
	AdminUserID    int64         `mapstructure:"admin_user_id"`
}

// StorageConfig selects and tunes the conversation state backend.
type StorageConfig struct {
	Backend         string        `mapstructure:"backend" validate:"required,oneof=redis postgres"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxAge          time.Duration `mapstructure:"max_age"`
}

// PostgresConfig holds the DSN for the postgres state backend.
type PostgresConfig struct {
	DSN           string `mapstructure:"dsn"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the metrics and health HTTP endpoint.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// I18nConfig configures the locale catalogs.
type I18nConfig struct {
	Dir         string `mapstructure:"dir"`
	DefaultLang string `mapstructure:"default_lang"`
}

// AccessList is the hot-reloadable operator allow-list. Membership checks
// happen on every update, replacement on config reload.
type AccessList struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

// NewAccessList builds an AccessList from the given user ids.
func NewAccessList(ids []int64) *AccessList {
	l := &AccessList{}
	l.Replace(ids)
	return l
}

// Allowed reports whether userID may talk to the bot.
func (l *AccessList) Allowed(userID int64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.ids[userID]
	return ok
}

// Replace swaps the entire membership set.
func (l *AccessList) Replace(ids []int64) {
	next := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}

	l.mu.Lock()
	l.ids = next
	l.mu.Unlock()
}

// Len returns the current number of allow-listed operators.
func (l *AccessList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.ids)
}
