package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from YAML files and environment variables,
// validates it, and returns the resulting Config together with the viper
// instance for watching.
func Load() (*Config, *viper.Viper, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// env files are optional
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-reads the config file on change and swaps the allow-list in
// place. Other settings require a restart.
func Watch(v *viper.Viper, access *AccessList, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(event fsnotify.Event) {
		cfg, err := unmarshal(v)
		if err != nil {
			log.Error("config reload rejected", slog.String("file", event.Name), slog.Any("error", err))
			return
		}

		access.Replace(cfg.Bot.AllowedUserIDs)
		log.Info("operator allow-list reloaded",
			slog.String("file", event.Name),
			slog.Int("operators", access.Len()))
	})
	v.WatchConfig()
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("bot.timeout", 10*time.Second)

	v.SetDefault("marketplace.timeout", 30*time.Second)

	v.SetDefault("storage.backend", StorageRedis)
	v.SetDefault("storage.ttl", 24*time.Hour)
	v.SetDefault("storage.cleanup_interval", time.Hour)
	v.SetDefault("storage.max_age", 12*time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("postgres.migrations_dir", "internal/database/migrations")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("i18n.dir", "internal/i18n/locales")
	v.SetDefault("i18n.default_lang", "en")
}
