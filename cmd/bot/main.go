package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"

	"github.com/giftdesk/giftdesk-bot/internal/bot"
	"github.com/giftdesk/giftdesk-bot/internal/database"
	"github.com/giftdesk/giftdesk-bot/internal/i18n"
	"github.com/giftdesk/giftdesk-bot/internal/marketplace"
	"github.com/giftdesk/giftdesk-bot/internal/state"
	"github.com/giftdesk/giftdesk-bot/pkg/config"
	"github.com/giftdesk/giftdesk-bot/pkg/graceful"
	"github.com/giftdesk/giftdesk-bot/pkg/logger"
	predis "github.com/giftdesk/giftdesk-bot/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			slog.Error("failed to init sentry", slog.Any("error", err))
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
	}

	cfg.Logger.SentryEnabled = cfg.Sentry.Enabled
	log := logger.New(cfg.Logger)

	log.Info("starting giftdesk bot",
		slog.String("env", cfg.AppEnv),
		slog.String("storage", cfg.Storage.Backend),
		slog.Int("operators", len(cfg.Bot.AllowedUserIDs)))

	store, cleanup, err := buildStorage(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize state storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	translations, err := i18n.LoadFromDir(cfg.I18n.Dir, cfg.I18n.DefaultLang)
	if err != nil {
		log.Error("failed to load translations", slog.Any("error", err))
		os.Exit(1)
	}
	translator := translations.Translator(cfg.I18n.DefaultLang)

	market := marketplace.NewClient(cfg.Marketplace, log)

	access := config.NewAccessList(cfg.Bot.AllowedUserIDs)
	config.Watch(v, access, log)

	b, err := bot.New(cfg, log, store, market, translator, access)
	if err != nil {
		log.Error("failed to initialize bot", slog.Any("error", err))
		os.Exit(1)
	}

	srv := graceful.NewServer(log, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
	go func() {
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Error("metrics server stopped", slog.Any("error", err))
		}
	}()

	go b.Start()
	log.Info("bot started")

	<-ctx.Done()

	b.Stop()
	log.Info("giftdesk bot shut down")
}

// buildStorage wires the configured state backend and returns it together
// with a close function.
func buildStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (state.Storage, func(), error) {
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		migrator := database.NewMigrator(db, log)
		if err := migrator.ApplyDir(ctx, cfg.Postgres.MigrationsDir); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return state.NewPostgresStorage(db, log), func() { _ = db.Close() }, nil

	default:
		client, err := predis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}

		store := state.NewRedisStorage(predis.NewMetricsClient(client), log, cfg.Storage.TTL)

		cleaner := state.NewCleaner(client.Client, store, log, cfg.Storage.MaxAge, cfg.Storage.CleanupInterval)
		go cleaner.Run(ctx)

		return store, func() { _ = client.Close() }, nil
	}
}
