// Package main is the entry point for the bonus points bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bonus-points-bot/internal/bot"
	"bonus-points-bot/internal/config"
	"bonus-points-bot/internal/dashboard"
	"bonus-points-bot/internal/pkg/db"
	"bonus-points-bot/internal/pkg/lock"
	"bonus-points-bot/internal/repository"
	"bonus-points-bot/internal/service"
	"bonus-points-bot/internal/transport"
	"bonus-points-bot/internal/web"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	completionRepo := repository.NewCompletionRepository(dbPool.Pool)
	settingRepo := repository.NewSettingRepository(dbPool.Pool)
	dashboardRepo := repository.NewDashboardRepository(dbPool.Pool)

	// Initialize services
	activityService := service.NewActivityService(userRepo, completionRepo, settingRepo)

	// Initialize the Telegram transport and the dashboard reconciler
	teleBot, err := bot.NewTelebot(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Telegram bot")
	}

	messenger := transport.NewTelegram(teleBot)
	reconciler := dashboard.NewReconciler(messenger, dashboardRepo, activityService)

	// Initialize user lock
	userLock := lock.NewUserLock()

	// Start the daily reset scheduler
	scheduler := service.NewScheduler(activityService, reconciler, cfg.Reset.RetentionDays)
	scheduler.Start(ctx)

	// Start the read-only web mirror
	webServer := web.NewServer(cfg.Web.Addr, activityService, dbPool)
	webServer.Start()

	// Create bot dependencies
	deps := &bot.Dependencies{
		Config:     cfg,
		Activities: activityService,
		Dashboards: reconciler,
		UserLock:   userLock,
	}

	// Initialize bot
	telegramBot, err := bot.New(teleBot, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Reconcile tracked dashboards against current state after a restart
	go func() {
		if refreshed, err := reconciler.RefreshAll(ctx); err != nil {
			log.Error().Err(err).Msg("Startup dashboard reconciliation failed")
		} else {
			log.Info().Int("refreshed", refreshed).Msg("Startup dashboard reconciliation done")
		}
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	telegramBot.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Web mirror shutdown failed")
	}

	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			user_id BIGINT PRIMARY KEY,
			vip_status BOOLEAN NOT NULL DEFAULT FALSE,
			bp_balance BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create completions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS completions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			activity_id VARCHAR(64) NOT NULL,
			activity_day VARCHAR(10) NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMPTZ,
			awarded_points BIGINT NOT NULL DEFAULT 0,
			UNIQUE (user_id, activity_id, activity_day)
		);
		CREATE INDEX IF NOT EXISTS idx_completions_user_day ON completions(user_id, activity_day);
		CREATE INDEX IF NOT EXISTS idx_completions_day ON completions(activity_day);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: completions table created")

	// Migration 3: Create settings table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS settings (
			key VARCHAR(64) PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: settings table created")

	// Migration 4: Create dashboard_locations table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dashboard_locations (
			user_id BIGINT PRIMARY KEY,
			channel_id BIGINT NOT NULL,
			message_id BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: dashboard_locations table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
