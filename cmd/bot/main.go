package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pdk-keningau/temujanji-bot/internal/app"
	"github.com/pdk-keningau/temujanji-bot/internal/config"
	"github.com/pdk-keningau/temujanji-bot/internal/controller"
	"github.com/pdk-keningau/temujanji-bot/internal/controller/session"
	"github.com/pdk-keningau/temujanji-bot/internal/conversation"
	"github.com/pdk-keningau/temujanji-bot/internal/gcal"
	"github.com/pdk-keningau/temujanji-bot/internal/repository"
	"github.com/pdk-keningau/temujanji-bot/internal/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := buildRecordStore(ctx, cfg, logger)
	cal := buildCalendar(ctx, cfg, logger)

	scheduleService := schedule.NewService(store, cal, schedule.DefaultOfficers, logger)
	machine := conversation.NewMachine(scheduleService, logger)
	sessions := session.NewStore()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create telegram bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, machine, sessions, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register command menu", zap.Error(err))
	}

	logger.Info("Starting temu janji bot",
		zap.String("environment", cfg.Environment),
		zap.String("store_backend", cfg.StoreBackend),
		zap.Bool("calendar_enabled", cal != nil))

	botController.Start(ctx)
	logger.Info("Bot stopped")
}

// buildRecordStore wires the configured record store backend. A nil
// return means degraded mode: the bot runs, but offers no slots.
func buildRecordStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) repository.RecordStore {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to connect to postgres", zap.Error(err))
		}

		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		return repository.NewBookingRepository(pool)

	default:
		if cfg.GoogleCredsJSON == "" || cfg.SpreadsheetID == "" {
			logger.Warn("GOOGLE_CREDS_JSON or SPREADSHEET_ID not set, record store disabled; no slots will be offered")
			return nil
		}

		svc, err := sheets.NewService(ctx,
			option.WithCredentialsJSON([]byte(cfg.GoogleCredsJSON)),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
		if err != nil {
			logger.Warn("Failed to create sheets client, record store disabled", zap.Error(err))
			return nil
		}
		return repository.NewSheetStore(svc, cfg.SpreadsheetID)
	}
}

// buildCalendar wires the calendar collaborator; nil disables the
// integration and bookings proceed without calendar events.
func buildCalendar(ctx context.Context, cfg *config.Config, logger *zap.Logger) gcal.Client {
	if cfg.GoogleCredsJSON == "" {
		logger.Warn("GOOGLE_CREDS_JSON not set, calendar integration disabled")
		return nil
	}

	client, err := gcal.NewClient(ctx, logger,
		option.WithCredentialsJSON([]byte(cfg.GoogleCredsJSON)),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		logger.Warn("Failed to create calendar client, calendar integration disabled", zap.Error(err))
		return nil
	}
	return client
}
