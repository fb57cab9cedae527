package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/Freeeeeet/sportbook_bot/internal/app"
	"github.com/Freeeeeet/sportbook_bot/internal/config"
	"github.com/Freeeeeet/sportbook_bot/internal/controller"
	"github.com/Freeeeeet/sportbook_bot/internal/repository"
	"github.com/Freeeeeet/sportbook_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const cacheTTL = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting sportbook bot",
		zap.String("environment", cfg.Environment),
		zap.String("api_base_url", cfg.APIBaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Подключаемся к Postgres (хранилище сессий)
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Применяем миграции
	migrator, err := app.NewMigrator(pool, "migrations")
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	// HTTP-клиент backend API и кэш ответов
	client := api.NewClient(cfg.APIBaseURL, logger)
	cache := api.NewCache(cacheTTL, logger)

	// Репозитории и сервисы
	sessionRepo := repository.NewSessionRepository(pool)
	sessions := service.NewSessionService(sessionRepo, client, logger)
	facilities := service.NewFacilityService(client, cache, logger)
	bookings := service.NewBookingService(client, cache, logger)

	// Фоновая чистка кэша
	scheduler := app.NewScheduler(cache, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Телеграм-бот
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, sessions, facilities, bookings, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	logger.Info("🚀 Bot is up")
	botController.Start(ctx)

	logger.Info("Bot stopped")
}
