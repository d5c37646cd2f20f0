package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkozlov/timetable_bot/internal/app"
	"github.com/mkozlov/timetable_bot/internal/config"
	"github.com/mkozlov/timetable_bot/internal/controller"
	"github.com/mkozlov/timetable_bot/internal/repository"
	"github.com/mkozlov/timetable_bot/internal/service"
	"go.uber.org/zap"
)

const snapshotRefreshInterval = 6 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting timetable bot",
		zap.String("environment", cfg.Environment),
		zap.Time("semester_start", cfg.SemesterStart),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// База данных
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	periodRepo := repository.NewPeriodRepository(pool, logger)
	recoveryRepo := repository.NewRecoveryDayRepository(pool, logger)
	settingsRepo := repository.NewSettingsRepository(pool, logger)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	// Сервисы
	userService := service.NewUserService(userRepo, logger)
	settingsService := service.NewSettingsService(settingsRepo, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, logger)
	scheduleService := service.NewScheduleService(periodRepo, recoveryRepo, assignmentService, cfg.SemesterStart, logger)

	// Фоновое обновление снимка расписания
	refresher := app.NewRefresher(scheduleService, snapshotRefreshInterval, logger)
	refresher.Start(ctx)
	defer refresher.Stop()

	// Telegram бот
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		b,
		userService,
		settingsService,
		scheduleService,
		assignmentService,
		logger,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
