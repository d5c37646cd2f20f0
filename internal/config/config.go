package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mkozlov/timetable_bot/internal/model"
)

type Config struct {
	TelegramToken  string
	DBDSN          string
	Environment    string
	SemesterStart  time.Time // опорный понедельник для чётности недель
	MigrationsPath string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	// Обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	// Начало семестра задаёт чётность недель всего расписания
	semesterStart := os.Getenv("SEMESTER_START")
	if semesterStart == "" {
		return nil, fmt.Errorf("SEMESTER_START is required but not set")
	}

	epoch, err := model.ParseDate(semesterStart)
	if err != nil {
		return nil, fmt.Errorf("parse SEMESTER_START: %w", err)
	}
	if epoch.Weekday() != time.Monday {
		return nil, fmt.Errorf("SEMESTER_START must be a Monday, got %s", epoch.Weekday())
	}
	cfg.SemesterStart = epoch

	log.Printf("Config loaded\n")

	return cfg, nil
}
