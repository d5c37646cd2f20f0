package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkozlov/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// RecoveryDayRepository управляет переносами расписания в базе данных.
// Данные авторятся внешним административным источником и для движка
// доступны только на чтение.
type RecoveryDayRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRecoveryDayRepository создаёт новый репозиторий
func NewRecoveryDayRepository(pool *pgxpool.Pool, logger *zap.Logger) *RecoveryDayRepository {
	return &RecoveryDayRepository{
		pool:   pool,
		logger: logger,
	}
}

// Create создаёт новый перенос
func (r *RecoveryDayRepository) Create(ctx context.Context, day *model.RecoveryDay) error {
	query := `
		INSERT INTO recovery_days (date, replaced_weekday, reason, is_active, scope_group)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		day.Date.Format(model.DateLayout),
		int(day.ReplacedWeekday),
		day.Reason,
		day.IsActive,
		day.ScopeGroup,
	).Scan(&day.ID, &day.CreatedAt)

	if err != nil {
		return fmt.Errorf("create recovery day: %w", err)
	}

	return nil
}

// GetActive получает все активные переносы в порядке добавления.
// Порядок важен: при коллизии двух переносов на одну дату побеждает
// добавленный раньше.
func (r *RecoveryDayRepository) GetActive(ctx context.Context) ([]model.RecoveryDay, error) {
	query := `
		SELECT id, date, replaced_weekday, reason, is_active, scope_group, created_at
		FROM recovery_days
		WHERE is_active = true
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active recovery days: %w", err)
	}
	defer rows.Close()

	var days []model.RecoveryDay
	for rows.Next() {
		day := model.RecoveryDay{}
		var rawDate string
		var rawWeekday int

		err := rows.Scan(
			&day.ID,
			&rawDate,
			&rawWeekday,
			&day.Reason,
			&day.IsActive,
			&day.ScopeGroup,
			&day.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan recovery day: %w", err)
		}

		date, parseErr := model.ParseDate(rawDate)
		if parseErr == nil && (rawWeekday < int(time.Monday) || rawWeekday > int(time.Friday)) {
			parseErr = fmt.Errorf("replaced weekday %d out of Monday-Friday range", rawWeekday)
		}
		if parseErr != nil {
			r.logger.Warn("Skipping malformed recovery day",
				zap.Int64("recovery_day_id", day.ID),
				zap.Error(parseErr))
			continue
		}

		day.Date = date
		day.ReplacedWeekday = time.Weekday(rawWeekday)
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recovery days: %w", err)
	}

	return days, nil
}

// Deactivate деактивирует перенос
func (r *RecoveryDayRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE recovery_days SET is_active = false WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate recovery day: %w", err)
	}

	return nil
}
