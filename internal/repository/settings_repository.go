package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkozlov/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// SettingsRepository хранит настройки пользователей и их
// пользовательские пары
type SettingsRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewSettingsRepository создаёт новый репозиторий
func NewSettingsRepository(pool *pgxpool.Pool, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		pool:   pool,
		logger: logger,
	}
}

// GetByUserID получает настройки пользователя вместе с его парами.
// Возвращает nil, если настроек ещё нет.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*model.ScheduleSettings, error) {
	query := `
		SELECT user_id, selected_group_id, subgroup, schedule_view
		FROM user_settings
		WHERE user_id = $1
	`

	settings := &model.ScheduleSettings{}
	var rawSubgroup, rawView string

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.SelectedGroupID,
		&rawSubgroup,
		&rawView,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings by user id: %w", err)
	}

	subgroup, err := model.ParseSubgroup(rawSubgroup)
	if err != nil {
		// Неизвестная подгруппа в данных деградирует до "вся группа"
		r.logger.Warn("Unknown subgroup in user settings, falling back to whole group",
			zap.Int64("user_id", userID),
			zap.String("subgroup", rawSubgroup))
		subgroup = model.SubgroupAll
	}
	settings.Subgroup = subgroup

	settings.ScheduleView = model.ScheduleView(rawView)
	if settings.ScheduleView == "" {
		settings.ScheduleView = model.ScheduleViewDay
	}

	customPeriods, err := r.getCustomPeriods(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.CustomPeriods = customPeriods

	return settings, nil
}

// Upsert сохраняет основные поля настроек
func (r *SettingsRepository) Upsert(ctx context.Context, settings *model.ScheduleSettings) error {
	query := `
		INSERT INTO user_settings (user_id, selected_group_id, subgroup, schedule_view)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET selected_group_id = $2, subgroup = $3, schedule_view = $4
	`

	_, err := r.pool.Exec(
		ctx,
		query,
		settings.UserID,
		settings.SelectedGroupID,
		string(settings.Subgroup),
		string(settings.ScheduleView),
	)

	if err != nil {
		return fmt.Errorf("upsert user settings: %w", err)
	}

	return nil
}

// AddCustomPeriod добавляет пользовательскую пару
func (r *SettingsRepository) AddCustomPeriod(ctx context.Context, userID int64, period *model.WeeklyPeriod) error {
	if period.CustomID == uuid.Nil {
		period.CustomID = uuid.New()
	}
	period.IsCustom = true

	query := `
		INSERT INTO custom_periods (id, user_id, weekday, start_time, end_time, subject_name, teacher_name, room_number, parity, subgroup, ordinal, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		period.CustomID,
		userID,
		int(period.Weekday),
		period.StartTime.String(),
		period.EndTime.String(),
		period.SubjectName,
		period.TeacherName,
		period.RoomNumber,
		string(period.Parity),
		string(period.Subgroup),
		period.Ordinal,
		period.Color,
	).Scan(&period.CreatedAt)

	if err != nil {
		return fmt.Errorf("add custom period: %w", err)
	}

	return nil
}

// DeleteCustomPeriod удаляет пользовательскую пару
func (r *SettingsRepository) DeleteCustomPeriod(ctx context.Context, userID int64, customID uuid.UUID) error {
	query := `DELETE FROM custom_periods WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, customID, userID)
	if err != nil {
		return fmt.Errorf("delete custom period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("custom period not found")
	}

	return nil
}

// getCustomPeriods получает пары пользователя в порядке добавления,
// пропуская битые записи
func (r *SettingsRepository) getCustomPeriods(ctx context.Context, userID int64) ([]model.WeeklyPeriod, error) {
	query := `
		SELECT id, weekday, start_time, end_time, subject_name, teacher_name, room_number, parity, subgroup, ordinal, color, created_at
		FROM custom_periods
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get custom periods: %w", err)
	}
	defer rows.Close()

	var periods []model.WeeklyPeriod
	for rows.Next() {
		period := model.WeeklyPeriod{IsCustom: true}
		raw := rawPeriod{}

		err := rows.Scan(
			&period.CustomID,
			&raw.weekday,
			&raw.startTime,
			&raw.endTime,
			&period.SubjectName,
			&period.TeacherName,
			&period.RoomNumber,
			&raw.parity,
			&raw.subgroup,
			&period.Ordinal,
			&period.Color,
			&period.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan custom period: %w", err)
		}

		if parseErr := decodePeriod(&period, raw); parseErr != nil {
			r.logger.Warn("Skipping malformed custom period",
				zap.String("custom_id", period.CustomID.String()),
				zap.Int64("user_id", userID),
				zap.Error(parseErr))
			continue
		}

		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate custom periods: %w", err)
	}

	return periods, nil
}
