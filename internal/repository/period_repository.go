package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkozlov/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// PeriodRepository управляет базовым недельным расписанием в базе данных.
// Время и чётность хранятся строками ("HH:MM", "odd"/"even"/"all") в том
// виде, в каком приходят от внешнего источника; битые записи
// пропускаются при чтении, а не роняют выборку целиком.
type PeriodRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPeriodRepository создаёт новый репозиторий
func NewPeriodRepository(pool *pgxpool.Pool, logger *zap.Logger) *PeriodRepository {
	return &PeriodRepository{
		pool:   pool,
		logger: logger,
	}
}

const periodColumns = `id, group_id, weekday, start_time, end_time, subject_name, teacher_name, room_number, parity, subgroup, ordinal, created_at, updated_at`

// Create создаёт новую пару базового расписания
func (r *PeriodRepository) Create(ctx context.Context, period *model.WeeklyPeriod) error {
	query := `
		INSERT INTO weekly_periods (group_id, weekday, start_time, end_time, subject_name, teacher_name, room_number, parity, subgroup, ordinal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		period.GroupID,
		int(period.Weekday),
		period.StartTime.String(),
		period.EndTime.String(),
		period.SubjectName,
		period.TeacherName,
		period.RoomNumber,
		string(period.Parity),
		string(period.Subgroup),
		period.Ordinal,
	).Scan(&period.ID, &period.CreatedAt, &period.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create weekly period: %w", err)
	}

	return nil
}

// GetAll получает все пары базового расписания
func (r *PeriodRepository) GetAll(ctx context.Context) ([]model.WeeklyPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM weekly_periods
		ORDER BY weekday, start_time, ordinal
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all weekly periods: %w", err)
	}
	defer rows.Close()

	return r.collectPeriods(rows)
}

// GetByGroupID получает пары базового расписания одной группы
func (r *PeriodRepository) GetByGroupID(ctx context.Context, groupID string) ([]model.WeeklyPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM weekly_periods
		WHERE group_id = $1
		ORDER BY weekday, start_time, ordinal
	`

	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("get weekly periods by group_id: %w", err)
	}
	defer rows.Close()

	return r.collectPeriods(rows)
}

// Delete удаляет пару базового расписания
func (r *PeriodRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM weekly_periods WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete weekly period: %w", err)
	}

	return nil
}

// collectPeriods читает строки выборки, пропуская битые записи
func (r *PeriodRepository) collectPeriods(rows pgx.Rows) ([]model.WeeklyPeriod, error) {
	var periods []model.WeeklyPeriod
	for rows.Next() {
		period, raw, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}

		if parseErr := decodePeriod(period, raw); parseErr != nil {
			r.logger.Warn("Skipping malformed weekly period",
				zap.Int64("period_id", period.ID),
				zap.Error(parseErr))
			continue
		}

		periods = append(periods, *period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly periods: %w", err)
	}

	return periods, nil
}

// rawPeriod сырые строковые поля до разбора
type rawPeriod struct {
	startTime string
	endTime   string
	parity    string
	subgroup  string
	weekday   int
}

// scanPeriod вычитывает строку выборки; разбор строковых полей
// откладывается до decodePeriod
func scanPeriod(rows pgx.Rows) (*model.WeeklyPeriod, rawPeriod, error) {
	period := &model.WeeklyPeriod{}
	raw := rawPeriod{}

	err := rows.Scan(
		&period.ID,
		&period.GroupID,
		&raw.weekday,
		&raw.startTime,
		&raw.endTime,
		&period.SubjectName,
		&period.TeacherName,
		&period.RoomNumber,
		&raw.parity,
		&raw.subgroup,
		&period.Ordinal,
		&period.CreatedAt,
		&period.UpdatedAt,
	)
	if err != nil {
		return nil, rawPeriod{}, fmt.Errorf("scan weekly period: %w", err)
	}

	return period, raw, nil
}

// decodePeriod разбирает строковые поля пары; единственное место,
// где внешние данные превращаются в типизированную модель
func decodePeriod(period *model.WeeklyPeriod, raw rawPeriod) error {
	if raw.weekday < int(time.Monday) || raw.weekday > int(time.Friday) {
		return fmt.Errorf("weekday %d out of Monday-Friday range", raw.weekday)
	}
	period.Weekday = time.Weekday(raw.weekday)

	start, err := model.ParseTimeOfDay(raw.startTime)
	if err != nil {
		return err
	}
	end, err := model.ParseTimeOfDay(raw.endTime)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("end time %s is not after start time %s", raw.endTime, raw.startTime)
	}
	period.StartTime = start
	period.EndTime = end

	parity, err := model.ParseParity(raw.parity)
	if err != nil {
		return err
	}
	period.Parity = parity

	subgroup, err := model.ParseSubgroup(raw.subgroup)
	if err != nil {
		return err
	}
	period.Subgroup = subgroup

	return nil
}
