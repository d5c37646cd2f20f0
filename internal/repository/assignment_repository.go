package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkozlov/timetable_bot/internal/model"
)

// AssignmentRepository управляет домашними заданиями в базе данных
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository создаёт новый репозиторий
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create создаёт новое задание
func (r *AssignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	query := `
		INSERT INTO assignments (user_id, course_key, title, due_date, is_done)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		assignment.UserID,
		assignment.CourseKey,
		assignment.Title,
		assignment.DueDate,
		assignment.IsDone,
	).Scan(&assignment.ID, &assignment.CreatedAt)

	if err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}

	return nil
}

// GetByID получает задание по ID
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*model.Assignment, error) {
	query := `
		SELECT id, user_id, course_key, title, due_date, is_done, created_at
		FROM assignments
		WHERE id = $1
	`

	assignment := &model.Assignment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.UserID,
		&assignment.CourseKey,
		&assignment.Title,
		&assignment.DueDate,
		&assignment.IsDone,
		&assignment.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment by id: %w", err)
	}

	return assignment, nil
}

// GetDueOn получает незакрытые задания пользователя на дату
func (r *AssignmentRepository) GetDueOn(ctx context.Context, userID int64, date time.Time) ([]model.Assignment, error) {
	query := `
		SELECT id, user_id, course_key, title, due_date, is_done, created_at
		FROM assignments
		WHERE user_id = $1 AND due_date = $2 AND is_done = false
		ORDER BY course_key, id
	`

	rows, err := r.pool.Query(ctx, query, userID, model.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("get assignments due on date: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// GetUpcoming получает незакрытые задания пользователя начиная с даты
func (r *AssignmentRepository) GetUpcoming(ctx context.Context, userID int64, from time.Time) ([]model.Assignment, error) {
	query := `
		SELECT id, user_id, course_key, title, due_date, is_done, created_at
		FROM assignments
		WHERE user_id = $1 AND due_date >= $2 AND is_done = false
		ORDER BY due_date, course_key, id
	`

	rows, err := r.pool.Query(ctx, query, userID, model.DateOnly(from))
	if err != nil {
		return nil, fmt.Errorf("get upcoming assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// CountDueForCourse считает незакрытые задания пользователя по предмету на дату
func (r *AssignmentRepository) CountDueForCourse(ctx context.Context, userID int64, courseKey string, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM assignments
		WHERE user_id = $1 AND course_key = $2 AND due_date = $3 AND is_done = false
	`

	var count int
	err := r.pool.QueryRow(ctx, query, userID, courseKey, model.DateOnly(date)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count assignments due for course: %w", err)
	}

	return count, nil
}

// MarkDone отмечает задание выполненным
func (r *AssignmentRepository) MarkDone(ctx context.Context, userID, id int64) error {
	query := `UPDATE assignments SET is_done = true WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark assignment done: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("assignment not found")
	}

	return nil
}

// Delete удаляет задание
func (r *AssignmentRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM assignments WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("assignment not found")
	}

	return nil
}

func collectAssignments(rows pgx.Rows) ([]model.Assignment, error) {
	var assignments []model.Assignment
	for rows.Next() {
		assignment := model.Assignment{}
		err := rows.Scan(
			&assignment.ID,
			&assignment.UserID,
			&assignment.CourseKey,
			&assignment.Title,
			&assignment.DueDate,
			&assignment.IsDone,
			&assignment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}

	return assignments, nil
}
