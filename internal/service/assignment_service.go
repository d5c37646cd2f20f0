package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mkozlov/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// AssignmentStore персистентное хранилище домашних заданий
type AssignmentStore interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id int64) (*model.Assignment, error)
	GetDueOn(ctx context.Context, userID int64, date time.Time) ([]model.Assignment, error)
	GetUpcoming(ctx context.Context, userID int64, from time.Time) ([]model.Assignment, error)
	CountDueForCourse(ctx context.Context, userID int64, courseKey string, date time.Time) (int, error)
	MarkDone(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
}

// AssignmentService управляет домашними заданиями и отдаёт движку
// счётчики по предметам
type AssignmentService struct {
	store  AssignmentStore
	logger *zap.Logger
}

func NewAssignmentService(store AssignmentStore, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		store:  store,
		logger: logger,
	}
}

// AddAssignment создаёт задание по предмету с дедлайном
func (s *AssignmentService) AddAssignment(ctx context.Context, userID int64, courseKey, title string, dueDate time.Time) (*model.Assignment, error) {
	courseKey = strings.TrimSpace(courseKey)
	title = strings.TrimSpace(title)

	if courseKey == "" {
		return nil, fmt.Errorf("course is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	assignment := &model.Assignment{
		UserID:    userID,
		CourseKey: courseKey,
		Title:     title,
		DueDate:   model.DateOnly(dueDate),
	}

	if err := s.store.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	s.logger.Info("Assignment created",
		zap.Int64("assignment_id", assignment.ID),
		zap.Int64("user_id", userID),
		zap.String("course_key", courseKey),
	)

	return assignment, nil
}

// GetAssignmentsForDate получает незакрытые задания пользователя на дату
func (s *AssignmentService) GetAssignmentsForDate(ctx context.Context, userID int64, date time.Time) ([]model.Assignment, error) {
	return s.store.GetDueOn(ctx, userID, date)
}

// GetUpcoming получает незакрытые задания пользователя начиная с даты
func (s *AssignmentService) GetUpcoming(ctx context.Context, userID int64, from time.Time) ([]model.Assignment, error) {
	return s.store.GetUpcoming(ctx, userID, from)
}

// CompleteAssignment отмечает задание выполненным
func (s *AssignmentService) CompleteAssignment(ctx context.Context, userID, id int64) error {
	if err := s.store.MarkDone(ctx, userID, id); err != nil {
		return fmt.Errorf("complete assignment: %w", err)
	}

	s.logger.Info("Assignment completed",
		zap.Int64("assignment_id", id),
		zap.Int64("user_id", userID),
	)

	return nil
}

// DeleteAssignment удаляет задание
func (s *AssignmentService) DeleteAssignment(ctx context.Context, userID, id int64) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}

	return nil
}

// CountDueForCourse реализует AssignmentCounter для движка расписания
func (s *AssignmentService) CountDueForCourse(ctx context.Context, userID int64, courseKey string, date time.Time) (int, error) {
	return s.store.CountDueForCourse(ctx, userID, courseKey, date)
}
