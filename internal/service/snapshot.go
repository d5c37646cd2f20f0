package service

import (
	"context"
	"sort"
	"time"

	"github.com/mkozlov/timetable_bot/internal/model"
)

// PeriodStore источник базового недельного расписания
type PeriodStore interface {
	GetAll(ctx context.Context) ([]model.WeeklyPeriod, error)
}

// RecoveryDayStore источник переносов расписания
type RecoveryDayStore interface {
	GetActive(ctx context.Context) ([]model.RecoveryDay, error)
}

// AssignmentCounter внешний счётчик домашних заданий. Недоступность
// хранилища не считается ошибкой разрешения расписания.
type AssignmentCounter interface {
	CountDueForCourse(ctx context.Context, userID int64, courseKey string, date time.Time) (int, error)
}

// TimetableSnapshot неизменяемый снимок расписания и переносов.
// Разрешение всегда работает по снимку, поэтому параллельные вызовы
// не требуют блокировок: обновление подменяет снимок целиком.
type TimetableSnapshot struct {
	Periods      []model.WeeklyPeriod
	RecoveryDays []model.RecoveryDay // в порядке добавления
	LoadedAt     time.Time
}

// FindOverride ищет активный перенос для даты и группы.
// При коллизии нескольких переносов на одну дату детерминированно
// побеждает добавленный раньше: данные авторятся внешним источником
// и здесь не валидируются.
func (s *TimetableSnapshot) FindOverride(date time.Time, groupID string) *model.RecoveryDay {
	for i := range s.RecoveryDays {
		if s.RecoveryDays[i].AppliesTo(date, groupID) {
			return &s.RecoveryDays[i]
		}
	}
	return nil
}

// KnownGroups возвращает отсортированный список групп, встречающихся
// в базовом расписании
func (s *TimetableSnapshot) KnownGroups() []string {
	seen := make(map[string]struct{})
	for i := range s.Periods {
		if s.Periods[i].GroupID != "" {
			seen[s.Periods[i].GroupID] = struct{}{}
		}
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	return groups
}
