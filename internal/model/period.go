package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subgroup подгруппа, для которой идёт пара
type Subgroup string

const (
	SubgroupAll    Subgroup = ""  // пара для всей группы
	SubgroupFirst  Subgroup = "1" // первая подгруппа
	SubgroupSecond Subgroup = "2" // вторая подгруппа
)

// ParseSubgroup разбирает значение подгруппы из внешних данных
func ParseSubgroup(s string) (Subgroup, error) {
	switch Subgroup(s) {
	case SubgroupAll, SubgroupFirst, SubgroupSecond:
		return Subgroup(s), nil
	}
	return "", fmt.Errorf("parse subgroup %q: unknown value", s)
}

// AppliesTo проверяет, касается ли пара студента из подгруппы user.
// Пара для всей группы касается всех.
func (s Subgroup) AppliesTo(user Subgroup) bool {
	return s == SubgroupAll || s == user
}

// WeeklyPeriod регулярная пара недельного расписания
type WeeklyPeriod struct {
	ID          int64        `json:"id"`
	GroupID     string       `json:"group_id"` // учебная группа, которой принадлежит пара
	Weekday     time.Weekday `json:"weekday"`  // Monday-Friday; выходные бывают только через RecoveryDay
	StartTime   TimeOfDay    `json:"start_time"`
	EndTime     TimeOfDay    `json:"end_time"`
	SubjectName string       `json:"subject_name"`
	TeacherName string       `json:"teacher_name"`
	RoomNumber  string       `json:"room_number"`
	Parity      Parity       `json:"parity"`
	Subgroup    Subgroup     `json:"subgroup"`
	Ordinal     int          `json:"ordinal"` // номер пары, разрешает ничью при равном времени начала
	IsCustom    bool         `json:"is_custom"`
	CustomID    uuid.UUID    `json:"custom_id"` // идентификатор пользовательской пары, у базовых нулевой
	Color       string       `json:"color"`     // только у пользовательских пар
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PeriodKey ключ слияния базовых и пользовательских пар
type PeriodKey struct {
	Weekday   time.Weekday
	StartTime TimeOfDay
	Subgroup  Subgroup
}

// MergeKey возвращает ключ, по которому пользовательская пара
// замещает базовую
func (p *WeeklyPeriod) MergeKey() PeriodKey {
	return PeriodKey{
		Weekday:   p.Weekday,
		StartTime: p.StartTime,
		Subgroup:  p.Subgroup,
	}
}
