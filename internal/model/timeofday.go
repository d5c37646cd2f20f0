package model

import (
	"fmt"
	"time"
)

// DateLayout формат календарной даты во внешних данных
const DateLayout = "2006-01-02"

// TimeOfDay время в пределах суток, хранится как минуты от полуночи
type TimeOfDay int

// NewTimeOfDay создаёт TimeOfDay из часов и минут
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay разбирает строку вида "HH:MM"
// Единственная точка разбора времени из внешних данных
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return NewTimeOfDay(parsed.Hour(), parsed.Minute()), nil
}

// Hour возвращает часы
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute возвращает минуты
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// String форматирует время как "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// ParseDate разбирает строку вида "YYYY-MM-DD" в полночь UTC
// Единственная точка разбора календарных дат из внешних данных
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// DateOnly нормализует момент времени к полуночи UTC того же календарного дня
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate проверяет совпадение календарных дней
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
