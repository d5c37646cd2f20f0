package formatting

import (
	"fmt"
	"time"

	"github.com/mkozlov/timetable_bot/internal/model"
)

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateWithWeekday форматирует дату с днём недели на русском
func FormatDateWithWeekday(t time.Time) string {
	return fmt.Sprintf("%s, %s", GetWeekdayName(t.Weekday()), t.Format("02.01.2006"))
}

// FormatPeriodTimeRange форматирует диапазон времени пары
func FormatPeriodTimeRange(start, end model.TimeOfDay) string {
	return fmt.Sprintf("%s-%s", start, end)
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday time.Weekday) string {
	names := map[time.Weekday]string{
		time.Sunday:    "Воскресенье",
		time.Monday:    "Понедельник",
		time.Tuesday:   "Вторник",
		time.Wednesday: "Среда",
		time.Thursday:  "Четверг",
		time.Friday:    "Пятница",
		time.Saturday:  "Суббота",
	}
	if name, ok := names[weekday]; ok {
		return name
	}
	return "Неизвестно"
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday time.Weekday) string {
	names := map[time.Weekday]string{
		time.Sunday:    "Вс",
		time.Monday:    "Пн",
		time.Tuesday:   "Вт",
		time.Wednesday: "Ср",
		time.Thursday:  "Чт",
		time.Friday:    "Пт",
		time.Saturday:  "Сб",
	}
	if name, ok := names[weekday]; ok {
		return name
	}
	return "?"
}

// GetParityName возвращает название чётности недели на русском
func GetParityName(oddWeek bool) string {
	if oddWeek {
		return "нечётная неделя"
	}
	return "чётная неделя"
}
