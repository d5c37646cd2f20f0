package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkozlov/timetable_bot/internal/model"
	"github.com/mkozlov/timetable_bot/internal/service"
)

// FormatDaySchedule форматирует расписание одного дня
func FormatDaySchedule(date time.Time, items []model.ResolvedScheduleItem, oddWeek bool, override *model.RecoveryDay) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📅 <b>%s</b> (%s)\n", FormatDateWithWeekday(date), GetParityName(oddWeek)))

	if override != nil {
		sb.WriteString(fmt.Sprintf("🔁 Перенос: расписание за %s", strings.ToLower(GetWeekdayName(override.ReplacedWeekday))))
		if override.Reason != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", override.Reason))
		}
		sb.WriteString("\n")
	}

	if len(items) == 0 {
		sb.WriteString("\n🎉 Пар нет")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("\n%d %s:\n", len(items), PluralizePeriods(len(items))))

	for _, item := range items {
		sb.WriteString("\n" + FormatResolvedItem(&item))
	}

	return sb.String()
}

// FormatResolvedItem форматирует одну пару расписания
func FormatResolvedItem(item *model.ResolvedScheduleItem) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🕐 %s  <b>%s</b>", FormatPeriodTimeRange(item.StartTime, item.EndTime), item.SubjectName))

	if item.Subgroup != model.SubgroupAll {
		sb.WriteString(fmt.Sprintf(" (подгруппа %s)", item.Subgroup))
	}
	if item.IsCustom {
		sb.WriteString(" ✏️")
	}
	sb.WriteString("\n")

	if item.TeacherName != "" {
		sb.WriteString(fmt.Sprintf("   👤 %s\n", item.TeacherName))
	}
	if item.RoomNumber != "" {
		sb.WriteString(fmt.Sprintf("   🚪 Ауд. %s\n", item.RoomNumber))
	}
	if item.AssignmentCount > 0 {
		sb.WriteString(fmt.Sprintf("   📌 %d %s\n", item.AssignmentCount, PluralizeAssignments(item.AssignmentCount)))
	}

	return sb.String()
}

// FormatWeekSchedule форматирует расписание недели
func FormatWeekSchedule(days []service.DaySchedule, isOddWeek func(time.Time) bool) string {
	var sb strings.Builder

	sb.WriteString("🗓 <b>Расписание на неделю</b>")
	if len(days) > 0 {
		sb.WriteString(fmt.Sprintf(" (%s)", GetParityName(isOddWeek(days[0].Date))))
	}
	sb.WriteString("\n")

	for _, day := range days {
		sb.WriteString(fmt.Sprintf("\n<b>%s %s</b>", GetWeekdayShortName(day.Date.Weekday()), FormatDate(day.Date)))
		if day.Override != nil {
			sb.WriteString(" 🔁")
		}
		sb.WriteString("\n")

		if len(day.Items) == 0 {
			sb.WriteString("   — пар нет\n")
			continue
		}

		for _, item := range day.Items {
			sb.WriteString(fmt.Sprintf("   %s %s", FormatPeriodTimeRange(item.StartTime, item.EndTime), item.SubjectName))
			if item.AssignmentCount > 0 {
				sb.WriteString(fmt.Sprintf(" (📌%d)", item.AssignmentCount))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatAssignmentList форматирует список заданий
func FormatAssignmentList(assignments []model.Assignment) string {
	if len(assignments) == 0 {
		return "🎉 Невыполненных заданий нет"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📌 %d %s:\n", len(assignments), PluralizeAssignments(len(assignments))))

	for _, a := range assignments {
		sb.WriteString(fmt.Sprintf("\n#%d  <b>%s</b> — %s\n   ⏳ до %s\n", a.ID, a.CourseKey, a.Title, FormatDate(a.DueDate)))
	}

	sb.WriteString("\nОтметить выполненным: /done номер")
	return sb.String()
}
