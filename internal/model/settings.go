package model

// ScheduleView активный режим отображения расписания.
// Движок разрешения его не использует, читает только UI.
type ScheduleView string

const (
	ScheduleViewDay  ScheduleView = "day"
	ScheduleViewWeek ScheduleView = "week"
)

// ScheduleSettings настройки пользователя. Движок всегда получает
// неизменяемый снимок: любое изменение настроек создаёт новый снимок,
// а не правит существующий.
type ScheduleSettings struct {
	UserID          int64          `json:"user_id"`
	SelectedGroupID string         `json:"selected_group_id"`
	Subgroup        Subgroup       `json:"subgroup"`
	ScheduleView    ScheduleView   `json:"schedule_view"`
	CustomPeriods   []WeeklyPeriod `json:"custom_periods"` // замещают базовые по MergeKey
}

// Clone возвращает глубокую копию настроек
func (s *ScheduleSettings) Clone() *ScheduleSettings {
	cp := *s
	cp.CustomPeriods = make([]WeeklyPeriod, len(s.CustomPeriods))
	copy(cp.CustomPeriods, s.CustomPeriods)
	return &cp
}
