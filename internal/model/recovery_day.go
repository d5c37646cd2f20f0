package model

import "time"

// RecoveryDay разовый перенос расписания: в дату Date действует
// расписание дня недели ReplacedWeekday. Обычно это рабочая суббота.
type RecoveryDay struct {
	ID              int64        `json:"id"`
	Date            time.Time    `json:"date"` // полночь UTC
	ReplacedWeekday time.Weekday `json:"replaced_weekday"`
	Reason          string       `json:"reason"`
	IsActive        bool         `json:"is_active"`
	ScopeGroup      string       `json:"scope_group"` // пустая строка = все группы
	CreatedAt       time.Time    `json:"created_at"`
}

// AppliesTo проверяет, действует ли перенос для данной группы в данную дату
func (r *RecoveryDay) AppliesTo(date time.Time, groupID string) bool {
	if !r.IsActive {
		return false
	}
	if !SameDate(r.Date, date) {
		return false
	}
	return r.ScopeGroup == "" || r.ScopeGroup == groupID
}
