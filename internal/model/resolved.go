package model

// ResolvedScheduleItem конкретная пара в расписании на конкретную дату.
// Строится заново при каждом разрешении, нигде не кешируется.
type ResolvedScheduleItem struct {
	PeriodID             int64     `json:"period_id"`
	SubjectName          string    `json:"subject_name"`
	TeacherName          string    `json:"teacher_name"`
	RoomNumber           string    `json:"room_number"`
	StartTime            TimeOfDay `json:"start_time"`
	EndTime              TimeOfDay `json:"end_time"`
	Ordinal              int       `json:"ordinal"`
	Subgroup             Subgroup  `json:"subgroup"`
	IsCustom             bool      `json:"is_custom"`
	Color                string    `json:"color"`
	ParityMatched        Parity    `json:"parity_matched"` // служебное, пользователю не показывается
	AssignmentCount      int       `json:"assignment_count"`
	IsRecoveryProjection bool      `json:"is_recovery_projection"` // пара пришла из переноса, а не из своего дня недели
}
