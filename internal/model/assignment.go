package model

import "time"

// Assignment домашнее задание пользователя, привязанное к предмету
type Assignment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CourseKey string    `json:"course_key"` // название предмета, к которому привязано задание
	Title     string    `json:"title"`
	DueDate   time.Time `json:"due_date"` // полночь UTC
	IsDone    bool      `json:"is_done"`
	CreatedAt time.Time `json:"created_at"`
}
