package model

import (
	"fmt"
	"time"
)

// Parity определяет, по каким неделям идёт пара
type Parity string

const (
	ParityAll  Parity = "all"  // каждую неделю
	ParityOdd  Parity = "odd"  // только по нечётным неделям
	ParityEven Parity = "even" // только по чётным неделям
)

// ParseParity разбирает значение чётности из внешних данных
func ParseParity(s string) (Parity, error) {
	switch Parity(s) {
	case ParityAll, ParityOdd, ParityEven:
		return Parity(s), nil
	case "":
		return ParityAll, nil
	}
	return "", fmt.Errorf("parse parity %q: unknown value", s)
}

// Matches проверяет, идёт ли пара на неделе с данной чётностью
func (p Parity) Matches(oddWeek bool) bool {
	switch p {
	case ParityOdd:
		return oddWeek
	case ParityEven:
		return !oddWeek
	}
	return true
}

// WeekMonday возвращает понедельник недели, содержащей дату (полночь UTC)
func WeekMonday(date time.Time) time.Time {
	d := DateOnly(date)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// IsOddWeek определяет чётность недели, содержащей дату, относительно
// опорного понедельника (начала семестра). Неделя самого опорного
// понедельника чётная. Даты раньше опоры дают тот же результат по
// модулю 2: отрицательное число недель так же сводится к 0/1.
func IsOddWeek(date, epochMonday time.Time) bool {
	days := int(WeekMonday(date).Sub(WeekMonday(epochMonday)).Hours() / 24)
	weeks := days / 7
	return ((weeks%2)+2)%2 == 1
}
