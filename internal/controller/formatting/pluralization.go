package formatting

// PluralizePeriods возвращает правильное склонение слова "пара"
func PluralizePeriods(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "пара"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "пары"
	}
	return "пар"
}

// PluralizeAssignments возвращает правильное склонение слова "задание"
func PluralizeAssignments(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "задание"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "задания"
	}
	return "заданий"
}
