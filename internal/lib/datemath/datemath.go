// Package datemath реализует календарную арифметику для дат подписок.
//
// Все расчёты ведутся в календарных днях локального часового пояса:
// сравниваются компоненты год/месяц/день, а не моменты времени.
// Это исключает ошибки на один день на границах суток и при переходах
// на летнее время.
package datemath

import "time"

// Layout формат даты, используемый в запросах к хранилищу и в ответах API.
const Layout = "2006-01-02"

// dayNumber возвращает порядковый номер календарного дня.
// Компоненты даты переносятся в UTC, чтобы разница не зависела
// от переходов на летнее время.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	u := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(u.Unix() / 86400)
}

// StartOfDay возвращает начало календарного дня для переданного момента.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays сдвигает дату на n календарных дней, сохраняя локальную семантику.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// DaysBetweenInclusive считает количество календарных дней между start и end
// включительно: для одинаковых дат результат равен 1.
func DaysBetweenInclusive(start, end time.Time) int {
	return dayNumber(end) - dayNumber(start) + 1
}

// RemainingDays возвращает число дней до конца подписки включительно.
// Если today уже позже end, возвращает 0.
func RemainingDays(end, today time.Time) int {
	if dayNumber(today) > dayNumber(end) {
		return 0
	}
	return DaysBetweenInclusive(today, end)
}

// Format приводит дату к формату YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse разбирает дату формата YYYY-MM-DD в локальном часовом поясе.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.Local)
}
