// Package lifecycle классифицирует записи подписок по сроку действия.
//
// Правила одинаковы для персональных аккаунтов и пользователей общих
// аккаунтов: подписка активна, пока не закончился календарный день её
// окончания. Некорректная дата окончания трактуется как истёкшая подписка,
// чтение данных при этом не прерывается.
package lifecycle

import (
	"time"

	"github.com/avdeenko/subscription-dashboard/internal/lib/datemath"
)

const (
	// StatusActive подписка ещё действует.
	StatusActive = "Active"
	// StatusExpired срок подписки закончился.
	StatusExpired = "Expired"
)

// Info вычисляемые поля записи подписки. Не хранятся в базе.
type Info struct {
	Status        string `json:"status"`
	RemainingDays int    `json:"remaining_days"`
	DurationDays  int    `json:"duration_days,omitempty"`
}

// Classify возвращает статус и количество оставшихся дней для записи
// с датой окончания end. Если start не нулевая, дополнительно считается
// полная длительность подписки в днях (включительно).
//
// Нулевая дата окончания означает повреждённую запись: статус Expired,
// оставшиеся дни 0. Предупреждение пишет вызывающая сторона.
func Classify(start, end, today time.Time) Info {
	if end.IsZero() {
		return Info{Status: StatusExpired}
	}

	remaining := datemath.RemainingDays(end, today)
	info := Info{
		RemainingDays: remaining,
		Status:        StatusExpired,
	}
	if remaining > 0 {
		info.Status = StatusActive
	}
	if !start.IsZero() {
		info.DurationDays = datemath.DaysBetweenInclusive(start, end)
	}
	return info
}
