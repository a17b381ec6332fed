package models

import "time"

// Candidate запись, подлежащая напоминанию об окончании подписки.
// Персональные аккаунты и пользователи общих аккаунтов сводятся
// к единой форме.
type Candidate struct {
	Type           string `json:"type"` // personal | shared
	AccountName    string `json:"account_name"`
	ServiceName    string `json:"service_name"`
	UserName       string `json:"user_name"`
	ExpirationDate string `json:"expiration_date"` // YYYY-MM-DD
	PhoneNumber    string `json:"phone_number,omitempty"`
	HasPhone       bool   `json:"has_phone"`
	Email          string `json:"email,omitempty"` // e-mail владеющего аккаунта
}

// DateRange границы окна поиска, обе даты включительно.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ExpiringSummary сводка по результату поиска истекающих записей.
type ExpiringSummary struct {
	TotalAccounts    int       `json:"total_accounts"`
	PersonalAccounts int       `json:"personal_accounts"`
	SharedAccounts   int       `json:"shared_accounts"`
	DateRange        DateRange `json:"date_range"`
	DaysAhead        int       `json:"days_ahead"`
}

// ExpiringResult сводка и плоский список кандидатов. Partial выставляется,
// когда один из подзапросов упал и его часть данных отсутствует.
type ExpiringResult struct {
	Summary    ExpiringSummary `json:"summary"`
	Candidates []Candidate     `json:"candidates"`
	Partial    bool            `json:"partial,omitempty"`
}

// DispatchResult итог отправки напоминания одному кандидату.
type DispatchResult struct {
	Type        string `json:"type"`
	UserName    string `json:"user_name"`
	AccountName string `json:"account_name"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// DispatchSummary агрегированный итог рассылки без повторных попыток:
// каждый кандидат завершается независимо, после чего подсчитываются итоги.
type DispatchSummary struct {
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Results    []DispatchResult `json:"results"`
}

// PersonalExpiry строка из запроса истекающих персональных аккаунтов,
// уже соединённая с названием сервиса.
type PersonalExpiry struct {
	AccountID    string
	AccountName  string
	ServiceName  string
	Email        string
	UserFullName string
	PhoneNumber  string
	ExpiresAt    time.Time
}

// UserExpiry строка из запроса истекающих пользователей общих аккаунтов.
// Владеющий аккаунт разрешается отдельным пакетным запросом.
type UserExpiry struct {
	UserID      string
	AccountID   string
	FullName    string
	PhoneNumber string
	EndingDate  time.Time
}

// AccountRef краткая ссылка на аккаунт для пакетного поиска по ID.
type AccountRef struct {
	ID          string
	Name        string
	Email       string
	ServiceName string
}
