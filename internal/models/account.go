package models

import (
	"time"

	"github.com/avdeenko/subscription-dashboard/internal/lib/lifecycle"
)

// Виды аккаунтов. Вид неизменяем после создания.
const (
	// AccountTypePersonal аккаунт с одним встроенным пользователем
	AccountTypePersonal = "personal"
	// AccountTypeShared контейнер для нескольких пользователей
	AccountTypeShared = "shared"
)

// Account аккаунт подписки внутри сервиса. Поле Personal заполнено
// тогда и только тогда, когда AccountType == "personal": модель хранит
// два варианта как размеченное объединение, а не набор условно
// обязательных полей.
type Account struct {
	ID           string           `json:"id"`
	ServiceID    string           `json:"service_id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Details      string           `json:"details,omitempty"`
	AccountType  string           `json:"account_type"`
	ThumbnailURL string           `json:"thumbnail_url,omitempty"`
	ExpiresAt    *time.Time       `json:"expires_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	Personal     *PersonalDetails `json:"personal,omitempty"`
}

// PersonalDetails данные встроенного пользователя персонального аккаунта.
// Для персональных аккаунтов ExpiresAt аккаунта зеркалирует EndingDate.
type PersonalDetails struct {
	FullName     string    `json:"user_full_name"`
	PhoneNumber  string    `json:"user_phone_number,omitempty"`
	StartingDate time.Time `json:"account_starting_date"`
	EndingDate   time.Time `json:"account_ending_date"`
}

// AccountInfo аккаунт с названием сервиса и вычисляемыми полями срока
// действия (только для персональных аккаунтов).
type AccountInfo struct {
	Account
	ServiceName string          `json:"service_name,omitempty"`
	Lifecycle   *lifecycle.Info `json:"lifecycle,omitempty"`
}

// DummyAccount используется для приёма данных из JSON-запроса на создание
// или обновление аккаунта. Даты приходят строками формата 2006-01-02,
// чтобы их можно было проверить и разобрать вручную.
type DummyAccount struct {
	ServiceID           string `json:"service_id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Details             string `json:"details,omitempty"`
	AccountType         string `json:"account_type"`
	ThumbnailURL        string `json:"thumbnail_url,omitempty"`
	ExpiresAt           string `json:"expires_at,omitempty"`
	UserFullName        string `json:"user_full_name,omitempty"`
	UserPhoneNumber     string `json:"user_phone_number,omitempty"`
	AccountStartingDate string `json:"account_starting_date,omitempty"`
	AccountEndingDate   string `json:"account_ending_date,omitempty"`
}
