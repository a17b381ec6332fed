package models

import (
	"time"

	"github.com/avdeenko/subscription-dashboard/internal/lib/lifecycle"
)

// User запись подписчика внутри общего аккаунта. Не путать с оператором
// панели управления: User принадлежит ровно одному аккаунту и удаляется
// вместе с ним.
type User struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Description  string    `json:"description,omitempty"`
	StartingDate time.Time `json:"starting_date"`
	EndingDate   time.Time `json:"ending_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserInfo пользователь с вычисляемыми полями срока действия.
type UserInfo struct {
	User
	Lifecycle lifecycle.Info `json:"lifecycle"`
}

// DummyUser используется для приёма данных из JSON-запроса на создание
// или обновление пользователя общего аккаунта.
type DummyUser struct {
	AccountID    string `json:"account_id" validate:"required,uuid"`
	FullName     string `json:"full_name" validate:"required,min=2"`  // Имя подписчика
	PhoneNumber  string `json:"phone_number,omitempty"`               // Необязательный телефон
	Description  string `json:"description,omitempty" validate:"max=255"`
	StartingDate string `json:"starting_date" validate:"required"` // Дата начала, 2006-01-02
	EndingDate   string `json:"ending_date" validate:"required"`   // Дата окончания, 2006-01-02
}
