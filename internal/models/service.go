// Package models содержит доменные структуры панели управления подписками:
// сервисы, аккаунты двух видов, пользователей общих аккаунтов, а также
// вспомогательные типы для приёма JSON-запросов и отчётов о напоминаниях.
package models

import "time"

// Service верхний уровень иерархии: сервис, к которому привязаны аккаунты.
// Удаление сервиса каскадно удаляет его аккаунты и их пользователей.
type Service struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ServiceInfo сервис вместе с количеством привязанных аккаунтов,
// используется в списках.
type ServiceInfo struct {
	Service
	AccountsCount int `json:"accounts_count"`
}

// DummyService используется для приёма данных из JSON-запроса
// на создание сервиса.
type DummyService struct {
	Name         string `json:"name" validate:"required,min=2"` // Название сервиса
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}
