// Package services содержит политику рассылки напоминаний WhatsApp:
// каждому кандидату отправляется одно сообщение, без повторных попыток.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/avdeenko/subscription-dashboard/internal/config"
	"github.com/avdeenko/subscription-dashboard/internal/lib/phone"
	"github.com/avdeenko/subscription-dashboard/internal/models"
	"github.com/avdeenko/subscription-dashboard/internal/whatsapp"
)

var remindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reminder_dispatch_total",
	Help: "Total reminders dispatched, by status.",
}, []string{"status"})

// Messenger отправляет текстовое сообщение в чат.
type Messenger interface {
	Send(ctx context.Context, chatID, message string) error
}

// ReminderService рассылает напоминания об окончании подписки.
type ReminderService struct {
	messenger           Messenger
	defaultCountryCode  string
	countryCodePrefixes []string
	log                 *slog.Logger
}

// NewReminderService создает новый экземпляр ReminderService.
func NewReminderService(messenger Messenger, cfg config.Reminder, log *slog.Logger) *ReminderService {
	return &ReminderService{
		messenger:           messenger,
		defaultCountryCode:  cfg.DefaultCountryCode,
		countryCodePrefixes: cfg.CountryCodePrefixes,
		log:                 log,
	}
}

// Dispatch отправляет напоминания всем кандидатам параллельно. Падение
// одной отправки не мешает остальным: каждый кандидат завершается
// независимо, итоги подсчитываются после завершения всех.
func (s *ReminderService) Dispatch(ctx context.Context, candidates []models.Candidate, daysAhead int) *models.DispatchSummary {
	results := make([]models.DispatchResult, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate models.Candidate) {
			defer wg.Done()
			results[i] = s.dispatchOne(ctx, candidate, daysAhead)
		}(i, candidate)
	}
	wg.Wait()

	summary := &models.DispatchSummary{Results: results}
	for _, result := range results {
		if result.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	s.log.Info("dispatch finished",
		slog.Int("successful", summary.Successful),
		slog.Int("failed", summary.Failed))
	return summary
}

func (s *ReminderService) dispatchOne(ctx context.Context, candidate models.Candidate, daysAhead int) models.DispatchResult {
	result := models.DispatchResult{
		Type:        candidate.Type,
		UserName:    candidate.UserName,
		AccountName: candidate.AccountName,
	}

	if !candidate.HasPhone {
		result.Error = "No phone number"
		remindersSent.WithLabelValues("skipped").Inc()
		return result
	}

	digits := phone.Normalize(candidate.PhoneNumber, s.defaultCountryCode, s.countryCodePrefixes)
	message := buildMessage(candidate, daysAhead)

	if err := s.messenger.Send(ctx, whatsapp.ChatID(digits), message); err != nil {
		s.log.Error("failed to send reminder",
			slog.String("user_name", candidate.UserName),
			slog.String("account_name", candidate.AccountName),
			slog.Any("err", err))
		result.Error = err.Error()
		remindersSent.WithLabelValues("failed").Inc()
		return result
	}

	result.Success = true
	remindersSent.WithLabelValues("sent").Inc()
	return result
}

func buildMessage(candidate models.Candidate, daysAhead int) string {
	return fmt.Sprintf(
		"Здравствуйте, %s!\n\nНапоминаем, что ваша подписка %s (%s) заканчивается %s (через %d дн.).\n\nПожалуйста, продлите её заранее.",
		candidate.UserName, candidate.ServiceName, candidate.AccountName,
		candidate.ExpirationDate, daysAhead)
}
