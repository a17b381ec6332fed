// Package services содержит планировщик ежедневной рассылки: по расписанию
// находит записи, истекающие ровно через заданное число дней, и публикует
// их в очередь почтовых напоминаний.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avdeenko/subscription-dashboard/internal/models"
	"github.com/avdeenko/subscription-dashboard/internal/rabbitmq"
)

// Finder находит записи с истекающей подпиской.
type Finder interface {
	FindExpiringExact(ctx context.Context, daysAhead int) (*models.ExpiringResult, error)
}

// Publisher публикует сообщение в обменник.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// SchedulerService периодически запускает поиск и публикацию напоминаний.
type SchedulerService struct {
	finder    Finder
	publisher Publisher
	daysAhead int
	interval  time.Duration
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(finder Finder, publisher Publisher, daysAhead int, interval time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		finder:    finder,
		publisher: publisher,
		daysAhead: daysAhead,
		interval:  interval,
		log:       log,
	}
}

// Run выполняет первый проход сразу, затем по тикеру до отмены контекста.
func (s *SchedulerService) Run(ctx context.Context) error {
	if err := s.RunOnce(ctx); err != nil {
		s.log.Error("scheduler pass failed", slog.Any("err", err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.log.Error("scheduler pass failed", slog.Any("err", err))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce публикует по одному сообщению на каждого кандидата с известным
// e-mail владеющего аккаунта.
func (s *SchedulerService) RunOnce(ctx context.Context) error {
	const op = "scheduler.RunOnce"

	result, err := s.finder.FindExpiringExact(ctx, s.daysAhead)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	published := 0
	for _, candidate := range result.Candidates {
		if candidate.Email == "" {
			s.log.Warn("candidate has no account email, skipping",
				slog.String("user_name", candidate.UserName),
				slog.String("account_name", candidate.AccountName))
			continue
		}
		if err := s.publisher.Publish(rabbitmq.NotificationsExchange, rabbitmq.ExpiringRoutingKey, candidate); err != nil {
			s.log.Error("failed to publish reminder",
				slog.String("account_name", candidate.AccountName),
				slog.Any("err", err))
			continue
		}
		published++
	}

	s.log.Info("scheduler pass finished",
		slog.Int("candidates", len(result.Candidates)),
		slog.Int("published", published),
		slog.Int("days_ahead", s.daysAhead))
	return nil
}
