// Package services содержит бизнес-логику поиска записей с истекающей
// подпиской: персональных аккаунтов и пользователей общих аккаунтов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avdeenko/subscription-dashboard/internal/lib/datemath"
	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// Границы горизонта поиска в днях.
const (
	MinDaysAhead = 1
	MaxDaysAhead = 30
)

// ErrInvalidDaysAhead возвращается при горизонте за пределами 1..30 дней.
var ErrInvalidDaysAhead = fmt.Errorf("days ahead must be between %d and %d", MinDaysAhead, MaxDaysAhead)

// Repository определяет запросы хранилища, нужные для поиска истекающих
// записей. Аккаунты пользователей разрешаются одним пакетным запросом.
type Repository interface {
	FindExpiringPersonalAccountsByDate(ctx context.Context, date string) ([]*models.PersonalExpiry, error)
	FindExpiringPersonalAccountsInRange(ctx context.Context, from, to string) ([]*models.PersonalExpiry, error)
	FindExpiringUsersByDate(ctx context.Context, date string) ([]*models.UserExpiry, error)
	FindExpiringUsersInRange(ctx context.Context, from, to string) ([]*models.UserExpiry, error)
	FindAccountsByIDs(ctx context.Context, ids []string) (map[string]*models.AccountRef, error)
}

// ExpiringService находит записи, истекающие через заданное число дней.
type ExpiringService struct {
	repo Repository
	log  *slog.Logger
}

// NewExpiringService создает новый экземпляр ExpiringService.
func NewExpiringService(repo Repository, log *slog.Logger) *ExpiringService {
	return &ExpiringService{repo: repo, log: log}
}

// FindExpiringExact находит записи, истекающие ровно через daysAhead дней
// от сегодняшнего дня. Режим ежедневной рассылки: каждая запись попадает
// в выборку ровно один раз за время жизни подписки.
func (s *ExpiringService) FindExpiringExact(ctx context.Context, daysAhead int) (*models.ExpiringResult, error) {
	const op = "expiring.FindExpiringExact"

	if daysAhead < MinDaysAhead || daysAhead > MaxDaysAhead {
		return nil, ErrInvalidDaysAhead
	}

	target := datemath.Format(datemath.AddDays(time.Now(), daysAhead))
	personal, users, partial, err := s.collect(ctx,
		func(ctx context.Context) ([]*models.PersonalExpiry, error) {
			return s.repo.FindExpiringPersonalAccountsByDate(ctx, target)
		},
		func(ctx context.Context) ([]*models.UserExpiry, error) {
			return s.repo.FindExpiringUsersByDate(ctx, target)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.assemble(ctx, personal, users, models.DateRange{From: target, To: target}, daysAhead, partial)
}

// FindExpiringRange находит записи, истекающие в окне от сегодняшнего дня
// до daysAhead дней включительно. Режим предпросмотра для дашборда.
func (s *ExpiringService) FindExpiringRange(ctx context.Context, daysAhead int) (*models.ExpiringResult, error) {
	const op = "expiring.FindExpiringRange"

	if daysAhead < MinDaysAhead || daysAhead > MaxDaysAhead {
		return nil, ErrInvalidDaysAhead
	}

	now := time.Now()
	from := datemath.Format(now)
	to := datemath.Format(datemath.AddDays(now, daysAhead))
	personal, users, partial, err := s.collect(ctx,
		func(ctx context.Context) ([]*models.PersonalExpiry, error) {
			return s.repo.FindExpiringPersonalAccountsInRange(ctx, from, to)
		},
		func(ctx context.Context) ([]*models.UserExpiry, error) {
			return s.repo.FindExpiringUsersInRange(ctx, from, to)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.assemble(ctx, personal, users, models.DateRange{From: from, To: to}, daysAhead, partial)
}

// collect выполняет оба подзапроса параллельно. Падение одного подзапроса
// не отменяет выборку: его часть заменяется пустым списком с предупреждением,
// ошибка возвращается только когда упали оба.
func (s *ExpiringService) collect(ctx context.Context,
	personalFn func(ctx context.Context) ([]*models.PersonalExpiry, error),
	usersFn func(ctx context.Context) ([]*models.UserExpiry, error),
) ([]*models.PersonalExpiry, []*models.UserExpiry, bool, error) {
	var (
		wg          sync.WaitGroup
		personal    []*models.PersonalExpiry
		users       []*models.UserExpiry
		personalErr error
		usersErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		personal, personalErr = personalFn(ctx)
	}()
	go func() {
		defer wg.Done()
		users, usersErr = usersFn(ctx)
	}()
	wg.Wait()

	if personalErr != nil && usersErr != nil {
		return nil, nil, false, errors.Join(personalErr, usersErr)
	}
	if personalErr != nil {
		s.log.Warn("personal accounts query failed, returning users only", slog.Any("err", personalErr))
		personal = nil
	}
	if usersErr != nil {
		s.log.Warn("users query failed, returning personal accounts only", slog.Any("err", usersErr))
		users = nil
	}
	return personal, users, personalErr != nil || usersErr != nil, nil
}

// assemble сводит оба подмножества в плоский список кандидатов. Аккаунты
// пользователей разрешаются одним пакетным запросом по уникальным ID.
func (s *ExpiringService) assemble(ctx context.Context, personal []*models.PersonalExpiry,
	users []*models.UserExpiry, dateRange models.DateRange, daysAhead int, partial bool,
) (*models.ExpiringResult, error) {
	const op = "expiring.assemble"

	accounts, err := s.resolveAccounts(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	candidates := make([]models.Candidate, 0, len(personal)+len(users))
	for _, item := range personal {
		candidates = append(candidates, models.Candidate{
			Type:           models.AccountTypePersonal,
			AccountName:    item.AccountName,
			ServiceName:    item.ServiceName,
			UserName:       item.UserFullName,
			ExpirationDate: datemath.Format(item.ExpiresAt),
			PhoneNumber:    item.PhoneNumber,
			HasPhone:       item.PhoneNumber != "",
			Email:          item.Email,
		})
	}

	sharedCount := 0
	for _, item := range users {
		account, ok := accounts[item.AccountID]
		if !ok {
			s.log.Warn("user references missing account, skipping",
				slog.String("user_id", item.UserID), slog.String("account_id", item.AccountID))
			continue
		}
		sharedCount++
		candidates = append(candidates, models.Candidate{
			Type:           models.AccountTypeShared,
			AccountName:    account.Name,
			ServiceName:    account.ServiceName,
			UserName:       item.FullName,
			ExpirationDate: datemath.Format(item.EndingDate),
			PhoneNumber:    item.PhoneNumber,
			HasPhone:       item.PhoneNumber != "",
			Email:          account.Email,
		})
	}

	return &models.ExpiringResult{
		Summary: models.ExpiringSummary{
			TotalAccounts:    len(candidates),
			PersonalAccounts: len(personal),
			SharedAccounts:   sharedCount,
			DateRange:        dateRange,
			DaysAhead:        daysAhead,
		},
		Candidates: candidates,
		Partial:    partial,
	}, nil
}

func (s *ExpiringService) resolveAccounts(ctx context.Context, users []*models.UserExpiry) (map[string]*models.AccountRef, error) {
	if len(users) == 0 {
		return map[string]*models.AccountRef{}, nil
	}

	seen := make(map[string]struct{}, len(users))
	ids := make([]string, 0, len(users))
	for _, item := range users {
		if _, ok := seen[item.AccountID]; ok {
			continue
		}
		seen[item.AccountID] = struct{}{}
		ids = append(ids, item.AccountID)
	}
	return s.repo.FindAccountsByIDs(ctx, ids)
}
