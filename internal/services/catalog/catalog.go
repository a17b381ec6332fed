// Package services содержит бизнес-логику управления каталогом:
// сервисами, аккаунтами и пользователями общих аккаунтов.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avdeenko/subscription-dashboard/internal/lib/datemath"
	"github.com/avdeenko/subscription-dashboard/internal/lib/lifecycle"
	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// Repository определяет методы для работы с каталогом в хранилище.
type Repository interface {
	CreateService(ctx context.Context, service models.Service) (string, error)
	ReadService(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context) ([]*models.ServiceInfo, error)
	RemoveService(ctx context.Context, id string) (int, error)

	CreateAccount(ctx context.Context, account models.Account) (string, error)
	ReadAccount(ctx context.Context, id string) (*models.AccountInfo, error)
	ListAccountsByService(ctx context.Context, serviceID string) ([]*models.AccountInfo, error)
	UpdateAccount(ctx context.Context, account models.Account) (int, error)
	RemoveAccount(ctx context.Context, id string) (int, error)

	CreateUser(ctx context.Context, user models.User) (string, error)
	ReadUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) (int, error)
	RemoveUser(ctx context.Context, id string) (int, error)
	RemoveUsers(ctx context.Context, ids []string) (int, error)
	ListUsersByAccount(ctx context.Context, accountID string) ([]*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ValidationError несёт список нарушений правил валидации по полям.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Code))
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// CatalogService реализует бизнес-логику каталога, включая кеширование
// чтения аккаунтов.
type CatalogService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo Repository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CreateService создает новый сервис и возвращает его ID.
func (s *CatalogService) CreateService(ctx context.Context, req models.DummyService) (string, error) {
	service := models.Service{
		ID:           uuid.New().String(),
		Name:         req.Name,
		ThumbnailURL: req.ThumbnailURL,
	}
	id, err := s.repo.CreateService(ctx, service)
	if err != nil {
		return "", err
	}
	s.log.Info("created new service", slog.String("id", id))
	return id, nil
}

// ListServices возвращает все сервисы с количеством аккаунтов.
func (s *CatalogService) ListServices(ctx context.Context) ([]*models.ServiceInfo, error) {
	return s.repo.ListServices(ctx)
}

// RemoveService удаляет сервис по ID вместе с его аккаунтами и пользователями.
func (s *CatalogService) RemoveService(ctx context.Context, id string) (int, error) {
	count, err := s.repo.RemoveService(ctx, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("removed service", slog.String("id", id), slog.Int("count", count))
	return count, nil
}

// CreateAccount проверяет запрос по всем правилам разом, создает аккаунт
// нужного вида и возвращает его ID. Для персональных аккаунтов expires_at
// зеркалирует дату окончания подписки.
func (s *CatalogService) CreateAccount(ctx context.Context, req models.DummyAccount) (string, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return "", &ValidationError{Fields: errs}
	}
	// Аккаунт создается только внутри существующего сервиса
	if _, err := s.repo.ReadService(ctx, req.ServiceID); err != nil {
		return "", err
	}

	account, err := s.buildAccount(req)
	if err != nil {
		return "", err
	}
	account.ID = uuid.New().String()
	account.ServiceID = req.ServiceID
	account.AccountType = req.AccountType

	id, err := s.repo.CreateAccount(ctx, account)
	if err != nil {
		return "", err
	}
	s.log.Info("created new account", slog.String("id", id), slog.String("type", account.AccountType))

	cacheKey := fmt.Sprintf("account:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate account cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return id, nil
}

// ReadAccount возвращает аккаунт по ID, используя кеш или репозиторий.
// Для персональных аккаунтов добавляются вычисляемые поля срока действия.
func (s *CatalogService) ReadAccount(ctx context.Context, id string) (*models.AccountInfo, error) {
	var result *models.AccountInfo
	cacheKey := fmt.Sprintf("account:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read account cache", slog.String("key", cacheKey), slog.Any("err", err))
		found = false
	}
	if !found {
		result, err = s.repo.ReadAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to cache account", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	s.attachLifecycle(result)
	return result, nil
}

// ListAccounts возвращает аккаунты сервиса с вычисляемыми полями.
func (s *CatalogService) ListAccounts(ctx context.Context, serviceID string) ([]*models.AccountInfo, error) {
	accounts, err := s.repo.ListAccountsByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		s.attachLifecycle(account)
	}
	return accounts, nil
}

// UpdateAccount обновляет аккаунт. Вид аккаунта неизменяем: попытка сменить
// его отклоняется как ошибка валидации.
func (s *CatalogService) UpdateAccount(ctx context.Context, id string, req models.DummyAccount) (int, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return 0, &ValidationError{Fields: errs}
	}

	existing, err := s.repo.ReadAccount(ctx, id)
	if err != nil {
		return 0, err
	}
	if existing.AccountType != req.AccountType {
		return 0, &ValidationError{Fields: []models.FieldError{{
			Field:   "account_type",
			Code:    models.CodeInvalidChoice,
			Message: "account_type is immutable",
		}}}
	}

	account, err := s.buildAccount(req)
	if err != nil {
		return 0, err
	}
	account.ID = id
	account.ServiceID = existing.ServiceID
	account.AccountType = existing.AccountType

	count, err := s.repo.UpdateAccount(ctx, account)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated account", slog.String("id", id))

	cacheKey := fmt.Sprintf("account:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate account cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return count, nil
}

// RemoveAccount удаляет аккаунт по ID и инвалидирует кеш.
func (s *CatalogService) RemoveAccount(ctx context.Context, id string) (int, error) {
	cacheKey := fmt.Sprintf("account:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate account cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return s.repo.RemoveAccount(ctx, id)
}

// CreateUser добавляет пользователя в общий аккаунт. Персональные аккаунты
// не принимают пользователей.
func (s *CatalogService) CreateUser(ctx context.Context, req models.DummyUser) (string, error) {
	user, err := s.buildUser(req)
	if err != nil {
		return "", err
	}

	parent, err := s.repo.ReadAccount(ctx, req.AccountID)
	if err != nil {
		return "", err
	}
	if parent.AccountType != models.AccountTypeShared {
		return "", &ValidationError{Fields: []models.FieldError{{
			Field:   "account_id",
			Code:    models.CodeInvalidChoice,
			Message: "users can only be added to shared accounts",
		}}}
	}

	user.ID = uuid.New().String()
	user.AccountID = req.AccountID

	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return "", err
	}
	s.log.Info("created new user", slog.String("id", id), slog.String("account_id", req.AccountID))
	return id, nil
}

// UpdateUser обновляет данные пользователя.
func (s *CatalogService) UpdateUser(ctx context.Context, id string, req models.DummyUser) (int, error) {
	user, err := s.buildUser(req)
	if err != nil {
		return 0, err
	}
	user.ID = id

	count, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated user", slog.String("id", id))
	return count, nil
}

// RemoveUser удаляет пользователя по ID.
func (s *CatalogService) RemoveUser(ctx context.Context, id string) (int, error) {
	return s.repo.RemoveUser(ctx, id)
}

// RemoveUsers удаляет пользователей по списку ID.
func (s *CatalogService) RemoveUsers(ctx context.Context, ids []string) (int, error) {
	count, err := s.repo.RemoveUsers(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log.Info("removed users", slog.Int("count", count))
	return count, nil
}

// ListUsers возвращает пользователей общего аккаунта с вычисляемыми полями
// срока действия.
func (s *CatalogService) ListUsers(ctx context.Context, accountID string) ([]*models.UserInfo, error) {
	users, err := s.repo.ListUsersByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	result := make([]*models.UserInfo, 0, len(users))
	for _, user := range users {
		if user.EndingDate.IsZero() {
			s.log.Warn("user has malformed ending date", slog.String("id", user.ID))
		}
		result = append(result, &models.UserInfo{
			User:      *user,
			Lifecycle: lifecycle.Classify(user.StartingDate, user.EndingDate, today),
		})
	}
	return result, nil
}

func (s *CatalogService) buildAccount(req models.DummyAccount) (models.Account, error) {
	account := models.Account{
		Name:         req.Name,
		Email:        req.Email,
		Details:      req.Details,
		ThumbnailURL: req.ThumbnailURL,
	}

	switch req.AccountType {
	case models.AccountTypePersonal:
		startingDate, err := datemath.Parse(req.AccountStartingDate)
		if err != nil {
			return models.Account{}, fmt.Errorf("invalid account_starting_date: %w", err)
		}
		endingDate, err := datemath.Parse(req.AccountEndingDate)
		if err != nil {
			return models.Account{}, fmt.Errorf("invalid account_ending_date: %w", err)
		}
		account.Personal = &models.PersonalDetails{
			FullName:     req.UserFullName,
			PhoneNumber:  req.UserPhoneNumber,
			StartingDate: startingDate,
			EndingDate:   endingDate,
		}
		// expires_at всегда повторяет дату окончания персональной подписки
		account.ExpiresAt = &endingDate
	case models.AccountTypeShared:
		if req.ExpiresAt != "" {
			expiresAt, err := datemath.Parse(req.ExpiresAt)
			if err != nil {
				return models.Account{}, fmt.Errorf("invalid expires_at: %w", err)
			}
			account.ExpiresAt = &expiresAt
		}
	}
	return account, nil
}

func (s *CatalogService) buildUser(req models.DummyUser) (models.User, error) {
	startingDate, err := datemath.Parse(req.StartingDate)
	if err != nil {
		return models.User{}, &ValidationError{Fields: []models.FieldError{{
			Field:   "starting_date",
			Code:    models.CodeInvalidDate,
			Message: "starting_date must be a date in format 2006-01-02",
		}}}
	}
	endingDate, err := datemath.Parse(req.EndingDate)
	if err != nil {
		return models.User{}, &ValidationError{Fields: []models.FieldError{{
			Field:   "ending_date",
			Code:    models.CodeInvalidDate,
			Message: "ending_date must be a date in format 2006-01-02",
		}}}
	}
	if startingDate.After(endingDate) {
		return models.User{}, &ValidationError{Fields: []models.FieldError{{
			Field:   "starting_date",
			Code:    models.CodeInvalidDateOrder,
			Message: "starting_date must not be after ending_date",
		}}}
	}

	return models.User{
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Description:  req.Description,
		StartingDate: startingDate,
		EndingDate:   endingDate,
	}, nil
}

func (s *CatalogService) attachLifecycle(account *models.AccountInfo) {
	if account.AccountType != models.AccountTypePersonal || account.Personal == nil {
		return
	}
	if account.Personal.EndingDate.IsZero() {
		s.log.Warn("personal account has malformed ending date", slog.String("id", account.ID))
	}
	info := lifecycle.Classify(account.Personal.StartingDate, account.Personal.EndingDate, time.Now())
	account.Lifecycle = &info
}
