package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avdeenko/subscription-dashboard/internal/lib/lifecycle"
	"github.com/avdeenko/subscription-dashboard/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateService(ctx context.Context, service models.Service) (string, error) {
	args := m.Called(ctx, service)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) ListServices(ctx context.Context) ([]*models.ServiceInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ServiceInfo), args.Error(1)
}

func (m *MockRepository) RemoveService(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ReadService(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockRepository) CreateAccount(ctx context.Context, account models.Account) (string, error) {
	args := m.Called(ctx, account)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) ReadAccount(ctx context.Context, id string) (*models.AccountInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountInfo), args.Error(1)
}

func (m *MockRepository) ListAccountsByService(ctx context.Context, serviceID string) ([]*models.AccountInfo, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AccountInfo), args.Error(1)
}

func (m *MockRepository) UpdateAccount(ctx context.Context, account models.Account) (int, error) {
	args := m.Called(ctx, account)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) RemoveAccount(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) ReadUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) UpdateUser(ctx context.Context, user models.User) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) RemoveUser(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) RemoveUsers(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListUsersByAccount(ctx context.Context, accountID string) ([]*models.User, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type noopCache struct{}

func (noopCache) Get(_ string, _ any) (bool, error)          { return false, nil }
func (noopCache) Set(_ string, _ any, _ time.Duration) error { return nil }
func (noopCache) Invalidate(_ string) error                  { return nil }

func newTestService(repo Repository) *CatalogService {
	return NewCatalogService(repo, noopCache{}, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})))
}

func TestCreateAccount_Personal(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ReadService", mock.Anything, "svc-1").Return(&models.Service{ID: "svc-1", Name: "Netflix"}, nil)
	repo.On("CreateAccount", mock.Anything, mock.MatchedBy(func(account models.Account) bool {
		return account.AccountType == models.AccountTypePersonal &&
			account.Personal != nil &&
			account.ExpiresAt != nil &&
			account.ExpiresAt.Equal(account.Personal.EndingDate)
	})).Return("acc-1", nil)

	service := newTestService(repo)
	id, err := service.CreateAccount(context.Background(), models.DummyAccount{
		ServiceID:           "svc-1",
		Name:                "netflix-main",
		Email:               "owner@example.com",
		AccountType:         models.AccountTypePersonal,
		UserFullName:        "Иван Иванов",
		AccountStartingDate: "2026-01-01",
		AccountEndingDate:   "2026-12-31",
	})

	require.NoError(t, err)
	assert.Equal(t, "acc-1", id)
	repo.AssertExpectations(t)
}

func TestCreateAccount_ValidationErrors(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo)

	_, err := service.CreateAccount(context.Background(), models.DummyAccount{
		ServiceID:   "svc-1",
		Name:        "n",
		Email:       "not-an-email",
		AccountType: models.AccountTypePersonal,
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.GreaterOrEqual(t, len(validationErr.Fields), 2)
	repo.AssertNotCalled(t, "CreateAccount")
}

func TestUpdateAccount_TypeIsImmutable(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ReadAccount", mock.Anything, "acc-1").Return(&models.AccountInfo{
		Account: models.Account{ID: "acc-1", AccountType: models.AccountTypePersonal},
	}, nil)

	service := newTestService(repo)
	_, err := service.UpdateAccount(context.Background(), "acc-1", models.DummyAccount{
		ServiceID:   "svc-1",
		Name:        "netflix-main",
		Email:       "owner@example.com",
		AccountType: models.AccountTypeShared,
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "account_type", validationErr.Fields[0].Field)
	repo.AssertNotCalled(t, "UpdateAccount")
}

func TestCreateUser_RejectsPersonalParent(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ReadAccount", mock.Anything, "acc-1").Return(&models.AccountInfo{
		Account: models.Account{ID: "acc-1", AccountType: models.AccountTypePersonal},
	}, nil)

	service := newTestService(repo)
	_, err := service.CreateUser(context.Background(), models.DummyUser{
		AccountID:    "acc-1",
		FullName:     "Пётр Петров",
		StartingDate: "2026-01-01",
		EndingDate:   "2026-06-01",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	repo.AssertNotCalled(t, "CreateUser")
}

func TestCreateUser_RejectsReversedDates(t *testing.T) {
	service := newTestService(new(MockRepository))

	_, err := service.CreateUser(context.Background(), models.DummyUser{
		AccountID:    "acc-1",
		FullName:     "Пётр Петров",
		StartingDate: "2026-06-01",
		EndingDate:   "2026-01-01",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, models.CodeInvalidDateOrder, validationErr.Fields[0].Code)
}

func TestCreateUser_AllowsEqualDates(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ReadAccount", mock.Anything, "acc-1").Return(&models.AccountInfo{
		Account: models.Account{ID: "acc-1", AccountType: models.AccountTypeShared},
	}, nil)
	repo.On("CreateUser", mock.Anything, mock.Anything).Return("user-1", nil)

	service := newTestService(repo)
	id, err := service.CreateUser(context.Background(), models.DummyUser{
		AccountID:    "acc-1",
		FullName:     "Пётр Петров",
		StartingDate: "2026-06-01",
		EndingDate:   "2026-06-01",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestListUsers_AttachesLifecycle(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListUsersByAccount", mock.Anything, "acc-1").Return([]*models.User{
		{
			ID:           "user-1",
			AccountID:    "acc-1",
			FullName:     "Пётр Петров",
			StartingDate: time.Now().AddDate(0, 0, -10),
			EndingDate:   time.Now().AddDate(0, 0, 5),
		},
	}, nil)

	service := newTestService(repo)
	users, err := service.ListUsers(context.Background(), "acc-1")

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, lifecycle.StatusActive, users[0].Lifecycle.Status)
	assert.Equal(t, 6, users[0].Lifecycle.RemainingDays)
}
