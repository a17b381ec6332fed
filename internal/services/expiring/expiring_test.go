package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avdeenko/subscription-dashboard/internal/lib/datemath"
	"github.com/avdeenko/subscription-dashboard/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindExpiringPersonalAccountsByDate(ctx context.Context, date string) ([]*models.PersonalExpiry, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PersonalExpiry), args.Error(1)
}

func (m *MockRepository) FindExpiringPersonalAccountsInRange(ctx context.Context, from, to string) ([]*models.PersonalExpiry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PersonalExpiry), args.Error(1)
}

func (m *MockRepository) FindExpiringUsersByDate(ctx context.Context, date string) ([]*models.UserExpiry, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserExpiry), args.Error(1)
}

func (m *MockRepository) FindExpiringUsersInRange(ctx context.Context, from, to string) ([]*models.UserExpiry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserExpiry), args.Error(1)
}

func (m *MockRepository) FindAccountsByIDs(ctx context.Context, ids []string) (map[string]*models.AccountRef, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.AccountRef), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestFindExpiringExact(t *testing.T) {
	target := datemath.Format(datemath.AddDays(time.Now(), 3))
	targetDate, err := datemath.Parse(target)
	require.NoError(t, err)

	repo := new(MockRepository)
	repo.On("FindExpiringPersonalAccountsByDate", mock.Anything, target).
		Return([]*models.PersonalExpiry{
			{
				AccountID:    "acc-1",
				AccountName:  "netflix-main",
				ServiceName:  "Netflix",
				Email:        "owner@example.com",
				UserFullName: "Иван Иванов",
				PhoneNumber:  "+222 12 345 678",
				ExpiresAt:    targetDate,
			},
		}, nil)
	repo.On("FindExpiringUsersByDate", mock.Anything, target).
		Return([]*models.UserExpiry{
			{
				UserID:      "user-1",
				AccountID:   "acc-2",
				FullName:    "Пётр Петров",
				PhoneNumber: "",
				EndingDate:  targetDate,
			},
			{
				UserID:      "user-2",
				AccountID:   "acc-2",
				FullName:    "Мария Сидорова",
				PhoneNumber: "79161234567",
				EndingDate:  targetDate,
			},
		}, nil)
	repo.On("FindAccountsByIDs", mock.Anything, []string{"acc-2"}).
		Return(map[string]*models.AccountRef{
			"acc-2": {ID: "acc-2", Name: "spotify-family", Email: "family@example.com", ServiceName: "Spotify"},
		}, nil)

	service := NewExpiringService(repo, newNoopLogger())
	result, err := service.FindExpiringExact(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Summary.TotalAccounts)
	assert.Equal(t, 1, result.Summary.PersonalAccounts)
	assert.Equal(t, 2, result.Summary.SharedAccounts)
	assert.Equal(t, target, result.Summary.DateRange.From)
	assert.Equal(t, target, result.Summary.DateRange.To)
	assert.False(t, result.Partial)

	assert.Equal(t, "personal", result.Candidates[0].Type)
	assert.Equal(t, "Netflix", result.Candidates[0].ServiceName)
	assert.True(t, result.Candidates[0].HasPhone)
	assert.Equal(t, "shared", result.Candidates[1].Type)
	assert.Equal(t, "spotify-family", result.Candidates[1].AccountName)
	assert.False(t, result.Candidates[1].HasPhone)

	// аккаунты разрешаются одним пакетным запросом, без N+1
	repo.AssertNumberOfCalls(t, "FindAccountsByIDs", 1)
}

func TestFindExpiringExact_ValidatesDaysAhead(t *testing.T) {
	service := NewExpiringService(new(MockRepository), newNoopLogger())

	cases := []int{0, -1, 31, 100}
	for _, daysAhead := range cases {
		_, err := service.FindExpiringExact(context.Background(), daysAhead)
		assert.ErrorIs(t, err, ErrInvalidDaysAhead)
	}
}

func TestFindExpiringRange_PartialOnPersonalFailure(t *testing.T) {
	now := time.Now()
	from := datemath.Format(now)
	to := datemath.Format(datemath.AddDays(now, 7))
	endingDate, err := datemath.Parse(to)
	require.NoError(t, err)

	repo := new(MockRepository)
	repo.On("FindExpiringPersonalAccountsInRange", mock.Anything, from, to).
		Return(nil, errors.New("connection reset"))
	repo.On("FindExpiringUsersInRange", mock.Anything, from, to).
		Return([]*models.UserExpiry{
			{UserID: "user-1", AccountID: "acc-2", FullName: "Пётр Петров", EndingDate: endingDate},
		}, nil)
	repo.On("FindAccountsByIDs", mock.Anything, []string{"acc-2"}).
		Return(map[string]*models.AccountRef{
			"acc-2": {ID: "acc-2", Name: "spotify-family", Email: "family@example.com", ServiceName: "Spotify"},
		}, nil)

	service := NewExpiringService(repo, newNoopLogger())
	result, err := service.FindExpiringRange(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Equal(t, 0, result.Summary.PersonalAccounts)
	assert.Equal(t, 1, result.Summary.SharedAccounts)
	assert.Len(t, result.Candidates, 1)
}

func TestFindExpiringRange_ErrorWhenBothFail(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindExpiringPersonalAccountsInRange", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))
	repo.On("FindExpiringUsersInRange", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	service := NewExpiringService(repo, newNoopLogger())
	_, err := service.FindExpiringRange(context.Background(), 7)

	assert.Error(t, err)
}

func TestFindExpiringExact_SkipsUserWithMissingAccount(t *testing.T) {
	target := datemath.Format(datemath.AddDays(time.Now(), 1))
	targetDate, err := datemath.Parse(target)
	require.NoError(t, err)

	repo := new(MockRepository)
	repo.On("FindExpiringPersonalAccountsByDate", mock.Anything, target).
		Return([]*models.PersonalExpiry{}, nil)
	repo.On("FindExpiringUsersByDate", mock.Anything, target).
		Return([]*models.UserExpiry{
			{UserID: "user-1", AccountID: "acc-gone", FullName: "Пётр Петров", EndingDate: targetDate},
		}, nil)
	repo.On("FindAccountsByIDs", mock.Anything, []string{"acc-gone"}).
		Return(map[string]*models.AccountRef{}, nil)

	service := NewExpiringService(repo, newNoopLogger())
	result, err := service.FindExpiringExact(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Equal(t, 0, result.Summary.TotalAccounts)
}
