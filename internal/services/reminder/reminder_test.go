package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avdeenko/subscription-dashboard/internal/config"
	"github.com/avdeenko/subscription-dashboard/internal/models"
)

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []string
	failFor string
}

func (m *fakeMessenger) Send(_ context.Context, chatID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor != "" && strings.HasPrefix(chatID, m.failFor) {
		return errors.New("api unavailable")
	}
	m.sent = append(m.sent, chatID+" | "+message)
	return nil
}

func newTestService(messenger Messenger) *ReminderService {
	return NewReminderService(messenger, config.Reminder{
		DefaultCountryCode:  "222",
		CountryCodePrefixes: []string{"222", "971", "966", "20"},
	}, slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})))
}

func TestDispatch_OneFailureDoesNotBlockOthers(t *testing.T) {
	messenger := &fakeMessenger{failFor: "97155"}
	service := newTestService(messenger)

	candidates := []models.Candidate{
		{Type: "personal", UserName: "Иван Иванов", AccountName: "netflix-main",
			ServiceName: "Netflix", ExpirationDate: "2026-09-05",
			PhoneNumber: "12345678", HasPhone: true},
		{Type: "shared", UserName: "Пётр Петров", AccountName: "spotify-family",
			ServiceName: "Spotify", ExpirationDate: "2026-09-05",
			PhoneNumber: "+971 55 123 4567", HasPhone: true},
		{Type: "shared", UserName: "Мария Сидорова", AccountName: "spotify-family",
			ServiceName: "Spotify", ExpirationDate: "2026-09-05",
			PhoneNumber: "96650123456", HasPhone: true},
	}

	summary := service.Dispatch(context.Background(), candidates, 7)

	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, summary.Results, 3)

	// порядок результатов соответствует порядку кандидатов
	assert.True(t, summary.Results[0].Success)
	assert.False(t, summary.Results[1].Success)
	assert.Equal(t, "api unavailable", summary.Results[1].Error)
	assert.True(t, summary.Results[2].Success)
}

func TestDispatch_SkipsCandidateWithoutPhone(t *testing.T) {
	messenger := &fakeMessenger{}
	service := newTestService(messenger)

	candidates := []models.Candidate{
		{Type: "shared", UserName: "Пётр Петров", AccountName: "spotify-family",
			ServiceName: "Spotify", ExpirationDate: "2026-09-05", HasPhone: false},
	}

	summary := service.Dispatch(context.Background(), candidates, 1)

	assert.Equal(t, 0, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "No phone number", summary.Results[0].Error)
	assert.Empty(t, messenger.sent)
}

func TestDispatch_NormalizesPhoneAndBuildsMessage(t *testing.T) {
	messenger := &fakeMessenger{}
	service := newTestService(messenger)

	candidates := []models.Candidate{
		{Type: "personal", UserName: "Иван Иванов", AccountName: "netflix-main",
			ServiceName: "Netflix", ExpirationDate: "2026-09-05",
			PhoneNumber: "12-34-56-78", HasPhone: true},
	}

	summary := service.Dispatch(context.Background(), candidates, 3)

	assert.Equal(t, 1, summary.Successful)
	assert.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "22212345678@c.us")
	assert.Contains(t, messenger.sent[0], "Netflix")
	assert.Contains(t, messenger.sent[0], "2026-09-05")
	assert.Contains(t, messenger.sent[0], "через 3 дн.")
}

func TestDispatch_EmptyCandidates(t *testing.T) {
	service := newTestService(&fakeMessenger{})

	summary := service.Dispatch(context.Background(), nil, 1)

	assert.Equal(t, 0, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.Results)
}
