package preview

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/avdeenko/subscription-dashboard/internal/models"
	expiring "github.com/avdeenko/subscription-dashboard/internal/services/expiring"
)

// MockService реализует интерфейс preview.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) FindExpiringRange(ctx context.Context, daysAhead int) (*models.ExpiringResult, error) {
	args := m.Called(ctx, daysAhead)
	if res := args.Get(0); res != nil {
		return res.(*models.ExpiringResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPreviewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный предпросмотр",
			url:  "/reminders/preview?days_ahead=14",
			setupMock: func(m *MockService) {
				m.On("FindExpiringRange", mock.Anything, 14).Return(&models.ExpiringResult{
					Summary: models.ExpiringSummary{
						TotalAccounts:    2,
						PersonalAccounts: 1,
						SharedAccounts:   1,
						DateRange:        models.DateRange{From: "2026-08-29", To: "2026-09-12"},
						DaysAhead:        14,
					},
					Candidates: []models.Candidate{
						{Type: "personal", AccountName: "netflix-main", ServiceName: "Netflix"},
						{Type: "shared", AccountName: "spotify-family", ServiceName: "Spotify"},
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_accounts":2`,
		},
		{
			name: "горизонт по умолчанию",
			url:  "/reminders/preview",
			setupMock: func(m *MockService) {
				m.On("FindExpiringRange", mock.Anything, 7).Return(&models.ExpiringResult{
					Summary: models.ExpiringSummary{DaysAhead: 7},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"days_ahead":7`,
		},
		{
			name:           "нечисловой горизонт",
			url:            "/reminders/preview?days_ahead=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `days_ahead must be an integer`,
		},
		{
			name: "горизонт за пределами диапазона",
			url:  "/reminders/preview?days_ahead=0",
			setupMock: func(m *MockService) {
				m.On("FindExpiringRange", mock.Anything, 0).Return(nil, expiring.ErrInvalidDaysAhead)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"status":"Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
