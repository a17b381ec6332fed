package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSecretMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "корректный секрет пропускается",
			secret:     "topsecret",
			header:     "Bearer topsecret",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "неверный секрет",
			secret:     "topsecret",
			header:     "Bearer wrong",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "нет заголовка",
			secret:     "topsecret",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "не bearer-схема",
			secret:     "topsecret",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "пустой секрет в конфиге запрещает доступ",
			secret:     "",
			header:     "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/reminders/expiring", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			SecretMiddleware(tt.secret, newNoopLogger())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}
