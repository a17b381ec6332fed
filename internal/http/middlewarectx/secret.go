// Package middlewarectx содержит HTTP middleware для защищённых маршрутов.
//
// SecretMiddleware сверяет bearer-токен из заголовка Authorization
// с настроенным секретом. Напоминания запускает внешний планировщик,
// поэтому вместо пользовательской аутентификации используется общий секрет.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized без деталей.
package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
)

// SecretMiddleware возвращает HTTP middleware, который проверяет bearer-токен
// в заголовке Authorization против настроенного секрета.
func SecretMiddleware(secret string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SecretMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			// Сравнение за постоянное время
			if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				log.Error("reminder secret mismatch")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
