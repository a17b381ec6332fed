// Package subscriptiondashboard предоставляет маршруты для основного приложения.
package subscriptiondashboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accountcreate "github.com/avdeenko/subscription-dashboard/internal/http/handlers/account/create"
	accountlist "github.com/avdeenko/subscription-dashboard/internal/http/handlers/account/list"
	accountread "github.com/avdeenko/subscription-dashboard/internal/http/handlers/account/read"
	accountremove "github.com/avdeenko/subscription-dashboard/internal/http/handlers/account/remove"
	accountupdate "github.com/avdeenko/subscription-dashboard/internal/http/handlers/account/update"
	"github.com/avdeenko/subscription-dashboard/internal/http/handlers/health"
	reminderpreview "github.com/avdeenko/subscription-dashboard/internal/http/handlers/reminder/preview"
	reminderrun "github.com/avdeenko/subscription-dashboard/internal/http/handlers/reminder/run"
	servicecreate "github.com/avdeenko/subscription-dashboard/internal/http/handlers/service/create"
	servicelist "github.com/avdeenko/subscription-dashboard/internal/http/handlers/service/list"
	serviceremove "github.com/avdeenko/subscription-dashboard/internal/http/handlers/service/remove"
	usercreate "github.com/avdeenko/subscription-dashboard/internal/http/handlers/user/create"
	userlist "github.com/avdeenko/subscription-dashboard/internal/http/handlers/user/list"
	userremove "github.com/avdeenko/subscription-dashboard/internal/http/handlers/user/remove"
	userupdate "github.com/avdeenko/subscription-dashboard/internal/http/handlers/user/update"
	"github.com/avdeenko/subscription-dashboard/internal/http/middlewarectx"

	"github.com/avdeenko/subscription-dashboard/internal/config"
	catalogservice "github.com/avdeenko/subscription-dashboard/internal/services/catalog"
	expiringservice "github.com/avdeenko/subscription-dashboard/internal/services/expiring"
	reminderservice "github.com/avdeenko/subscription-dashboard/internal/services/reminder"
	"github.com/avdeenko/subscription-dashboard/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, db *repository.Storage,
	catalogService *catalogservice.CatalogService,
	expiringService *expiringservice.ExpiringService,
	reminderService *reminderservice.ReminderService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Каталог: сервисы, аккаунты, пользователи
		r.Post("/services", servicecreate.New(logger, catalogService).ServeHTTP)
		r.Get("/services", servicelist.New(logger, catalogService).ServeHTTP)
		r.Delete("/services/{id}", serviceremove.New(logger, catalogService).ServeHTTP)
		r.Get("/services/{id}/accounts", accountlist.New(logger, catalogService).ServeHTTP)

		r.Post("/accounts", accountcreate.New(logger, catalogService).ServeHTTP)
		r.Get("/accounts/{id}", accountread.New(logger, catalogService).ServeHTTP)
		r.Put("/accounts/{id}", accountupdate.New(logger, catalogService).ServeHTTP)
		r.Delete("/accounts/{id}", accountremove.New(logger, catalogService).ServeHTTP)
		r.Get("/accounts/{id}/users", userlist.New(logger, catalogService).ServeHTTP)

		r.Post("/users", usercreate.New(logger, catalogService).ServeHTTP)
		r.Put("/users/{id}", userupdate.New(logger, catalogService).ServeHTTP)
		r.Delete("/users/{id}", userremove.New(logger, catalogService).ServeHTTP)
		r.Delete("/users", userremove.New(logger, catalogService).Bulk)

		// Предпросмотр истекающих записей без отправки напоминаний
		r.Get("/reminders/preview", reminderpreview.New(logger, expiringService).ServeHTTP)

		// Запуск рассылки защищён общим секретом планировщика
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SecretMiddleware(cfg.ReminderSecret, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/reminders/expiring", reminderrun.New(logger, expiringService, reminderService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
