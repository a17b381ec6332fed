// Package subscriptiondashboard собирает HTTP-приложение панели управления
// подписками: хранилище, кеш, бизнес-сервисы и маршруты.
package subscriptiondashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/avdeenko/subscription-dashboard/internal/cache"
	"github.com/avdeenko/subscription-dashboard/internal/config"
	"github.com/avdeenko/subscription-dashboard/internal/migrations"
	catalogservice "github.com/avdeenko/subscription-dashboard/internal/services/catalog"
	expiringservice "github.com/avdeenko/subscription-dashboard/internal/services/expiring"
	reminderservice "github.com/avdeenko/subscription-dashboard/internal/services/reminder"
	"github.com/avdeenko/subscription-dashboard/internal/storage/repository"
	"github.com/avdeenko/subscription-dashboard/internal/whatsapp"
)

// App главное приложение панели управления.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New создает новый экземпляр App.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	expiringService := expiringservice.NewExpiringService(db, logger)
	messenger := whatsapp.New(cfg.WhatsApp, logger)
	reminderService := reminderservice.NewReminderService(messenger, cfg.Reminder, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db, catalogService, expiringService, reminderService)
	router.Get("/docs/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
