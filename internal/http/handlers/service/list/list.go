// Package list реализует HTTP-обработчик для получения списка сервисов
// с количеством аккаунтов в каждом.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
	"github.com/avdeenko/subscription-dashboard/internal/lib/sl"
	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// Handler обрабатывает запросы на получение списка сервисов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения сервисов.
type Service interface {
	ListServices(ctx context.Context) ([]*models.ServiceInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список сервисов
// @Description Возвращает все сервисы с количеством аккаунтов.
// @Tags Services
// @Produce  json
// @Success 200 {object} map[string]any "Список сервисов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении сервисов"
// @Router /services [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	services, err := h.service.ListServices(r.Context())
	if err != nil {
		log.Error("failed to list services", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list services"))
		return
	}

	log.Info("success to list services", slog.Int("count", len(services)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"services": services,
	}))
}
