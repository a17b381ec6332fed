// Package remove реализует HTTP-обработчик для удаления сервиса по ID.
// Вместе с сервисом каскадно удаляются его аккаунты и пользователи.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
	"github.com/avdeenko/subscription-dashboard/internal/lib/sl"
)

// Handler обрабатывает запросы на удаление сервиса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления сервиса.
type Service interface {
	RemoveService(ctx context.Context, id string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить сервис
// @Description Удаляет сервис по ID вместе с его аккаунтами и пользователями.
// @Tags Services
// @Produce  json
// @Param id path string true "ID сервиса"
// @Success 200 {object} map[string]any "Сервис удален"
// @Failure 404 {object} response.ErrorResponse "Сервис не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении сервиса"
// @Router /services/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	count, err := h.service.RemoveService(r.Context(), id)
	if err != nil {
		log.Error("failed to remove service", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove service"))
		return
	}
	if count == 0 {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("service not found"))
		return
	}

	log.Info("success to remove service", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": count,
	}))
}
