// Package remove реализует HTTP-обработчик для удаления аккаунта по ID.
// Вместе с аккаунтом каскадно удаляются его пользователи.
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

// Handler обрабатывает запросы на удаление аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления аккаунта.
type Service interface {
	RemoveAccount(ctx context.Context, id string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить аккаунт
// @Description Удаляет аккаунт по ID вместе с его пользователями.
// @Tags Accounts
// @Produce  json
// @Param id path string true "ID аккаунта"
// @Success 200 {object} map[string]any "Аккаунт удален"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении аккаунта"
// @Router /accounts/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	count, err := h.service.RemoveAccount(r.Context(), id)
	if err != nil {
		log.Error("failed to remove account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove account"))
		return
	}
	if count == 0 {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("account not found"))
		return
	}

	log.Info("success to remove account", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": count,
	}))
}
