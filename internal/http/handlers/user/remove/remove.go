// Package remove реализует HTTP-обработчики удаления пользователей:
// одиночного по ID и пакетного по списку ID.
package remove

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
	"github.com/avdeenko/subscription-dashboard/internal/lib/sl"
)

// Handler обрабатывает запросы на удаление пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления пользователей.
type Service interface {
	RemoveUser(ctx context.Context, id string) (int, error)
	RemoveUsers(ctx context.Context, ids []string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Description Удаляет пользователя общего аккаунта по ID.
// @Tags Users
// @Produce  json
// @Param id path string true "ID пользователя"
// @Success 200 {object} map[string]any "Пользователь удален"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении пользователя"
// @Router /users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	count, err := h.service.RemoveUser(r.Context(), id)
	if err != nil {
		log.Error("failed to remove user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove user"))
		return
	}
	if count == 0 {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}

	log.Info("success to remove user", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": count,
	}))
}

type bulkRequest struct {
	IDs []string `json:"ids"`
}

// Bulk godoc
// @Summary Удалить пользователей списком
// @Description Удаляет пользователей общих аккаунтов по списку ID.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body bulkRequest true "Список ID пользователей"
// @Success 200 {object} map[string]any "Пользователи удалены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении пользователей"
// @Router /users [delete]
func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove.bulk"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if len(req.IDs) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("ids must not be empty"))
		return
	}

	count, err := h.service.RemoveUsers(r.Context(), req.IDs)
	if err != nil {
		log.Error("failed to remove users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove users"))
		return
	}

	log.Info("success to remove users", slog.Int("count", count))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": count,
	}))
}
