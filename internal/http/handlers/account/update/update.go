// Package update реализует HTTP-обработчик для обновления аккаунта.
// Вид аккаунта неизменяем: попытка сменить его отклоняется.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
	"github.com/avdeenko/subscription-dashboard/internal/lib/sl"
	"github.com/avdeenko/subscription-dashboard/internal/models"
	catalog "github.com/avdeenko/subscription-dashboard/internal/services/catalog"
	"github.com/avdeenko/subscription-dashboard/internal/storage/repository"
)

// Handler управляет HTTP-запросами на обновление аккаунтов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления аккаунта.
type Service interface {
	UpdateAccount(ctx context.Context, id string, req models.DummyAccount) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить аккаунт
// @Description Обновляет данные аккаунта. Вид аккаунта изменить нельзя.
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param id path string true "ID аккаунта"
// @Param request body models.DummyAccount true "Новые данные аккаунта"
// @Success 200 {object} map[string]any "Аккаунт обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении аккаунта"
// @Router /accounts/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	count, err := h.service.UpdateAccount(r.Context(), id, req)
	if err != nil {
		var validationErr *catalog.ValidationError
		switch {
		case errors.As(err, &validationErr):
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.FieldErrors(validationErr.Fields))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
		default:
			log.Error("failed to update account", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update account"))
		}
		return
	}

	log.Info("success to update account", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated": count,
	}))
}
