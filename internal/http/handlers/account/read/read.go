// Package read реализует HTTP-обработчик для получения аккаунта по ID.
// Для персональных аккаунтов ответ содержит вычисляемые поля срока действия.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
	"github.com/avdeenko/subscription-dashboard/internal/lib/sl"
	"github.com/avdeenko/subscription-dashboard/internal/models"
	"github.com/avdeenko/subscription-dashboard/internal/storage/repository"
)

// Handler обрабатывает запросы на получение аккаунта по ID.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения аккаунта.
type Service interface {
	ReadAccount(ctx context.Context, id string) (*models.AccountInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить аккаунт
// @Description Возвращает аккаунт по ID с вычисляемыми полями срока действия.
// @Tags Accounts
// @Produce  json
// @Param id path string true "ID аккаунта"
// @Success 200 {object} map[string]any "Данные аккаунта"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении аккаунта"
// @Router /accounts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	account, err := h.service.ReadAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		log.Error("failed to read account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read account"))
		return
	}

	log.Info("success to read account", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"account": account,
	}))
}
