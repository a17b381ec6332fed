// Package list реализует HTTP-обработчик для получения аккаунтов сервиса.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
	"github.com/avdeenko/subscription-dashboard/internal/lib/sl"
	"github.com/avdeenko/subscription-dashboard/internal/models"
)

// Handler обрабатывает запросы на получение аккаунтов сервиса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения аккаунтов.
type Service interface {
	ListAccounts(ctx context.Context, serviceID string) ([]*models.AccountInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список аккаунтов сервиса
// @Description Возвращает аккаунты сервиса с вычисляемыми полями срока действия.
// @Tags Accounts
// @Produce  json
// @Param id path string true "ID сервиса"
// @Success 200 {object} map[string]any "Список аккаунтов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении аккаунтов"
// @Router /services/{id}/accounts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	serviceID := chi.URLParam(r, "id")

	accounts, err := h.service.ListAccounts(r.Context(), serviceID)
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list accounts"))
		return
	}

	log.Info("success to list accounts", slog.Int("count", len(accounts)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"accounts": accounts,
	}))
}
