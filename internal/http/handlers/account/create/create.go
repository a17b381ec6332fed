// Package create реализует HTTP-обработчик для создания аккаунтов.
//
// Handler принимает JSON-запрос с данными аккаунта любого вида, передает
// их бизнес-логике и возвращает ID созданной записи. Нарушения правил
// валидации возвращаются списком, а не первой найденной ошибкой.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
	"github.com/avdeenko/subscription-dashboard/internal/lib/sl"
	"github.com/avdeenko/subscription-dashboard/internal/models"
	catalog "github.com/avdeenko/subscription-dashboard/internal/services/catalog"
	"github.com/avdeenko/subscription-dashboard/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание аккаунтов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики создания аккаунта.
type Service interface {
	CreateAccount(ctx context.Context, req models.DummyAccount) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать новый аккаунт
// @Description Создает персональный или общий аккаунт внутри сервиса. Возвращает ID созданной записи.
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param request body models.DummyAccount true "Данные нового аккаунта"
// @Success 200 {object} map[string]any "Успешное создание аккаунта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Сервис не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании аккаунта"
// @Router /accounts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	id, err := h.service.CreateAccount(r.Context(), req)
	if err != nil {
		var validationErr *catalog.ValidationError
		switch {
		case errors.As(err, &validationErr):
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.FieldErrors(validationErr.Fields))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("service not found"))
		default:
			log.Error("failed to create account", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create account"))
		}
		return
	}

	log.Info("success to create account", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
