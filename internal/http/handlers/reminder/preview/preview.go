// Package preview реализует HTTP-обработчик предпросмотра: возвращает
// записи, истекающие в окне от сегодняшнего дня до days_ahead дней,
// без отправки напоминаний.
package preview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
	"github.com/avdeenko/subscription-dashboard/internal/lib/sl"
	"github.com/avdeenko/subscription-dashboard/internal/models"
	expiring "github.com/avdeenko/subscription-dashboard/internal/services/expiring"
)

// Handler обрабатывает запросы предпросмотра истекающих записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс поиска истекающих записей в окне.
type Service interface {
	FindExpiringRange(ctx context.Context, daysAhead int) (*models.ExpiringResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Предпросмотр истекающих записей
// @Description Возвращает записи, истекающие в окне от сегодняшнего дня до days_ahead дней включительно. Напоминания не отправляются.
// @Tags Reminders
// @Produce  json
// @Param days_ahead query int false "Горизонт в днях (1..30), по умолчанию 7"
// @Success 200 {object} map[string]any "Сводка и список кандидатов"
// @Failure 400 {object} response.ErrorResponse "Некорректный горизонт"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при поиске записей"
// @Router /reminders/preview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reminder.preview"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	daysAhead := 7
	if raw := r.URL.Query().Get("days_ahead"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("days_ahead must be an integer"))
			return
		}
		daysAhead = parsed
	}

	result, err := h.service.FindExpiringRange(r.Context(), daysAhead)
	if err != nil {
		if errors.Is(err, expiring.ErrInvalidDaysAhead) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to find expiring records", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not find expiring records"))
		return
	}

	log.Info("success to preview expiring records",
		slog.Int("total", result.Summary.TotalAccounts),
		slog.Bool("partial", result.Partial))
	render.JSON(w, r, response.StatusOKWithData(result))
}
