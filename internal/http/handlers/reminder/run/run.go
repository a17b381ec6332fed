// Package run реализует HTTP-обработчик запуска рассылки WhatsApp:
// находит записи, истекающие ровно через заданное число дней, и отправляет
// напоминание каждому кандидату.
package run

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avdeenko/subscription-dashboard/internal/http/response"
	"github.com/avdeenko/subscription-dashboard/internal/lib/sl"
	"github.com/avdeenko/subscription-dashboard/internal/models"
	expiring "github.com/avdeenko/subscription-dashboard/internal/services/expiring"
)

// Handler управляет HTTP-запросами на запуск рассылки.
type Handler struct {
	log        *slog.Logger
	finder     Finder
	dispatcher Dispatcher
}

// Finder описывает интерфейс поиска истекающих записей.
type Finder interface {
	FindExpiringExact(ctx context.Context, daysAhead int) (*models.ExpiringResult, error)
}

// Dispatcher описывает интерфейс рассылки напоминаний.
type Dispatcher interface {
	Dispatch(ctx context.Context, candidates []models.Candidate, daysAhead int) *models.DispatchSummary
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, finder Finder, dispatcher Dispatcher) *Handler {
	return &Handler{log: log, finder: finder, dispatcher: dispatcher}
}

type runRequest struct {
	DaysAhead int `json:"days_ahead"`
}

// ServeHTTP godoc
// @Summary Запустить рассылку напоминаний
// @Description Находит записи, истекающие ровно через days_ahead дней, и отправляет напоминания WhatsApp. Требует секрет в заголовке Authorization.
// @Tags Reminders
// @Accept  json
// @Produce  json
// @Param request body runRequest true "Горизонт рассылки в днях (1..30)"
// @Success 200 {object} map[string]any "Итоги рассылки"
// @Failure 400 {object} response.ErrorResponse "Некорректный горизонт"
// @Failure 401 {object} response.ErrorResponse "Неверный секрет"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при поиске записей"
// @Security ApiKeyAuth
// @Router /reminders/expiring [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reminder.run"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req := runRequest{DaysAhead: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	result, err := h.finder.FindExpiringExact(r.Context(), req.DaysAhead)
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

	if len(result.Candidates) == 0 {
		log.Info("no expiring records found", slog.Int("days_ahead", req.DaysAhead))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"message":     "no subscriptions expiring on the target date",
			"total":       0,
			"successful":  0,
			"failed":      0,
			"days_ahead":  req.DaysAhead,
			"target_date": result.Summary.DateRange.To,
		}))
		return
	}

	summary := h.dispatcher.Dispatch(r.Context(), result.Candidates, req.DaysAhead)

	log.Info("dispatch finished",
		slog.Int("total", len(result.Candidates)),
		slog.Int("successful", summary.Successful),
		slog.Int("failed", summary.Failed))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":     "reminders dispatched",
		"total":       len(result.Candidates),
		"successful":  summary.Successful,
		"failed":      summary.Failed,
		"days_ahead":  req.DaysAhead,
		"target_date": result.Summary.DateRange.To,
		"processed":   summary.Results,
	}))
}
