package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldline/production-tracker/internal/api/metrics"
	"github.com/goldline/production-tracker/internal/core/ports"
)

// DailyLogHandler handles worker attendance and work logs.
type DailyLogHandler struct {
	service ports.DailyLogService
}

func NewDailyLogHandler(service ports.DailyLogService) *DailyLogHandler {
	return &DailyLogHandler{service: service}
}

// Client supplied id and timestamp are ignored; both are assigned by the server.
type createDailyLogRequest struct {
	WorkerName string `json:"workerName" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=Start End StartWork CompleteWork"`
	PhotoURL   string `json:"photoUrl"`
}

// List handles GET /api/daily-logs.
//
// @Summary      List daily logs, newest first
// @Tags         daily-logs
// @Produce      json
// @Param        workerName  query     string  false  "Only logs of this worker"
// @Success      200         {array}   domain.DailyLog
// @Router       /api/daily-logs [get]
func (h *DailyLogHandler) List(c echo.Context) error {
	logs, err := h.service.ListDailyLogs(c.Request().Context(), ports.DailyLogFilter{
		WorkerName: c.QueryParam("workerName"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logs)
}

// Get handles GET /api/daily-logs/:id.
//
// @Summary      Get a daily log
// @Tags         daily-logs
// @Produce      json
// @Param        id   path      string  true  "Daily log id"
// @Success      200  {object}  domain.DailyLog
// @Failure      404  {object}  map[string]string
// @Router       /api/daily-logs/{id} [get]
func (h *DailyLogHandler) Get(c echo.Context) error {
	entry, err := h.service.GetDailyLog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// Create handles POST /api/daily-logs.
//
// @Summary      Record a daily log
// @Tags         daily-logs
// @Accept       json
// @Produce      json
// @Param        body  body      createDailyLogRequest  true  "Worker event"
// @Success      201   {object}  domain.DailyLog
// @Failure      400   {object}  map[string]string
// @Router       /api/daily-logs [post]
func (h *DailyLogHandler) Create(c echo.Context) error {
	var req createDailyLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.service.CreateDailyLog(c.Request().Context(), ports.CreateDailyLogInput{
		WorkerName: req.WorkerName,
		Type:       req.Type,
		PhotoURL:   req.PhotoURL,
	})
	if err != nil {
		return err
	}

	metrics.DailyLogsTotal.WithLabelValues(string(entry.Type)).Inc()
	return c.JSON(http.StatusCreated, entry)
}

// Delete handles DELETE /api/daily-logs/:id.
//
// @Summary      Delete a daily log
// @Tags         daily-logs
// @Produce      json
// @Param        id   path      string  true  "Daily log id"
// @Success      200  {object}  statusResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/daily-logs/{id} [delete]
func (h *DailyLogHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteDailyLog(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
