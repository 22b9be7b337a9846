package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldline/production-tracker/internal/api/metrics"
	"github.com/goldline/production-tracker/internal/core/ports"
)

// JobHandler handles HTTP requests for production jobs.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// List handles GET /api/jobs.
//
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Success      200  {array}   domain.Job
// @Failure      500  {object}  map[string]string
// @Router       /api/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	jobs, err := h.service.ListJobs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}

// Get handles GET /api/jobs/:id.
//
// @Summary      Get a job with its history
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job id (e.g. 7A8B9C2D)"
// @Success      200  {object}  domain.Job
// @Failure      404  {object}  map[string]string
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	job, err := h.service.GetJob(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// Create handles POST /api/jobs.
//
// @Summary      Open a new job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      createJobRequest  true  "Job details"
// @Success      201   {object}  domain.Job
// @Failure      400   {object}  map[string]string
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	var req createJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job, err := h.service.CreateJob(c.Request().Context(), ports.CreateJobInput{
		Priority:       req.Priority,
		DesignImageURL: req.DesignImageURL,
		CurrentStage:   req.CurrentStage,
	})
	if err != nil {
		return err
	}

	metrics.JobsCreatedTotal.WithLabelValues(job.Priority).Inc()
	return c.JSON(http.StatusCreated, job)
}

// Update handles PUT /api/jobs/:id. Incoming history entries are merged by
// id; entries already stored are left untouched.
//
// @Summary      Merge a client's view of a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Job id"
// @Param        body  body      updateJobRequest  true  "Stage and/or history"
// @Success      200   {object}  domain.Job
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/jobs/{id} [put]
func (h *JobHandler) Update(c echo.Context) error {
	var req updateJobRequest
	if err := decodeStrict(c, &req); err != nil {
		return err
	}

	res, err := h.service.UpdateJob(c.Request().Context(), c.Param("id"), toJobPatch(req))
	if err != nil {
		return err
	}

	metrics.HistoryMergeEntriesTotal.WithLabelValues("appended").Add(float64(res.Appended))
	metrics.HistoryMergeEntriesTotal.WithLabelValues("skipped").Add(float64(res.Skipped))
	return c.JSON(http.StatusOK, res.Job)
}

// AppendLog handles POST /api/jobs/:id/log.
//
// @Summary      Record a stage transition
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Job id"
// @Param        body  body      appendLogRequest  true  "Stage transition"
// @Success      200   {object}  appendLogResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/jobs/{id}/log [post]
func (h *JobHandler) AppendLog(c echo.Context) error {
	var req appendLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.service.AppendLog(c.Request().Context(), toAppendLogInput(c.Param("id"), req))
	if err != nil {
		return err
	}

	metrics.JobLogsAppendedTotal.WithLabelValues(entry.StageName).Inc()
	return c.JSON(http.StatusOK, appendLogResponse{Status: "success", Log: entry})
}
