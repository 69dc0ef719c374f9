package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"tubesearch/internal/jobs"
)

// RunStarter executes one search pass and reports its outcome.
type RunStarter interface {
	Run(ctx context.Context) *jobs.Report
}

// JobsHandler handles the cron-triggered search run.
type JobsHandler struct {
	runner RunStarter
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(runner RunStarter) *JobsHandler {
	return &JobsHandler{runner: runner}
}

// RunSearch executes one pass synchronously. The response body is always
// empty; fatal failures (store auth, bulk insert) map to 500 so the
// calling scheduler can alert, everything else is 200. Per-keyword search
// failures are logged and never fail the run.
func (h *JobsHandler) RunSearch(c fiber.Ctx) error {
	report := h.runner.Run(c.Context())

	if report.Err != nil {
		return c.Status(fiber.StatusInternalServerError).Send(nil)
	}
	return c.Status(fiber.StatusOK).Send(nil)
}
