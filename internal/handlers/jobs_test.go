package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"

	"tubesearch/internal/jobs"
)

type fakeRunner struct {
	report *jobs.Report
	calls  int
}

func (f *fakeRunner) Run(ctx context.Context) *jobs.Report {
	f.calls++
	return f.report
}

func TestRunSearchResponseMapping(t *testing.T) {
	tests := []struct {
		name       string
		report     *jobs.Report
		wantStatus int
	}{
		{
			name:       "successful run",
			report:     &jobs.Report{Keywords: 2, Inserted: 10},
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty run",
			report:     &jobs.Report{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "partial keyword failures still succeed",
			report:     &jobs.Report{Keywords: 2, Inserted: 3},
			wantStatus: http.StatusOK,
		},
		{
			name:       "auth failure",
			report:     &jobs.Report{Keywords: 1, Err: fmt.Errorf("%w: invalid password", jobs.ErrAuth)},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "write failure",
			report:     &jobs.Report{Keywords: 1, Err: fmt.Errorf("%w: permission denied", jobs.ErrWrite)},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "keyword query failure maps to success",
			report:     &jobs.Report{FetchErr: errors.New("connection refused")},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{report: tt.report}

			app := fiber.New()
			app.Post("/jobs/search", NewJobsHandler(runner).RunSearch)

			req, _ := http.NewRequest("POST", "/jobs/search", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if runner.calls != 1 {
				t.Errorf("runner calls = %d, want 1", runner.calls)
			}

			// The trigger contract: the body is always empty.
			body, _ := io.ReadAll(resp.Body)
			if len(body) != 0 {
				t.Errorf("body = %q, want empty", body)
			}
		})
	}
}
