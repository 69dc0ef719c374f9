package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"google.golang.org/api/youtube/v3"

	"tubesearch/internal/window"
)

// PageSearcher fetches one page of search results.
type PageSearcher interface {
	SearchPage(ctx context.Context, query string, w window.Window, pageToken string) (*youtube.SearchListResponse, error)
}

// PreviewHandler answers ad-hoc single searches without touching the
// store. It exists so operators can see what a keyword would return for
// the current window before configuring it.
type PreviewHandler struct {
	search         PageSearcher
	defaultKeyword string
	now            func() time.Time
}

// NewPreviewHandler creates a new preview handler.
func NewPreviewHandler(search PageSearcher, defaultKeyword string) *PreviewHandler {
	return &PreviewHandler{
		search:         search,
		defaultKeyword: defaultKeyword,
		now:            time.Now,
	}
}

// Preview runs a single first-page search for ?q= (or the configured
// default keyword) over the current hour window and mirrors the raw API
// response back as JSON.
func (h *PreviewHandler) Preview(c fiber.Ctx) error {
	query := c.Query("q", h.defaultKeyword)
	if query == "" {
		return jsonError(c, fiber.StatusBadRequest, "q is required")
	}

	resp, err := h.search.SearchPage(c.Context(), query, window.Compute(h.now()), "")
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "search request failed")
	}

	return c.JSON(resp)
}
