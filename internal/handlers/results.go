package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"tubesearch/internal/models"
)

// ResultReader is the slice of the database the results API needs.
type ResultReader interface {
	GetRecentResults(ctx context.Context, keywordID int64, limit int) ([]models.SearchResult, error)
}

// ResultsHandler exposes stored results for operators.
type ResultsHandler struct {
	db ResultReader
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(store ResultReader) *ResultsHandler {
	return &ResultsHandler{db: store}
}

// List returns recent results, optionally filtered by ?keyword_id=.
func (h *ResultsHandler) List(c fiber.Ctx) error {
	var keywordID int64
	if raw := c.Query("keyword_id", ""); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return jsonError(c, fiber.StatusBadRequest, "invalid keyword_id")
		}
		keywordID = id
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	results, err := h.db.GetRecentResults(c.Context(), keywordID, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to list results")
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	return jsonSuccess(c, results)
}
