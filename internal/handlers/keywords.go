package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"tubesearch/internal/db"
	"tubesearch/internal/models"
	"tubesearch/internal/validation"
)

// KeywordStore is the slice of the database the keywords API needs.
type KeywordStore interface {
	ListKeywords(ctx context.Context) ([]models.SearchKeyword, error)
	GetKeyword(ctx context.Context, id int64) (*models.SearchKeyword, error)
	CreateKeyword(ctx context.Context, k *models.SearchKeyword) error
	DeleteKeyword(ctx context.Context, id int64) error
}

// KeywordsHandler handles operator CRUD for search keywords.
type KeywordsHandler struct {
	db KeywordStore
}

// NewKeywordsHandler creates a new keywords handler.
func NewKeywordsHandler(store KeywordStore) *KeywordsHandler {
	return &KeywordsHandler{db: store}
}

// List returns all configured keywords.
func (h *KeywordsHandler) List(c fiber.Ctx) error {
	keywords, err := h.db.ListKeywords(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to list keywords")
	}
	if keywords == nil {
		keywords = []models.SearchKeyword{}
	}
	return jsonSuccess(c, keywords)
}

// Get returns a single keyword by id.
func (h *KeywordsHandler) Get(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword id")
	}

	keyword, err := h.db.GetKeyword(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to get keyword")
	}

	return jsonSuccess(c, keyword)
}

// Create adds a keyword with a validity interval.
func (h *KeywordsHandler) Create(c fiber.Ctx) error {
	var body struct {
		Keyword  string    `json:"keyword"`
		StartsAt time.Time `json:"starts_at"`
		EndsAt   time.Time `json:"ends_at"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Keyword = validation.NormalizeKeyword(body.Keyword)

	if valid, msg := validation.ValidateKeyword(body.Keyword); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if valid, msg := validation.ValidateInterval(body.StartsAt, body.EndsAt); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	keyword := &models.SearchKeyword{
		Keyword:  body.Keyword,
		StartsAt: body.StartsAt,
		EndsAt:   body.EndsAt,
	}
	if err := h.db.CreateKeyword(c.Context(), keyword); err != nil {
		if errors.Is(err, db.ErrInvalidInterval) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create keyword")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   keyword,
	})
}

// Delete removes a keyword and, through the schema cascade, its results.
func (h *KeywordsHandler) Delete(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword id")
	}

	if err := h.db.DeleteKeyword(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete keyword")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
