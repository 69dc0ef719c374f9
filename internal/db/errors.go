package db

import "errors"

// Domain-level database error sentinels.
var (
	// Keyword errors
	ErrKeywordNotFound = errors.New("search keyword not found")
	ErrInvalidInterval = errors.New("starts_at must not be after ends_at")

	// Result store errors
	ErrNotAuthenticated = errors.New("result store is not authenticated")
)
