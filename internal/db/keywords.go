package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tubesearch/internal/models"
	"tubesearch/internal/window"
)

// GetActiveKeywords returns keywords whose validity interval fully
// contains w. Containment (rather than overlap) is the deployed
// semantics: a keyword only matches once both window edges fall inside
// [starts_at, ends_at].
func (d *DB) GetActiveKeywords(ctx context.Context, w window.Window) ([]models.SearchKeyword, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, keyword, starts_at, ends_at, created_at
		FROM search_keyword
		WHERE starts_at <= $1 AND starts_at <= $2
		  AND ends_at >= $1 AND ends_at >= $2
		ORDER BY id
	`, w.After, w.Before)
	if err != nil {
		return nil, fmt.Errorf("failed to query active keywords: %w", err)
	}
	defer rows.Close()

	var keywords []models.SearchKeyword
	for rows.Next() {
		var k models.SearchKeyword
		if err := rows.Scan(&k.ID, &k.Keyword, &k.StartsAt, &k.EndsAt, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword row: %w", err)
		}
		keywords = append(keywords, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword rows: %w", err)
	}

	return keywords, nil
}

// ListKeywords returns all configured keywords, newest first.
func (d *DB) ListKeywords(ctx context.Context) ([]models.SearchKeyword, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, keyword, starts_at, ends_at, created_at
		FROM search_keyword
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []models.SearchKeyword
	for rows.Next() {
		var k models.SearchKeyword
		if err := rows.Scan(&k.ID, &k.Keyword, &k.StartsAt, &k.EndsAt, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword row: %w", err)
		}
		keywords = append(keywords, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword rows: %w", err)
	}

	return keywords, nil
}

// CreateKeyword inserts a keyword row and fills in its ID and CreatedAt.
func (d *DB) CreateKeyword(ctx context.Context, k *models.SearchKeyword) error {
	if k.StartsAt.After(k.EndsAt) {
		return ErrInvalidInterval
	}

	err := d.Pool.QueryRow(ctx, `
		INSERT INTO search_keyword (keyword, starts_at, ends_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, k.Keyword, k.StartsAt, k.EndsAt).Scan(&k.ID, &k.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create keyword: %w", err)
	}

	return nil
}

// GetKeyword returns a single keyword by id.
func (d *DB) GetKeyword(ctx context.Context, id int64) (*models.SearchKeyword, error) {
	var k models.SearchKeyword
	err := d.Pool.QueryRow(ctx, `
		SELECT id, keyword, starts_at, ends_at, created_at
		FROM search_keyword
		WHERE id = $1
	`, id).Scan(&k.ID, &k.Keyword, &k.StartsAt, &k.EndsAt, &k.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeywordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword: %w", err)
	}

	return &k, nil
}

// DeleteKeyword removes a keyword row.
func (d *DB) DeleteKeyword(ctx context.Context, id int64) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM search_keyword WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrKeywordNotFound
	}
	return nil
}
