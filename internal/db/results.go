package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubesearch/internal/models"
)

// resultColumns is the column order used by the bulk insert.
var resultColumns = []string{
	"search_keyword_id", "video_id", "published_at",
	"channel_id", "channel_title", "title", "description", "payload",
}

// ResultStore writes search results as the service role. It holds no open
// connection until Authenticate succeeds; a run that fails to authenticate
// can therefore never reach the insert. The pool lives for the process and
// is shared by concurrent runs; only Close at shutdown releases it.
type ResultStore struct {
	connString string

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewResultStore creates a result store for the service-role connection
// string. No connection is opened yet.
func NewResultStore(connString string) *ResultStore {
	return &ResultStore{connString: connString}
}

// Authenticate opens the service-role pool on first use and verifies it
// with a ping on every call, so each run re-checks the credentials.
func (s *ResultStore) Authenticate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		if err := s.pool.Ping(ctx); err != nil {
			return fmt.Errorf("service role authentication failed: %w", err)
		}
		return nil
	}

	pool, err := pgxpool.New(ctx, s.connString)
	if err != nil {
		return fmt.Errorf("failed to create service pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("service role authentication failed: %w", err)
	}

	s.pool = pool
	return nil
}

// InsertResults bulk-inserts the batch in a single COPY. It does not
// deduplicate or chunk. Returns the number of rows written.
func (s *ResultStore) InsertResults(ctx context.Context, records []models.InsertRecord) (int64, error) {
	s.mu.Lock()
	pool := s.pool
	s.mu.Unlock()

	if pool == nil {
		return 0, ErrNotAuthenticated
	}
	if len(records) == 0 {
		return 0, nil
	}

	count, err := pool.CopyFrom(ctx,
		pgx.Identifier{"search_result"},
		resultColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]

			var publishedAt any
			if !r.Item.PublishedAt.IsZero() {
				publishedAt = r.Item.PublishedAt
			}

			return []any{
				r.SearchKeywordID,
				r.Item.VideoID,
				publishedAt,
				r.Item.ChannelID,
				r.Item.ChannelTitle,
				r.Item.Title,
				r.Item.Description,
				r.Item.Payload,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert results: %w", err)
	}

	return count, nil
}

// Close releases the service-role pool, if any. Called once at process
// shutdown, never per run.
func (s *ResultStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

// GetRecentResults returns stored results, newest first, optionally
// filtered by keyword id (0 = all keywords).
func (d *DB) GetRecentResults(ctx context.Context, keywordID int64, limit int) ([]models.SearchResult, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT id, search_keyword_id, video_id, COALESCE(published_at, 'epoch'::timestamptz),
		       channel_id, channel_title, title, description, created_at
		FROM search_result
		WHERE ($1 = 0 OR search_keyword_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, keywordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.ID, &r.SearchKeywordID, &r.VideoID, &r.PublishedAt,
			&r.ChannelID, &r.ChannelTitle, &r.Title, &r.Description, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	return results, nil
}
