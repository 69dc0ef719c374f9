// Package youtube wraps the YouTube Data API v3 search endpoint.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"tubesearch/internal/metrics"
	"tubesearch/internal/models"
	"tubesearch/internal/window"
)

// pageSize is the maximum the search endpoint allows per page.
const pageSize = 50

// DefaultMaxPages bounds pagination per keyword. A very active keyword can
// page indefinitely; past the cap partial results are returned and flagged
// as truncated instead of being silently capped.
const DefaultMaxPages = 10

// Client performs keyword searches against the YouTube Data API.
type Client struct {
	svc      *youtube.Service
	maxPages int
}

// New creates a search client. Production callers pass
// option.WithAPIKey; tests pass option.WithEndpoint plus
// option.WithoutAuthentication to hit a local server.
func New(ctx context.Context, maxPages int, opts ...option.ClientOption) (*Client, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	return &Client{svc: svc, maxPages: maxPages}, nil
}

// SearchPage fetches a single page of results for query within w.
// An empty pageToken requests the first page.
func (c *Client) SearchPage(ctx context.Context, query string, w window.Window, pageToken string) (*youtube.SearchListResponse, error) {
	call := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("date").
		MaxResults(pageSize).
		PublishedAfter(w.After.Format(time.RFC3339)).
		PublishedBefore(w.Before.Format(time.RFC3339)).
		Context(ctx)

	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("search request failed for %q: %w", query, err)
	}

	return resp, nil
}

// SearchAll fetches every result page for query within w, following
// continuation tokens up to the page cap. Page order and in-page item
// order are preserved. The bool return is true when the cap stopped a
// search that still had a continuation token.
//
// Any page error aborts the whole search: pages fetched so far are not
// salvaged, matching the all-or-nothing contract the aggregator expects.
func (c *Client) SearchAll(ctx context.Context, query string, w window.Window) ([]models.ResultItem, bool, error) {
	var items []models.ResultItem
	pageToken := ""

	for page := 0; page < c.maxPages; page++ {
		resp, err := c.SearchPage(ctx, query, w, pageToken)
		if err != nil {
			return nil, false, err
		}
		metrics.RecordSearchPage()

		for _, raw := range resp.Items {
			item, err := convertItem(raw)
			if err != nil {
				return nil, false, fmt.Errorf("failed to decode search item for %q: %w", query, err)
			}
			items = append(items, item)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return items, false, nil
		}
	}

	return items, true, nil
}

// convertItem extracts the fields we index on and re-encodes the full item
// as the stored payload. The client library does not expose per-item
// response bytes, so fields outside its schema are not carried over.
func convertItem(raw *youtube.SearchResult) (models.ResultItem, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return models.ResultItem{}, err
	}

	item := models.ResultItem{Payload: payload}

	if raw.Id != nil {
		item.VideoID = raw.Id.VideoId
	}
	if raw.Snippet != nil {
		item.ChannelID = raw.Snippet.ChannelId
		item.ChannelTitle = raw.Snippet.ChannelTitle
		item.Title = raw.Snippet.Title
		item.Description = raw.Snippet.Description
		if ts, err := time.Parse(time.RFC3339, raw.Snippet.PublishedAt); err == nil {
			item.PublishedAt = ts
		}
	}

	return item, nil
}
