package models

import "time"

// ResultItem is one video returned by the search API. Payload carries the
// full item re-encoded from the client library's decoded form, so fields
// outside the library's schema are not retained. The named fields are
// extracted for querying and are best-effort (PublishedAt may be zero if
// the API sent an unparseable timestamp).
type ResultItem struct {
	VideoID      string    `json:"video_id"`
	PublishedAt  time.Time `json:"published_at"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Payload      []byte    `json:"-"`
}

// InsertRecord is the unit written to the result store: one item tagged
// with the keyword that produced it.
type InsertRecord struct {
	Item            ResultItem
	SearchKeywordID int64
}

// SearchResult is a stored result row as read back from the database.
type SearchResult struct {
	ID              int64     `json:"id"`
	SearchKeywordID int64     `json:"search_keyword_id"`
	VideoID         string    `json:"video_id"`
	PublishedAt     time.Time `json:"published_at"`
	ChannelID       string    `json:"channel_id"`
	ChannelTitle    string    `json:"channel_title"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}
