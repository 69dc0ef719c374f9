package models

import "time"

// SearchKeyword is a configured search term with a validity interval.
// Rows are managed by operators through the keywords API; the hourly run
// only reads them.
type SearchKeyword struct {
	ID        int64     `json:"id"`
	Keyword   string    `json:"keyword"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
}
