// Package jobs contains the hourly search run orchestration.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"tubesearch/internal/metrics"
	"tubesearch/internal/models"
	"tubesearch/internal/window"
)

// Fatal run failures. Both abort the run; per-keyword search failures
// never do.
var (
	ErrAuth  = errors.New("store authentication failed")
	ErrWrite = errors.New("result write failed")
)

// KeywordSource loads the keywords active for a window.
type KeywordSource interface {
	GetActiveKeywords(ctx context.Context, w window.Window) ([]models.SearchKeyword, error)
}

// Searcher fetches all result pages for one keyword.
type Searcher interface {
	SearchAll(ctx context.Context, query string, w window.Window) ([]models.ResultItem, bool, error)
}

// ResultStore authenticates as the service role and bulk-writes results.
// The store is shared by concurrent runs and owned by the caller that
// built the runner; runs never close it.
type ResultStore interface {
	Authenticate(ctx context.Context) error
	InsertResults(ctx context.Context, records []models.InsertRecord) (int64, error)
}

// Alerter is notified about fatal run failures. May be nil.
type Alerter interface {
	RunFailed(runID uuid.UUID, err error)
}

// KeywordResult is the outcome of one keyword's search. When Err is set
// the keyword contributed no items: partial pages are discarded, not
// salvaged.
type KeywordResult struct {
	KeywordID int64
	Keyword   string
	Items     []models.ResultItem
	Truncated bool
	Err       error
}

// Report is the typed outcome of a run. The HTTP boundary decides how to
// map it onto a response; the run itself never swallows failures.
type Report struct {
	RunID    uuid.UUID
	Window   window.Window
	Keywords int
	Results  []KeywordResult
	Inserted int64
	Duration time.Duration

	// FetchErr records a keyword-query failure. It is treated as "nothing
	// to do" rather than a run failure, so Err stays nil.
	FetchErr error

	// Err is set only for fatal failures (ErrAuth, ErrWrite).
	Err error
}

// Outcome classifies the report for logs and metrics.
func (r *Report) Outcome() string {
	switch {
	case errors.Is(r.Err, ErrAuth):
		return "auth_error"
	case errors.Is(r.Err, ErrWrite):
		return "write_error"
	case r.Keywords == 0:
		return "empty"
	default:
		return "ok"
	}
}

// Runner executes one search pass: compute the window, load keywords,
// search each keyword concurrently, flatten and bulk-insert.
type Runner struct {
	keywords KeywordSource
	search   Searcher
	store    ResultStore
	alerts   Alerter
	now      func() time.Time
}

// NewRunner creates a runner. alerts may be nil; now defaults to
// time.Now.
func NewRunner(keywords KeywordSource, search Searcher, store ResultStore, alerts Alerter) *Runner {
	return &Runner{
		keywords: keywords,
		search:   search,
		store:    store,
		alerts:   alerts,
		now:      time.Now,
	}
}

// Run performs one pass and always returns a report.
func (r *Runner) Run(ctx context.Context) *Report {
	started := r.now()
	report := &Report{
		RunID:  uuid.New(),
		Window: window.Compute(started),
	}
	defer func() {
		report.Duration = time.Since(started)
		metrics.RecordRun(report.Outcome(), report.Duration)
		if report.Err != nil && r.alerts != nil {
			r.alerts.RunFailed(report.RunID, report.Err)
		}
	}()

	log.Printf("Run %s: window %s - %s", report.RunID,
		report.Window.After.Format(time.RFC3339), report.Window.Before.Format(time.RFC3339))

	keywords, err := r.keywords.GetActiveKeywords(ctx, report.Window)
	if err != nil {
		// A failed keyword query means there is nothing to do, not a
		// failed run. The cause is kept on the report for observability.
		log.Printf("Run %s: keyword query failed, treating as empty: %v", report.RunID, err)
		report.FetchErr = err
		return report
	}

	report.Keywords = len(keywords)
	if len(keywords) == 0 {
		log.Printf("Run %s: no active keywords", report.RunID)
		return report
	}

	// Authenticate before spending any API quota: an auth failure aborts
	// the run and no search or insert happens.
	if err := r.store.Authenticate(ctx); err != nil {
		report.Err = fmt.Errorf("%w: %v", ErrAuth, err)
		log.Printf("Run %s: %v", report.RunID, report.Err)
		return report
	}

	report.Results = r.searchAll(ctx, keywords, report)

	batch := flatten(report.Results)
	if len(batch) == 0 {
		log.Printf("Run %s: no results to insert", report.RunID)
		return report
	}

	inserted, err := r.store.InsertResults(ctx, batch)
	if err != nil {
		report.Err = fmt.Errorf("%w: %v", ErrWrite, err)
		log.Printf("Run %s: %v", report.RunID, report.Err)
		return report
	}

	report.Inserted = inserted
	metrics.RecordInserted(inserted)
	log.Printf("Run %s: inserted %d results for %d keywords", report.RunID, inserted, len(keywords))
	return report
}

// searchAll fans out one goroutine per keyword and joins before
// returning. Each goroutine writes only its own slot, so the result slice
// keeps keyword iteration order without locking.
func (r *Runner) searchAll(ctx context.Context, keywords []models.SearchKeyword, report *Report) []KeywordResult {
	results := make([]KeywordResult, len(keywords))

	var wg sync.WaitGroup
	for i, k := range keywords {
		wg.Add(1)
		go func(i int, k models.SearchKeyword) {
			defer wg.Done()

			items, truncated, err := r.search.SearchAll(ctx, k.Keyword, report.Window)
			if err != nil {
				log.Printf("Run %s: search failed for keyword %d (%q): %v", report.RunID, k.ID, k.Keyword, err)
				metrics.RecordSearchError()
				results[i] = KeywordResult{KeywordID: k.ID, Keyword: k.Keyword, Err: err}
				return
			}

			if truncated {
				log.Printf("Run %s: keyword %d (%q) hit the page cap, results truncated", report.RunID, k.ID, k.Keyword)
			}
			metrics.RecordKeywordSearched()
			results[i] = KeywordResult{KeywordID: k.ID, Keyword: k.Keyword, Items: items, Truncated: truncated}
		}(i, k)
	}
	wg.Wait()

	return results
}

// flatten concatenates all keywords' items into one insert batch,
// preserving keyword order and in-keyword item order.
func flatten(results []KeywordResult) []models.InsertRecord {
	var batch []models.InsertRecord
	for _, res := range results {
		for _, item := range res.Items {
			batch = append(batch, models.InsertRecord{
				Item:            item,
				SearchKeywordID: res.KeywordID,
			})
		}
	}
	return batch
}
