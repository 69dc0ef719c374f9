package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"tubesearch/internal/models"
	"tubesearch/internal/window"
)

type fakeKeywords struct {
	keywords []models.SearchKeyword
	err      error
	calls    int
}

func (f *fakeKeywords) GetActiveKeywords(ctx context.Context, w window.Window) ([]models.SearchKeyword, error) {
	f.calls++
	return f.keywords, f.err
}

type fakeSearcher struct {
	items     map[string][]models.ResultItem
	errs      map[string]error
	truncated map[string]bool
	calls     int
}

func (f *fakeSearcher) SearchAll(ctx context.Context, query string, w window.Window) ([]models.ResultItem, bool, error) {
	f.calls++
	if err := f.errs[query]; err != nil {
		return nil, false, err
	}
	return f.items[query], f.truncated[query], nil
}

// fakeStore mirrors the real store's state machine: inserts are rejected
// until Authenticate has succeeded, and authentication survives across
// runs.
type fakeStore struct {
	authErr   error
	insertErr error

	mu          sync.Mutex
	authed      bool
	authCalls   int
	insertCalls int
	inserted    []models.InsertRecord
}

func (f *fakeStore) Authenticate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authCalls++
	if f.authErr != nil {
		return f.authErr
	}
	f.authed = true
	return nil
}

func (f *fakeStore) InsertResults(ctx context.Context, records []models.InsertRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.insertCalls++
	if !f.authed {
		return 0, errors.New("not authenticated")
	}
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, records...)
	return int64(len(records)), nil
}

type fakeAlerter struct {
	runID uuid.UUID
	err   error
	calls int
}

func (f *fakeAlerter) RunFailed(runID uuid.UUID, err error) {
	f.calls++
	f.runID = runID
	f.err = err
}

func item(videoID string) models.ResultItem {
	return models.ResultItem{
		VideoID:     videoID,
		PublishedAt: time.Date(2024, 3, 10, 13, 30, 0, 0, time.UTC),
		Payload:     []byte(fmt.Sprintf(`{"id":{"videoId":%q}}`, videoID)),
	}
}

func keyword(id int64, text string) models.SearchKeyword {
	return models.SearchKeyword{
		ID:       id,
		Keyword:  text,
		StartsAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunNoKeywords(t *testing.T) {
	search := &fakeSearcher{}
	store := &fakeStore{}
	runner := NewRunner(&fakeKeywords{}, search, store, nil)

	report := runner.Run(context.Background())

	if report.Err != nil {
		t.Fatalf("Run() err = %v, want nil", report.Err)
	}
	if report.Outcome() != "empty" {
		t.Errorf("Outcome() = %q, want %q", report.Outcome(), "empty")
	}
	if search.calls != 0 {
		t.Errorf("search calls = %d, want 0", search.calls)
	}
	if store.authCalls != 0 || store.insertCalls != 0 {
		t.Errorf("store calls = %d auth / %d insert, want none", store.authCalls, store.insertCalls)
	}
}

func TestRunTagsResultsPerKeyword(t *testing.T) {
	source := &fakeKeywords{keywords: []models.SearchKeyword{
		keyword(7, "gophers"),
		keyword(9, "ferrets"),
	}}
	search := &fakeSearcher{items: map[string][]models.ResultItem{
		"gophers": {item("g1"), item("g2")},
		"ferrets": {item("f1")},
	}}
	store := &fakeStore{}
	runner := NewRunner(source, search, store, nil)

	report := runner.Run(context.Background())

	if report.Err != nil {
		t.Fatalf("Run() err = %v, want nil", report.Err)
	}
	if report.Inserted != 3 {
		t.Errorf("Inserted = %d, want 3", report.Inserted)
	}
	if report.Outcome() != "ok" {
		t.Errorf("Outcome() = %q, want %q", report.Outcome(), "ok")
	}

	// Batch must preserve keyword iteration order and tag each item with
	// the keyword that produced it.
	want := []struct {
		videoID   string
		keywordID int64
	}{
		{"g1", 7}, {"g2", 7}, {"f1", 9},
	}
	if len(store.inserted) != len(want) {
		t.Fatalf("inserted %d records, want %d", len(store.inserted), len(want))
	}
	for i, w := range want {
		got := store.inserted[i]
		if got.Item.VideoID != w.videoID || got.SearchKeywordID != w.keywordID {
			t.Errorf("batch[%d] = %q/%d, want %q/%d",
				i, got.Item.VideoID, got.SearchKeywordID, w.videoID, w.keywordID)
		}
	}
}

func TestRunSharedStoreAcrossRuns(t *testing.T) {
	source := &fakeKeywords{keywords: []models.SearchKeyword{keyword(1, "gophers")}}
	search := &fakeSearcher{items: map[string][]models.ResultItem{
		"gophers": {item("g1"), item("g2")},
	}}
	store := &fakeStore{}
	runner := NewRunner(source, search, store, nil)

	// A completed run must not tear down the shared store: the next run
	// writes through the same store and must still succeed.
	first := runner.Run(context.Background())
	second := runner.Run(context.Background())

	if first.Err != nil || second.Err != nil {
		t.Fatalf("sequential runs errs = %v, %v, want nil", first.Err, second.Err)
	}
	if first.Inserted != 2 || second.Inserted != 2 {
		t.Errorf("Inserted = %d, %d, want 2 each", first.Inserted, second.Inserted)
	}

	// Overlapping invocations share the store too; neither may lose its
	// batch to the other's lifecycle.
	var wg sync.WaitGroup
	reports := make([]*Report, 2)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i] = runner.Run(context.Background())
		}(i)
	}
	wg.Wait()

	for i, report := range reports {
		if report.Err != nil {
			t.Errorf("concurrent run %d err = %v, want nil", i, report.Err)
		}
		if report.Inserted != 2 {
			t.Errorf("concurrent run %d Inserted = %d, want 2", i, report.Inserted)
		}
	}

	if len(store.inserted) != 8 {
		t.Errorf("store holds %d records, want 8 across 4 runs", len(store.inserted))
	}
}

func TestRunAuthFailurePreventsSearchAndInsert(t *testing.T) {
	source := &fakeKeywords{keywords: []models.SearchKeyword{keyword(1, "gophers")}}
	search := &fakeSearcher{items: map[string][]models.ResultItem{"gophers": {item("g1")}}}
	store := &fakeStore{authErr: errors.New("invalid password")}
	alerts := &fakeAlerter{}
	runner := NewRunner(source, search, store, alerts)

	report := runner.Run(context.Background())

	if !errors.Is(report.Err, ErrAuth) {
		t.Fatalf("Run() err = %v, want ErrAuth", report.Err)
	}
	if report.Outcome() != "auth_error" {
		t.Errorf("Outcome() = %q, want %q", report.Outcome(), "auth_error")
	}
	if search.calls != 0 {
		t.Errorf("search calls = %d, want 0 after auth failure", search.calls)
	}
	if store.insertCalls != 0 {
		t.Errorf("insert calls = %d, want 0 after auth failure", store.insertCalls)
	}
	if alerts.calls != 1 || !errors.Is(alerts.err, ErrAuth) {
		t.Errorf("alerter calls = %d err = %v, want 1 call with ErrAuth", alerts.calls, alerts.err)
	}
}

func TestRunIsolatesKeywordFailures(t *testing.T) {
	source := &fakeKeywords{keywords: []models.SearchKeyword{
		keyword(1, "gophers"),
		keyword(2, "broken"),
	}}
	search := &fakeSearcher{
		items: map[string][]models.ResultItem{"gophers": {item("g1")}},
		errs:  map[string]error{"broken": errors.New("quota exceeded")},
	}
	store := &fakeStore{}
	runner := NewRunner(source, search, store, nil)

	report := runner.Run(context.Background())

	if report.Err != nil {
		t.Fatalf("Run() err = %v, want nil (keyword failures are isolated)", report.Err)
	}
	if report.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", report.Inserted)
	}
	if len(report.Results) != 2 {
		t.Fatalf("got %d keyword results, want 2", len(report.Results))
	}
	if report.Results[1].Err == nil {
		t.Error("Results[1].Err = nil, want the search error recorded")
	}
	if len(report.Results[1].Items) != 0 {
		t.Error("failed keyword contributed items, want none")
	}
}

func TestRunWriteFailureIsFatal(t *testing.T) {
	source := &fakeKeywords{keywords: []models.SearchKeyword{keyword(1, "gophers")}}
	search := &fakeSearcher{items: map[string][]models.ResultItem{"gophers": {item("g1")}}}
	store := &fakeStore{insertErr: errors.New("permission denied")}
	alerts := &fakeAlerter{}
	runner := NewRunner(source, search, store, alerts)

	report := runner.Run(context.Background())

	if !errors.Is(report.Err, ErrWrite) {
		t.Fatalf("Run() err = %v, want ErrWrite", report.Err)
	}
	if report.Outcome() != "write_error" {
		t.Errorf("Outcome() = %q, want %q", report.Outcome(), "write_error")
	}
	if alerts.calls != 1 {
		t.Errorf("alerter calls = %d, want 1", alerts.calls)
	}
}

func TestRunKeywordQueryFailureIsEmpty(t *testing.T) {
	source := &fakeKeywords{err: errors.New("connection refused")}
	search := &fakeSearcher{}
	store := &fakeStore{}
	runner := NewRunner(source, search, store, nil)

	report := runner.Run(context.Background())

	if report.Err != nil {
		t.Fatalf("Run() err = %v, want nil (fetch failure means nothing to do)", report.Err)
	}
	if report.FetchErr == nil {
		t.Error("FetchErr = nil, want the query failure recorded")
	}
	if report.Outcome() != "empty" {
		t.Errorf("Outcome() = %q, want %q", report.Outcome(), "empty")
	}
	if store.authCalls != 0 {
		t.Errorf("auth calls = %d, want 0", store.authCalls)
	}
}

func TestRunKeepsTruncatedResults(t *testing.T) {
	source := &fakeKeywords{keywords: []models.SearchKeyword{keyword(1, "gophers")}}
	search := &fakeSearcher{
		items:     map[string][]models.ResultItem{"gophers": {item("g1"), item("g2")}},
		truncated: map[string]bool{"gophers": true},
	}
	store := &fakeStore{}
	runner := NewRunner(source, search, store, nil)

	report := runner.Run(context.Background())

	if report.Err != nil {
		t.Fatalf("Run() err = %v, want nil", report.Err)
	}
	if !report.Results[0].Truncated {
		t.Error("Results[0].Truncated = false, want true")
	}
	if report.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2 (truncated partials are kept)", report.Inserted)
	}
}

func TestRunEmptySearchResultsSkipInsert(t *testing.T) {
	source := &fakeKeywords{keywords: []models.SearchKeyword{keyword(1, "gophers")}}
	search := &fakeSearcher{}
	store := &fakeStore{}
	runner := NewRunner(source, search, store, nil)

	report := runner.Run(context.Background())

	if report.Err != nil {
		t.Fatalf("Run() err = %v, want nil", report.Err)
	}
	if store.insertCalls != 0 {
		t.Errorf("insert calls = %d, want 0 for an empty batch", store.insertCalls)
	}
}
