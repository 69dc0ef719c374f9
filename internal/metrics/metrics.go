// Package metrics exposes Prometheus instrumentation for search runs.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	runsTotal        *prometheus.CounterVec
	keywordsSearched prometheus.Counter
	searchPages      prometheus.Counter
	searchErrors     prometheus.Counter
	resultsInserted  prometheus.Counter
	runDuration      prometheus.Histogram
)

// Init registers all collectors. Must be called once at startup; the
// Record helpers are no-ops before that, which keeps unit tests of
// callers free of registry state.
func Init() {
	initOnce.Do(func() {
		runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tubesearch_runs_total",
			Help: "Search runs by outcome",
		}, []string{"outcome"})

		keywordsSearched = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tubesearch_keywords_searched_total",
			Help: "Keywords searched successfully",
		})

		searchPages = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tubesearch_search_pages_total",
			Help: "Result pages fetched from the search API",
		})

		searchErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tubesearch_search_errors_total",
			Help: "Per-keyword search failures",
		})

		resultsInserted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tubesearch_results_inserted_total",
			Help: "Result rows written to the store",
		})

		runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tubesearch_run_duration_seconds",
			Help:    "Wall time of a full search run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		})

		prometheus.MustRegister(runsTotal, keywordsSearched, searchPages, searchErrors, resultsInserted, runDuration)
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRun records a completed run.
func RecordRun(outcome string, d time.Duration) {
	if runsTotal == nil {
		return
	}
	runsTotal.WithLabelValues(outcome).Inc()
	runDuration.Observe(d.Seconds())
}

// RecordKeywordSearched counts one successfully searched keyword.
func RecordKeywordSearched() {
	if keywordsSearched == nil {
		return
	}
	keywordsSearched.Inc()
}

// RecordSearchPage counts one fetched result page.
func RecordSearchPage() {
	if searchPages == nil {
		return
	}
	searchPages.Inc()
}

// RecordSearchError counts one failed keyword search.
func RecordSearchError() {
	if searchErrors == nil {
		return
	}
	searchErrors.Inc()
}

// RecordInserted counts rows written by a run.
func RecordInserted(n int64) {
	if resultsInserted == nil {
		return
	}
	resultsInserted.Add(float64(n))
}
