// Package window computes the one-hour search window for a run.
package window

import "time"

// Window is the half-open time range [After, Before) that a run searches.
type Window struct {
	After  time.Time `json:"after"`
	Before time.Time `json:"before"`
}

// Compute returns the previous full hour relative to now: Before is now
// truncated to the top of the hour, After is one hour earlier.
//
// Truncation uses wall-clock calendar fields in now's location rather than
// epoch arithmetic, so across a DST transition the boundary follows the
// local clock. Callers pick the policy by picking now's location; main
// passes time.Now(), so the host timezone governs.
func Compute(now time.Time) Window {
	before := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	return Window{
		After:  before.Add(-time.Hour),
		Before: before,
	}
}
