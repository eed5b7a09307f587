// Package forecast implements the generation pipeline: windowing, grouped
// averaging, replace-on-recompute persistence, and the scheduling loop that
// drives them, plus the read-side query service.
package forecast

import (
	"time"

	"salecast/internal/core"
)

// Window is the ephemeral date pair a generation cycle operates on: the
// day being forecast and the start of the historical lookback. Both are
// day-aligned UTC instants. It is recomputed every cycle and never stored.
type Window struct {
	TargetDate   time.Time
	HistoryStart time.Time
}

// ComputeWindow derives the forecast window from the current instant.
//
// The instant is truncated to UTC midnight first, so the result depends
// only on the calendar day: a retry minutes or hours later lands on the
// same target date, which is what makes replacing that date's forecasts
// idempotent. The target is always tomorrow; history reaches back
// lookbackDays whole days from today's midnight.
func ComputeWindow(now time.Time, lookbackDays int) Window {
	today := core.DayTruncate(now)
	return Window{
		TargetDate:   today.AddDate(0, 0, 1),
		HistoryStart: today.AddDate(0, 0, -lookbackDays),
	}
}
