package utils

import "time"

// SlotWindow is a half-open [Start, End) time range.
type SlotWindow struct {
	Start time.Time
	End   time.Time
}

// Duration returns the window length.
func (w SlotWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// SplitSlot computes the residual availability left over when consumed is
// booked out of original. A gap-sized buffer is required on each side of the
// consumed range, and residuals shorter than minDuration are dropped:
//
//	before: [original.Start, consumed.Start - gap)
//	after:  [consumed.End + gap, original.End)
//
// Returns zero, one, or two windows. Pure arithmetic; persisting the
// residuals is the caller's job.
func SplitSlot(original, consumed SlotWindow, gap, minDuration time.Duration) []SlotWindow {
	var residuals []SlotWindow

	before := SlotWindow{Start: original.Start, End: consumed.Start.Add(-gap)}
	if before.Duration() >= minDuration {
		residuals = append(residuals, before)
	}

	after := SlotWindow{Start: consumed.End.Add(gap), End: original.End}
	if after.Duration() >= minDuration {
		residuals = append(residuals, after)
	}

	return residuals
}
