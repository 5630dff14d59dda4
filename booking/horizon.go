/*
horizon.go - The fixed booking window

PURPOSE:
  The ledger tracks a fixed number of days anchored at a reference date.
  Day index d maps to the calendar date reference + d days, so index 1 is
  the first bookable day and the reference date itself is index 0 (the day
  before the window opens).

  The horizon is a pure value object injected into the engine at startup.
  There is deliberately no package-level horizon constant; two engines in
  the same process may track different windows.

SEE ALSO:
  - ledger.go: Rows are always exactly LengthDays cells
  - validate.go: Date checks against the horizon
*/
package booking

import "time"

// Horizon is the calendar window the ledger covers: LengthDays days
// following the Reference date. LengthDays must be positive.
type Horizon struct {
	Reference  time.Time
	LengthDays int
}

// NewHorizon builds a horizon anchored at the given date, normalized to
// UTC midnight.
func NewHorizon(reference time.Time, lengthDays int) Horizon {
	return Horizon{Reference: midnightUTC(reference), LengthDays: lengthDays}
}

// Index returns the day index of a calendar date: the number of whole days
// between the reference date and the given date. Index 1 is the first day
// inside the horizon; values <= 0 or > LengthDays are outside it.
func (h Horizon) Index(date time.Time) int {
	return daysBetween(h.Reference, date)
}

// Date is the inverse of Index.
func (h Horizon) Date(index int) time.Time {
	return h.Reference.AddDate(0, 0, index)
}

// Contains reports whether the date falls on a tracked day.
func (h Horizon) Contains(date time.Time) bool {
	i := h.Index(date)
	return i >= 1 && i <= h.LengthDays
}

// clampIndex confines a day index to the tracked range [1, LengthDays].
func (h Horizon) clampIndex(i int) int {
	if i < 1 {
		return 1
	}
	if i > h.LengthDays {
		return h.LengthDays
	}
	return i
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(midnightUTC(to).Sub(midnightUTC(from)).Hours() / 24)
}
