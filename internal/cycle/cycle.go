// Package cycle computes the user's rolling billing period. A cycle is a
// monthly window anchored to a configured day-of-month rather than the
// calendar month, with inclusive boundaries on both ends.
package cycle

import (
	"time"

	"github.com/thucvanminh/mywallet/internal/model"
)

// Cycle is the date window containing "now" for a given billing start day.
// Start is normalized to 00:00:00.000 and End to 23:59:59.999 of its day.
// It is derived on every read and never persisted.
type Cycle struct {
	Start time.Time
	End   time.Time
}

// Compute returns the billing cycle containing now for the given start day.
//
// When now's day-of-month is on or after startDay the cycle runs from startDay
// of the current month to the day before startDay of the next month; otherwise
// it runs from startDay of the previous month to the day before startDay of
// the current month. Out-of-range day values (startDay 31 in a 30-day month)
// overflow into the following month via time.Date normalization; they are
// never clamped.
//
// Behavior for startDay outside 1-31 is undefined; the profile layer rejects
// such values before they reach here.
func Compute(now time.Time, startDay int) Cycle {
	if startDay == 0 {
		startDay = model.DefaultBillingStartDay
	}

	year, month, day := now.Date()
	loc := now.Location()

	start := time.Date(year, month, startDay, 0, 0, 0, 0, loc)
	end := endOfDay(year, month+1, startDay-1, loc)

	if day < startDay {
		start = time.Date(year, month-1, startDay, 0, 0, 0, 0, loc)
		end = endOfDay(year, month, startDay-1, loc)
	}

	return Cycle{Start: start, End: end}
}

func endOfDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), loc)
}

// Contains reports whether t falls inside the cycle. Both boundaries are
// inclusive: a transaction dated exactly at Start or End belongs to the cycle.
func (c Cycle) Contains(t time.Time) bool {
	return !t.Before(c.Start) && !t.After(c.End)
}

// Filter returns the transactions whose economic date falls inside the cycle,
// preserving input order.
func (c Cycle) Filter(txns []model.Transaction) []model.Transaction {
	var in []model.Transaction
	for _, txn := range txns {
		if c.Contains(txn.Date) {
			in = append(in, txn)
		}
	}
	return in
}
