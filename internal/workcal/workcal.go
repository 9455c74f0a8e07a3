// Package workcal decides which calendar days count as working days. A working
// day is any weekday that is not covered by an active holiday. Everything here
// is a pure function of the dates handed in; callers load the holiday set from
// storage and build a Resolver per query range.
package workcal

import "time"

const dayKeyLayout = "2006-01-02"

// Holiday is the slice of holiday state the resolver needs. Recurring holidays
// repeat on the same month and day every year.
type Holiday struct {
	Date      time.Time
	Recurring bool
}

// Resolver answers exclusion queries for dates inside the range it was built
// for. Recurring holidays are projected onto every year the range touches, so
// a holiday stored as 2024-12-25 also excludes 2025-12-25 when the query range
// reaches into 2025.
type Resolver struct {
	excluded map[string]struct{}
}

func NewResolver(from, to time.Time, holidays []Holiday) *Resolver {
	excluded := make(map[string]struct{})
	if to.Before(from) {
		return &Resolver{excluded: excluded}
	}

	for _, h := range holidays {
		if !h.Recurring {
			excluded[h.Date.Format(dayKeyLayout)] = struct{}{}
			continue
		}
		for year := from.Year(); year <= to.Year(); year++ {
			projected := time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
			// Feb 29 normalizes to Mar 1 in non-leap years; skip those.
			if projected.Month() != h.Date.Month() {
				continue
			}
			excluded[projected.Format(dayKeyLayout)] = struct{}{}
		}
	}
	return &Resolver{excluded: excluded}
}

// IsExcluded reports whether d does not count as a working day. Saturdays and
// Sundays are always excluded.
func (r *Resolver) IsExcluded(d time.Time) bool {
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		return true
	}
	_, ok := r.excluded[d.Format(dayKeyLayout)]
	return ok
}

// CountWorkingDays counts the working days in [from, to] inclusive. An
// inverted range yields 0 rather than an error, matching how submission
// validation treats it upstream.
func (r *Resolver) CountWorkingDays(from, to time.Time) int {
	if from.After(to) {
		return 0
	}

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !r.IsExcluded(d) {
			count++
		}
	}
	return count
}
