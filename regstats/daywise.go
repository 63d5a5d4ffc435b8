package regstats

import (
	"cmp"
	"slices"
	"time"
)

// DayTotal represents the last observed total count for one calendar date,
// indexed by its day offset from the registration opening anchor.
type DayTotal struct {
	DayIndex   int
	Date       time.Time
	TotalCount int
}

// DaywiseAggregate represents the one-row-per-day view of a registration
// cycle, ordered by date ascending. It is computed on demand and never
// mutated afterward.
type DaywiseAggregate struct {
	Days  []DayTotal
	Count int
}

// ProjectDaywiseTotals collapses a Dataset's sub-daily samples into one row
// per distinct UTC calendar date, keeping the latest sample's total count per
// date. This is a pure function with no side effects.
//
// Each resulting day is assigned an integer index: its ordinal position among
// the distinct dates present (starting at 0) minus anchorOffset, so that two
// cycles anchored on different calendar dates can share one day-offset axis.
// The index may be negative for days before the anchor. Missing days are not
// gap-filled.
func ProjectDaywiseTotals(d Dataset, anchorOffset int) DaywiseAggregate {
	// Track the latest sample per calendar date
	latest := make(map[time.Time]NormalizedRow)

	for _, row := range d.rows {
		date := row.ObservedAt.UTC().Truncate(24 * time.Hour)

		seen, found := latest[date]
		if !found || !row.ObservedAt.Before(seen.ObservedAt) {
			latest[date] = row
		}
	}

	days := make([]DayTotal, 0, len(latest))
	for date, row := range latest {
		days = append(days, DayTotal{
			Date:       date,
			TotalCount: row.TotalCount,
		})
	}

	// Sort by date (oldest first)
	slices.SortFunc(days, func(a, b DayTotal) int {
		return a.Date.Compare(b.Date)
	})

	for i := range days {
		days[i].DayIndex = i - anchorOffset
	}

	return DaywiseAggregate{
		Days:  days,
		Count: len(days),
	}
}

// DayComparison pairs the totals of two registration cycles at the same day
// offset. The Has flags report which cycles observed that day at all.
type DayComparison struct {
	DayIndex    int
	Current     int
	Previous    int
	HasCurrent  bool
	HasPrevious bool
}

// AlignByDayIndex merges two daywise aggregates onto their shared day-offset
// axis, producing one row per day index present in either aggregate, ordered
// by day index ascending. This is a pure function with no side effects.
func AlignByDayIndex(current, previous DaywiseAggregate) []DayComparison {
	byIndex := make(map[int]DayComparison)

	for _, day := range current.Days {
		comparison := byIndex[day.DayIndex]
		comparison.DayIndex = day.DayIndex
		comparison.Current = day.TotalCount
		comparison.HasCurrent = true
		byIndex[day.DayIndex] = comparison
	}

	for _, day := range previous.Days {
		comparison := byIndex[day.DayIndex]
		comparison.DayIndex = day.DayIndex
		comparison.Previous = day.TotalCount
		comparison.HasPrevious = true
		byIndex[day.DayIndex] = comparison
	}

	comparisons := make([]DayComparison, 0, len(byIndex))
	for _, comparison := range byIndex {
		comparisons = append(comparisons, comparison)
	}

	slices.SortFunc(comparisons, func(a, b DayComparison) int {
		return cmp.Compare(a.DayIndex, b.DayIndex)
	})

	return comparisons
}
