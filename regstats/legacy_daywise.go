package regstats

import (
	"cmp"
	"slices"
	"time"
)

// LegacyDaywiseRecords is an alias type for a slice of LegacyDaywiseRecord
type LegacyDaywiseRecords = []LegacyDaywiseRecord

// LegacyDaywiseRecord is one row of the coarser per-day historical source.
// It carries the status breakdown of its era but no sponsor breakdown and no
// sub-daily timestamps. DayIndex is already on the shared day-offset axis;
// the loader applies the index correction.
type LegacyDaywiseRecord struct {
	DayIndex      int
	Date          time.Time
	TotalCount    int
	Unapproved    int
	Approved      int
	PartiallyPaid int
	Paid          int
}

// DaywiseAggregateFromLegacy converts loaded legacy records into a
// DaywiseAggregate, ordered by day index ascending, so both data eras can be
// compared on one day-offset axis.
func DaywiseAggregateFromLegacy(records LegacyDaywiseRecords) DaywiseAggregate {
	days := make([]DayTotal, 0, len(records))

	for _, record := range records {
		days = append(days, DayTotal{
			DayIndex:   record.DayIndex,
			Date:       record.Date,
			TotalCount: record.TotalCount,
		})
	}

	slices.SortFunc(days, func(a, b DayTotal) int {
		return cmp.Compare(a.DayIndex, b.DayIndex)
	})

	return DaywiseAggregate{
		Days:  days,
		Count: len(days),
	}
}
