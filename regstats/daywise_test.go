package regstats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confmetrics/regstats-go/regstats"
)

func Test_ProjectDaywiseTotals_OneRowPerDistinctDate(t *testing.T) {
	dataset := datasetWithoutValidation(t,
		consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4),
		consistentRow(t, time.Date(2024, time.January, 5, 18, 0, 0, 0, time.UTC), 9),
		consistentRow(t, time.Date(2024, time.January, 6, 9, 0, 0, 0, time.UTC), 12),
		consistentRow(t, time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC), 20),
	)

	daywise := regstats.ProjectDaywiseTotals(dataset, 0)

	require.Equal(t, 3, daywise.Count, "four samples across three distinct dates collapse to three rows")
	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), daywise.Days[0].Date)
	assert.Equal(t, time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC), daywise.Days[1].Date)
	assert.Equal(t, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC), daywise.Days[2].Date, "missing days are not gap-filled")
}

func Test_ProjectDaywiseTotals_DayIndexesAreConsecutiveFromZero(t *testing.T) {
	dataset := datasetWithoutValidation(t,
		consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4),
		consistentRow(t, time.Date(2024, time.January, 6, 9, 0, 0, 0, time.UTC), 12),
		consistentRow(t, time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC), 20),
	)

	daywise := regstats.ProjectDaywiseTotals(dataset, 0)

	require.Equal(t, 3, daywise.Count)
	for i, day := range daywise.Days {
		assert.Equal(t, i, day.DayIndex, "indexes increase by 1 even across calendar gaps")
	}
}

func Test_ProjectDaywiseTotals_KeepsTheLatestSamplePerDate(t *testing.T) {
	dataset := datasetWithoutValidation(t,
		consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4),
		consistentRow(t, time.Date(2024, time.January, 5, 18, 0, 0, 0, time.UTC), 9),
	)

	daywise := regstats.ProjectDaywiseTotals(dataset, 0)

	require.Equal(t, 1, daywise.Count)
	assert.Equal(t, 9, daywise.Days[0].TotalCount)
}

func Test_ProjectDaywiseTotals_LatestSampleWinsRegardlessOfInputOrder(t *testing.T) {
	dataset := datasetWithoutValidation(t,
		consistentRow(t, time.Date(2024, time.January, 5, 18, 0, 0, 0, time.UTC), 9),
		consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4),
	)

	daywise := regstats.ProjectDaywiseTotals(dataset, 0)

	require.Equal(t, 1, daywise.Count)
	assert.Equal(t, 9, daywise.Days[0].TotalCount)
}

func Test_ProjectDaywiseTotals_LaterInputWinsOnEqualTimestamps(t *testing.T) {
	observedAt := time.Date(2024, time.January, 5, 18, 0, 0, 0, time.UTC)
	dataset := datasetWithoutValidation(t,
		consistentRow(t, observedAt, 4),
		consistentRow(t, observedAt, 9),
	)

	daywise := regstats.ProjectDaywiseTotals(dataset, 0)

	require.Equal(t, 1, daywise.Count)
	assert.Equal(t, 9, daywise.Days[0].TotalCount)
}

func Test_ProjectDaywiseTotals_AnchorOffsetShiftsTheIndexes(t *testing.T) {
	dataset := datasetWithoutValidation(t,
		consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4),
		consistentRow(t, time.Date(2024, time.January, 6, 9, 0, 0, 0, time.UTC), 12),
		consistentRow(t, time.Date(2024, time.January, 7, 9, 0, 0, 0, time.UTC), 20),
		consistentRow(t, time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC), 22),
	)

	daywise := regstats.ProjectDaywiseTotals(dataset, 3)

	require.Equal(t, 4, daywise.Count)
	assert.Equal(t, -3, daywise.Days[0].DayIndex, "days before the anchor have negative offsets")
	assert.Equal(t, -2, daywise.Days[1].DayIndex)
	assert.Equal(t, -1, daywise.Days[2].DayIndex)
	assert.Equal(t, 0, daywise.Days[3].DayIndex)
}

func Test_ProjectDaywiseTotals_BucketsByUTCDate(t *testing.T) {
	// 23:30+02:00 is 21:30 UTC the same day; 01:30+03:00 is 22:30 UTC the previous day
	dataset := datasetWithoutValidation(t,
		consistentRow(t, time.Date(2024, time.January, 5, 23, 30, 0, 0, time.FixedZone("CEST", 2*3600)), 4),
		consistentRow(t, time.Date(2024, time.January, 6, 1, 30, 0, 0, time.FixedZone("EEST", 3*3600)), 9),
	)

	daywise := regstats.ProjectDaywiseTotals(dataset, 0)

	require.Equal(t, 1, daywise.Count, "both samples land on the same UTC date")
	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), daywise.Days[0].Date)
	assert.Equal(t, 9, daywise.Days[0].TotalCount)
}

func Test_ProjectDaywiseTotals_EmptyDataset(t *testing.T) {
	daywise := regstats.ProjectDaywiseTotals(datasetWithoutValidation(t), 3)

	assert.Equal(t, 0, daywise.Count)
	assert.Empty(t, daywise.Days)
}

func Test_AlignByDayIndex_MergesBothCyclesOnTheSharedAxis(t *testing.T) {
	current := regstats.DaywiseAggregate{
		Days: []regstats.DayTotal{
			{DayIndex: -1, TotalCount: 4},
			{DayIndex: 0, TotalCount: 9},
			{DayIndex: 1, TotalCount: 12},
		},
		Count: 3,
	}
	previous := regstats.DaywiseAggregate{
		Days: []regstats.DayTotal{
			{DayIndex: 0, TotalCount: 7},
			{DayIndex: 1, TotalCount: 11},
			{DayIndex: 2, TotalCount: 15},
		},
		Count: 3,
	}

	comparisons := regstats.AlignByDayIndex(current, previous)

	require.Len(t, comparisons, 4)

	assert.Equal(t, regstats.DayComparison{DayIndex: -1, Current: 4, HasCurrent: true}, comparisons[0])
	assert.Equal(t, regstats.DayComparison{DayIndex: 0, Current: 9, Previous: 7, HasCurrent: true, HasPrevious: true}, comparisons[1])
	assert.Equal(t, regstats.DayComparison{DayIndex: 1, Current: 12, Previous: 11, HasCurrent: true, HasPrevious: true}, comparisons[2])
	assert.Equal(t, regstats.DayComparison{DayIndex: 2, Previous: 15, HasPrevious: true}, comparisons[3])
}

func Test_AlignByDayIndex_EmptyAggregates(t *testing.T) {
	comparisons := regstats.AlignByDayIndex(regstats.DaywiseAggregate{}, regstats.DaywiseAggregate{})

	assert.Empty(t, comparisons)
}
