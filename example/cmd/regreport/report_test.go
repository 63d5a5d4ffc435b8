package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/confmetrics/regstats-go/regstats"
)

func Test_RenderReport_WritesHeadlineTableAndFooter(t *testing.T) {
	// setup
	dataset := givenDatasetWithOneSnapshot(t)

	comparisons := []regstats.DayComparison{
		{DayIndex: -4, Previous: 102, HasPrevious: true},
		{DayIndex: -3, Current: 110, Previous: 150, HasCurrent: true, HasPrevious: true},
		{DayIndex: 56, Current: 812, HasCurrent: true},
	}

	builder := &strings.Builder{}

	// act
	err := renderReport(builder, dataset, comparisons)
	output := builder.String()

	// assert
	assert.NoError(t, err)
	assert.Contains(t, output, "610 total regs (12 new, 138 approved, 460 paid).",
		"the status headline should sum the new, approved, and paid counts")
	assert.Contains(t, output, "845 total regs (700 normal, 120 sponsors, 25 supersponsors).")
	assert.Contains(t, output, "DAY")
	assert.Contains(t, output, "Last update 2023-11-30 23:50:12 (UTC).",
		"the footer should truncate the observation timestamp to whole seconds")
	assert.Contains(t, output, "For questions, contact @GermanCoyote.")
}

func Test_RenderReport_MarksDaysMissingFromOneCycle(t *testing.T) {
	// setup
	dataset := givenDatasetWithOneSnapshot(t)

	comparisons := []regstats.DayComparison{
		{DayIndex: -4, Previous: 102, HasPrevious: true},
		{DayIndex: -3, Current: 110, Previous: 150, HasCurrent: true, HasPrevious: true},
		{DayIndex: 56, Current: 812, HasCurrent: true},
	}

	builder := &strings.Builder{}

	// act
	err := renderReport(builder, dataset, comparisons)
	output := builder.String()

	// assert
	assert.NoError(t, err)

	lines := strings.Split(output, "\n")
	assert.Equal(t, []string{"-4", "-", "102"}, tableCells(lines, "-4"),
		"a day missing from the current cycle should show a dash and no delta")
	assert.Equal(t, []string{"-3", "110", "150", "-40"}, tableCells(lines, "-3"))
	assert.Equal(t, []string{"56", "812", "-"}, tableCells(lines, "56"),
		"a day missing from the previous cycle should show a dash and no delta")
}

func Test_RenderReport_WithEmptyDataset_ReportsNoSnapshots(t *testing.T) {
	// setup
	dataset, err := regstats.BuildDataset(regstats.SchemaCurrent, nil, regstats.ValidateTotalsSkip)
	assert.NoError(t, err)

	builder := &strings.Builder{}

	// act
	renderErr := renderReport(builder, dataset, nil)
	output := builder.String()

	// assert
	assert.NoError(t, renderErr)
	assert.Contains(t, output, "No registration snapshots observed.")
	assert.NotContains(t, output, "Last update")
	assert.NotContains(t, output, "DAY")
}

func Test_RenderReport_WithoutComparisons_OmitsTheTable(t *testing.T) {
	// setup
	dataset := givenDatasetWithOneSnapshot(t)

	builder := &strings.Builder{}

	// act
	err := renderReport(builder, dataset, nil)
	output := builder.String()

	// assert
	assert.NoError(t, err)
	assert.NotContains(t, output, "DAY")
	assert.Contains(t, output, "Last update 2023-11-30 23:50:12 (UTC).")
}

func givenDatasetWithOneSnapshot(t *testing.T) regstats.Dataset {
	t.Helper()

	observedAt := time.Date(2023, 11, 30, 23, 50, 12, 345678900, time.UTC)

	row, err := regstats.BuildNormalizedRow(
		observedAt,
		845,
		regstats.StatusCounts{12, 138, 210, 460, 25},
		regstats.SponsorCounts{700, 120, 25},
		regstats.SchemaCurrent,
	)
	assert.NoError(t, err)

	dataset, err := regstats.BuildDataset(regstats.SchemaCurrent, []regstats.NormalizedRow{row}, regstats.ValidateTotalsSkip)
	assert.NoError(t, err)

	return dataset
}

// tableCells returns the whitespace-separated cells of the first table line
// whose first cell equals dayIndex.
func tableCells(lines []string, dayIndex string) []string {
	for _, line := range lines {
		cells := strings.Fields(line)
		if len(cells) > 0 && cells[0] == dayIndex {
			return cells
		}
	}

	return nil
}
