package regstats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confmetrics/regstats-go/regstats"
)

func Test_BuildDataset_Success_KeepsRowsInInputOrder(t *testing.T) {
	rows := []regstats.NormalizedRow{
		consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4),
		consistentRow(t, time.Date(2024, time.January, 5, 18, 0, 0, 0, time.UTC), 9),
		consistentRow(t, time.Date(2024, time.January, 6, 12, 0, 0, 0, time.UTC), 12),
	}

	dataset, err := regstats.BuildDataset(regstats.SchemaLegacy, rows, regstats.ValidateTotalsStrict)

	require.NoError(t, err)
	assert.Equal(t, regstats.SchemaLegacy, dataset.SchemaVersion())
	assert.Equal(t, 3, dataset.Len())
	assert.Equal(t, rows, dataset.Rows())
}

func Test_BuildDataset_Success_EmptyRows(t *testing.T) {
	dataset, err := regstats.BuildDataset(regstats.SchemaCurrent, nil, regstats.ValidateTotalsStrict)

	require.NoError(t, err)
	assert.Equal(t, 0, dataset.Len())

	_, ok := dataset.Last()
	assert.False(t, ok)
}

func Test_BuildDataset_StrictValidationRejectsInconsistentRows(t *testing.T) {
	rows := []regstats.NormalizedRow{
		consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4),
		inconsistentSponsorRow(t, time.Date(2024, time.January, 5, 18, 0, 0, 0, time.UTC)),
	}

	dataset, err := regstats.BuildDataset(regstats.SchemaLegacy, rows, regstats.ValidateTotalsStrict)

	assert.ErrorIs(t, err, regstats.ErrConsistencyViolated)
	assert.Equal(t, regstats.Dataset{}, dataset, "no partial dataset may be returned on failure")
}

func Test_BuildDataset_SkipValidationAcceptsInconsistentRows(t *testing.T) {
	rows := []regstats.NormalizedRow{
		inconsistentSponsorRow(t, time.Date(2024, time.January, 5, 18, 0, 0, 0, time.UTC)),
	}

	dataset, err := regstats.BuildDataset(regstats.SchemaLegacy, rows, regstats.ValidateTotalsSkip)

	require.NoError(t, err)
	assert.Equal(t, 1, dataset.Len())
}

func Test_BuildDataset_ErrorWhenVersionIsUnrecognized(t *testing.T) {
	_, err := regstats.BuildDataset(regstats.SchemaVersion(42), nil, regstats.ValidateTotalsStrict)

	assert.ErrorIs(t, err, regstats.ErrUnknownSchemaVersion)
}

func Test_BuildDataset_ErrorWhenValidationIsUnrecognized(t *testing.T) {
	_, err := regstats.BuildDataset(regstats.SchemaLegacy, nil, regstats.TotalsValidation(42))

	assert.ErrorIs(t, err, regstats.ErrUnknownTotalsValidation)
}

func Test_Dataset_RowsHandsOutACopy(t *testing.T) {
	original := consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4)
	dataset, err := regstats.BuildDataset(regstats.SchemaLegacy, []regstats.NormalizedRow{original}, regstats.ValidateTotalsStrict)
	require.NoError(t, err)

	mutated := dataset.Rows()
	mutated[0].TotalCount = 9999

	assert.Equal(t, original, dataset.Rows()[0], "mutating the returned slice must not affect the dataset")
}

func Test_Dataset_BuildDatasetClonesItsInput(t *testing.T) {
	rows := []regstats.NormalizedRow{
		consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4),
	}
	dataset, err := regstats.BuildDataset(regstats.SchemaLegacy, rows, regstats.ValidateTotalsStrict)
	require.NoError(t, err)

	rows[0].TotalCount = 9999

	assert.Equal(t, 4, dataset.Rows()[0].TotalCount, "mutating the input slice must not affect the dataset")
}

func Test_Dataset_LastReturnsTheLatestRow(t *testing.T) {
	rows := []regstats.NormalizedRow{
		consistentRow(t, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), 4),
		consistentRow(t, time.Date(2024, time.January, 6, 12, 0, 0, 0, time.UTC), 12),
	}
	dataset, err := regstats.BuildDataset(regstats.SchemaLegacy, rows, regstats.ValidateTotalsStrict)
	require.NoError(t, err)

	last, ok := dataset.Last()

	assert.True(t, ok)
	assert.Equal(t, 12, last.TotalCount)
}

// consistentRow builds a legacy-schema row whose status and sponsor columns
// both sum to totalCount.
func consistentRow(t *testing.T, observedAt time.Time, totalCount int) regstats.NormalizedRow {
	t.Helper()

	row, err := regstats.BuildNormalizedRow(
		observedAt,
		totalCount,
		regstats.StatusCounts{totalCount, 0, 0, 0},
		regstats.SponsorCounts{totalCount, 0, 0},
		regstats.SchemaLegacy,
	)
	require.NoError(t, err)

	return row
}

// inconsistentSponsorRow builds a row whose status columns sum to the total
// count but whose sponsor columns fall one short.
func inconsistentSponsorRow(t *testing.T, observedAt time.Time) regstats.NormalizedRow {
	t.Helper()

	row, err := regstats.BuildNormalizedRow(
		observedAt,
		10,
		regstats.StatusCounts{10, 0, 0, 0},
		regstats.SponsorCounts{9, 0, 0},
		regstats.SchemaLegacy,
	)
	require.NoError(t, err)

	return row
}
