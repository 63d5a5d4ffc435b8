package regstats

import (
	"errors"
	"fmt"
	"time"
)

const (
	statusColumnName  = "Status"
	sponsorColumnName = "Sponsor"
)

// NormalizedRow is one RawSnapshot expanded into a flat record with one named
// numeric column per recognized status category and sponsor tier.
//
// For SchemaLegacy rows CheckedIn is always 0; the category did not exist yet.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildNormalizedRow
//   - NormalizeSnapshot
type NormalizedRow struct {
	ObservedAt    time.Time
	TotalCount    int
	New           int
	Approved      int
	PartiallyPaid int
	Paid          int
	CheckedIn     int
	Normal        int
	Sponsor       int
	Supersponsor  int
}

// BuildNormalizedRow is a factory method for NormalizedRow.
//
// It expands the fixed-order status and sponsor counts into named columns.
// Returns an error wrapping ErrMalformedInput naming the offending column if
// either tuple's length does not match the schema; this guards against silent
// schema drift between the normalizer and the expansion.
func BuildNormalizedRow(
	observedAt time.Time,
	totalCount int,
	status StatusCounts,
	sponsor SponsorCounts,
	version SchemaVersion,
) (NormalizedRow, error) {

	statusKeys := version.StatusKeys()
	if statusKeys == nil {
		return NormalizedRow{}, ErrUnknownSchemaVersion
	}

	if len(status) != len(statusKeys) {
		return NormalizedRow{}, columnArityViolation(statusColumnName, len(statusKeys), len(status))
	}

	if len(sponsor) != len(sponsorTierKeys) {
		return NormalizedRow{}, columnArityViolation(sponsorColumnName, len(sponsorTierKeys), len(sponsor))
	}

	row := NormalizedRow{
		ObservedAt:    observedAt,
		TotalCount:    totalCount,
		New:           status[0],
		Approved:      status[1],
		PartiallyPaid: status[2],
		Paid:          status[3],
		Normal:        sponsor[0],
		Sponsor:       sponsor[1],
		Supersponsor:  sponsor[2],
	}

	if version == SchemaCurrent {
		row.CheckedIn = status[4]
	}

	return row, nil
}

// NormalizeSnapshot expands one RawSnapshot into a NormalizedRow for the given schema version.
func NormalizeSnapshot(snapshot RawSnapshot, version SchemaVersion) (NormalizedRow, error) {
	return BuildNormalizedRow(
		snapshot.ObservedAt,
		snapshot.TotalCount,
		NormalizeStatus(snapshot.Status, version),
		NormalizeSponsor(snapshot.Sponsor),
		version,
	)
}

// StatusTotal sums the status category columns of the row.
func (r NormalizedRow) StatusTotal() int {
	return r.New + r.Approved + r.PartiallyPaid + r.Paid + r.CheckedIn
}

// SponsorTotal sums the sponsor tier columns of the row.
func (r NormalizedRow) SponsorTotal() int {
	return r.Normal + r.Sponsor + r.Supersponsor
}

func columnArityViolation(column string, want, got int) error {
	return errors.Join(
		ErrMalformedInput,
		fmt.Errorf("malformed entry in column %s: expected %d counts, got %d", column, want, got),
	)
}
