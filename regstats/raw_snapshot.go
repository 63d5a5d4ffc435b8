package regstats

import (
	"errors"
	"time"
)

var ErrZeroObservationTime = errors.New("observation time must not be zero")

// StatusBreakdown is an alias type for a mapping from status category name to count
type StatusBreakdown = map[string]int

// SponsorBreakdown is an alias type for a mapping from sponsor tier name to count
type SponsorBreakdown = map[string]int

// RawSnapshots is an alias type for a slice of RawSnapshot
type RawSnapshots = []RawSnapshot

// RawSnapshot is a DTO (data transfer object) holding one ingested
// registration snapshot as the log source reported it, before normalization.
//
// It is built on scalars and plain maps to be completely agnostic of the log
// source's wire format.
//
// While its properties are exported, it should only be constructed with the supplied factory method:
//   - BuildRawSnapshot
type RawSnapshot struct {
	ObservedAt time.Time
	TotalCount int
	Status     StatusBreakdown
	Sponsor    SponsorBreakdown
}

// BuildRawSnapshot is a factory method for RawSnapshot.
//
// It populates the RawSnapshot with the given scalar input.
// Returns an error if observedAt is the zero time.
// Sparse or nil breakdowns are a normal, expected case; absent categories
// default to zero during normalization.
func BuildRawSnapshot(
	observedAt time.Time,
	totalCount int,
	status StatusBreakdown,
	sponsor SponsorBreakdown,
) (RawSnapshot, error) {
	if observedAt.IsZero() {
		return RawSnapshot{}, ErrZeroObservationTime
	}

	return RawSnapshot{
		ObservedAt: observedAt,
		TotalCount: totalCount,
		Status:     status,
		Sponsor:    sponsor,
	}, nil
}
