package regstats

import (
	"errors"
	"fmt"
	"time"
)

// TotalsValidation defines whether the cross-column totals invariant is
// enforced when a Dataset is built.
type TotalsValidation int

const (
	// ValidateTotalsStrict checks on every row that the status category
	// columns and the sponsor tier columns each sum to the reported total
	// count. This is the core correctness guard against malformed or
	// double-counted upstream records.
	ValidateTotalsStrict TotalsValidation = iota

	// ValidateTotalsSkip builds the Dataset without the cross-column check.
	ValidateTotalsSkip
)

// DefaultTotalsValidation returns the totals validation the given schema
// version's pipeline historically ran with: strict for SchemaLegacy, skipped
// for SchemaCurrent, where the check was dropped when the category set
// changed.
//
// TODO: clarify with the registration team whether dropping the check for
// SchemaCurrent was intentional; callers can override the default either way.
func DefaultTotalsValidation(version SchemaVersion) TotalsValidation {
	if version == SchemaCurrent {
		return ValidateTotalsSkip
	}

	return ValidateTotalsStrict
}

// ValidateTotals checks for every row that the status category columns and
// the sponsor tier columns each sum to the row's total count.
//
// It fails on the first violation with an error wrapping
// ErrConsistencyViolated, citing the row (counted from 1) and the mismatching
// column group.
func ValidateTotals(d Dataset) error {
	for i, row := range d.rows {
		if statusTotal := row.StatusTotal(); statusTotal != row.TotalCount {
			return totalsViolation(i+1, row.ObservedAt, statusColumnName, statusTotal, row.TotalCount)
		}

		if sponsorTotal := row.SponsorTotal(); sponsorTotal != row.TotalCount {
			return totalsViolation(i+1, row.ObservedAt, sponsorColumnName, sponsorTotal, row.TotalCount)
		}
	}

	return nil
}

// String provides a string representation of TotalsValidation for logging and debugging.
func (t TotalsValidation) String() string {
	switch t {
	case ValidateTotalsStrict:
		return "strict"
	case ValidateTotalsSkip:
		return "skip"
	default:
		return "unknown"
	}
}

func totalsViolation(row int, observedAt time.Time, column string, sum, totalCount int) error {
	return errors.Join(
		ErrConsistencyViolated,
		fmt.Errorf("row %d (%s): %s columns sum to %d, total count is %d",
			row, observedAt.Format(time.RFC3339), column, sum, totalCount),
	)
}
