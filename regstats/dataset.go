package regstats

import "slices"

// Dataset is an ordered sequence of NormalizedRow in input order, which is
// assumed to be chronological; no re-sort is performed.
//
// It should only be constructed with BuildDataset. The accessors hand out
// copies, so a Dataset is never mutated after construction.
type Dataset struct {
	version SchemaVersion
	rows    []NormalizedRow
}

// BuildDataset is a factory method for Dataset.
//
// It keeps the rows in input order and, when validation is
// ValidateTotalsStrict, enforces the totals invariant on every row before
// the Dataset is handed out. No partial dataset is returned on failure.
func BuildDataset(version SchemaVersion, rows []NormalizedRow, validation TotalsValidation) (Dataset, error) {
	if version.StatusKeys() == nil {
		return Dataset{}, ErrUnknownSchemaVersion
	}

	dataset := Dataset{
		version: version,
		rows:    slices.Clone(rows),
	}

	switch validation {
	case ValidateTotalsStrict:
		if err := ValidateTotals(dataset); err != nil {
			return Dataset{}, err
		}
	case ValidateTotalsSkip:
		// nothing to enforce
	default:
		return Dataset{}, ErrUnknownTotalsValidation
	}

	return dataset, nil
}

// SchemaVersion returns the schema version the rows were normalized with.
func (d Dataset) SchemaVersion() SchemaVersion {
	return d.version
}

// Rows returns a copy of the rows in input order.
func (d Dataset) Rows() []NormalizedRow {
	return slices.Clone(d.rows)
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.rows)
}

// Last returns the latest row, which summary reporting is built from, and
// false if the dataset is empty.
func (d Dataset) Last() (NormalizedRow, bool) {
	if len(d.rows) == 0 {
		return NormalizedRow{}, false
	}

	return d.rows[len(d.rows)-1], true
}
