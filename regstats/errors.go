package regstats

import "errors"

var (
	// ErrMalformedInput is returned when a source cannot be read or parsed
	// into the expected record shape.
	ErrMalformedInput = errors.New("input cannot be parsed into the expected shape")

	// ErrConsistencyViolated is returned when a structurally well-formed row
	// fails the cross-column totals invariant.
	ErrConsistencyViolated = errors.New("category counts do not match the reported total")

	// ErrUnknownSchemaVersion is returned when a schema version outside the recognized set is supplied.
	ErrUnknownSchemaVersion = errors.New("schema version is not recognized")

	// ErrUnknownTotalsValidation is returned when a totals validation outside the recognized set is supplied.
	ErrUnknownTotalsValidation = errors.New("totals validation is not recognized")

	// ErrEmptySourcePath is returned when an empty source path is supplied to a loader.
	ErrEmptySourcePath = errors.New("source path must not be empty")

	// ErrNilSourceReader is returned when a nil reader is supplied to a loader.
	ErrNilSourceReader = errors.New("source reader must not be nil")
)

// IsInputError reports whether err is a fatal input error: the source could
// not be read or parsed into the expected shape (malformed records, wrong
// column counts, unparseable timestamps). No partial dataset exists when
// this is true.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// IsConsistencyError reports whether err is a fatal consistency error: a
// structurally well-formed row violated the totals invariant.
func IsConsistencyError(err error) bool {
	return errors.Is(err, ErrConsistencyViolated)
}
