package regstats

import "slices"

// SchemaVersion selects which status categories are recognized during
// normalization and which totals validation a pipeline historically ran with.
type SchemaVersion int

const (
	// SchemaLegacy recognizes the four status categories of the first
	// recorded registration cycle.
	SchemaLegacy SchemaVersion = iota

	// SchemaCurrent recognizes the five status categories in use since
	// check-in tracking was added. The partially-paid category was renamed
	// from "partially_paid" to "partially paid" in the same change.
	SchemaCurrent
)

var (
	legacyStatusKeys  = []string{"new", "approved", "partially_paid", "paid"}
	currentStatusKeys = []string{"new", "approved", "partially paid", "paid", "checked_in"}
	sponsorTierKeys   = []string{"normal", "sponsor", "supersponsor"}
)

// StatusKeys returns the recognized status category names for this schema
// version in fixed output order, or nil for an unrecognized version.
func (v SchemaVersion) StatusKeys() []string {
	switch v {
	case SchemaLegacy:
		return slices.Clone(legacyStatusKeys)
	case SchemaCurrent:
		return slices.Clone(currentStatusKeys)
	default:
		return nil
	}
}

// SponsorKeys returns the recognized sponsor tier names in fixed output order.
// The sponsor schema is the same for every schema version.
func SponsorKeys() []string {
	return slices.Clone(sponsorTierKeys)
}

// String provides a string representation of SchemaVersion for logging and debugging.
func (v SchemaVersion) String() string {
	switch v {
	case SchemaLegacy:
		return "legacy"
	case SchemaCurrent:
		return "current"
	default:
		return "unknown"
	}
}
