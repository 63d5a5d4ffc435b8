package regstats

// StatusCounts is an alias type for the fixed-order status category counts of one record
type StatusCounts = []int

// SponsorCounts is an alias type for the fixed-order sponsor tier counts of one record
type SponsorCounts = []int

// NormalizeStatus maps a status breakdown onto the fixed category order of
// the given schema version, substituting 0 for every recognized category
// absent from the breakdown. Unrecognized keys are ignored.
//
// Missing keys are a normal, expected case, not malformed input, so there are
// no error conditions. The result length equals the number of recognized
// categories; for an unrecognized schema version it is empty.
func NormalizeStatus(breakdown StatusBreakdown, version SchemaVersion) StatusCounts {
	return normalizeCounts(breakdown, version.StatusKeys())
}

// NormalizeSponsor maps a sponsor breakdown onto the fixed tier order of the
// sponsor schema, substituting 0 for every tier absent from the breakdown.
// Unrecognized keys are ignored. The result always has one count per tier.
func NormalizeSponsor(breakdown SponsorBreakdown) SponsorCounts {
	return normalizeCounts(breakdown, SponsorKeys())
}

// normalizeCounts resolves each recognized key against the breakdown in fixed
// order; map access defaults absent keys to zero, nil maps to all zeros.
func normalizeCounts(breakdown map[string]int, keys []string) []int {
	counts := make([]int, 0, len(keys))

	for _, key := range keys {
		counts = append(counts, breakdown[key])
	}

	return counts
}
