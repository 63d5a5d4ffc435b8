// Package csvengine provides the legacy daywise CSV implementation of the regstats loading pipeline.
//
// This package reads the seven-column per-day export of the earlier
// registration era (idx, date, total, unapproved, approved, partially_paid,
// paid), shifts its reporting-day dates back onto observation days, and
// re-indexes the rows onto the shared day-offset axis.
//
// Key features:
//   - File and io.Reader sources behind one Loader type
//   - One-day reporting shift and caller-supplied index correction
//   - Multiple historical date spellings, all interpreted as UTC
//   - Fail-fast parsing: the first malformed record aborts the load
//   - Dual-logger support plus metrics and tracing collectors
//
// Usage examples:
//
//	// Basic usage
//	loader, _ := csvengine.NewLoaderFromFile("data/daywise_legacy.csv")
//	records, err := loader.Load(ctx, indexCorrection)
//
//	// With operational logging (production-safe)
//	loader, _ := csvengine.NewLoaderFromFile(
//		path,
//		csvengine.WithLogger(opsLogger),
//	)
package csvengine
