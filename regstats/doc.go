// Package regstats provides the core data-reshaping and validation logic
// for event-registration reporting.
//
// This package turns heterogeneous, semi-structured registration snapshots
// into a clean tabular dataset fit for charting, including normalization of
// sparse category breakdowns, cross-column consistency checks, and
// day-bucketing across registration cycles recorded at different
// granularities.
//
// The pipeline supports two data eras:
//   - Snapshot logs: sub-daily, line-delimited JSON records with status and
//     sponsor breakdowns (loaded by the logengine package)
//   - Legacy daywise files: one-row-per-day CSV records without sponsor
//     breakdowns (loaded by the csvengine package)
//
// Key types:
//   - RawSnapshot: one ingested record before normalization
//   - NormalizedRow: one record expanded into named numeric columns
//   - Dataset: an ordered, validated sequence of NormalizedRow
//   - DaywiseAggregate: one row per calendar day on a day-offset axis
//
// Common usage pattern:
//
//	loader, err := logengine.NewLoaderFromFile("data/regs.jsonl", regstats.SchemaCurrent)
//	if err != nil {
//		// handle error
//	}
//
//	dataset, err := loader.Load(ctx)
//	if err != nil {
//		// handle error
//	}
//
//	daywise := regstats.ProjectDaywiseTotals(dataset, anchorOffset)
package regstats
