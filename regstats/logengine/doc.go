// Package logengine provides the snapshot log implementation of the regstats loading pipeline.
//
// This package reads line-delimited JSON registration snapshots, normalizes
// every record against a schema version, and assembles a validated
// regstats.Dataset, discarding all wire fields the pipeline does not retain.
//
// Key features:
//   - File and io.Reader sources behind one Loader type
//   - Schema-versioned normalization (legacy and current category sets)
//   - Configurable totals validation with historical per-version defaults
//   - Fail-fast parsing: the first malformed line aborts the load
//   - Dual-logger support plus metrics and tracing collectors
//
// Usage examples:
//
//	// Basic usage
//	loader, _ := logengine.NewLoaderFromFile("data/registrations.log", regstats.SchemaCurrent)
//	dataset, err := loader.Load(ctx)
//
//	// With operational logging (production-safe)
//	loader, _ := logengine.NewLoaderFromFile(
//		path,
//		regstats.SchemaCurrent,
//		logengine.WithLogger(opsLogger),
//	)
//
//	// With strict totals validation regardless of the schema default
//	loader, _ := logengine.NewLoaderFromFile(
//		path,
//		regstats.SchemaCurrent,
//		logengine.WithTotalsValidation(regstats.ValidateTotalsStrict),
//	)
package logengine
