// Package testdoubles provides test doubles (spies) for observability interfaces.
//
// This package contains spy implementations for the observability
// interfaces used by the regstats loaders:
//   - MetricsCollectorSpy: captures metrics recording calls for verification
//   - ContextualMetricsCollectorSpy: captures context-aware metrics recording calls
//   - TracingCollectorSpy: captures distributed tracing spans and events
//   - ContextualLoggerSpy: captures structured logging with context
//   - LogHandlerSpy: captures slog handler calls and attributes
//
// These test doubles enable comprehensive testing of observability instrumentation
// without requiring actual telemetry backends.
package testdoubles
