package logengine

import (
	"github.com/confmetrics/regstats-go/regstats"
)

// Interface aliases for convenience when configuring loader observability.
// These match the regstats observability interfaces for consistency.

// Logger interface for load logging, warnings, and error reporting.
type Logger = regstats.Logger

// MetricsCollector interface for collecting loader performance and operational metrics.
type MetricsCollector = regstats.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = regstats.ContextualMetricsCollector

// SpanContext represents an active tracing span.
type SpanContext = regstats.SpanContext

// TracingCollector interface for distributed tracing of load operations.
type TracingCollector = regstats.TracingCollector

// ContextualLogger interface for context-aware logging with automatic trace correlation.
type ContextualLogger = regstats.ContextualLogger

// Option defines a functional option for configuring a Loader.
type Option func(*Loader) error

// WithLogger sets the logger for the Loader.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Info level: Row counts and durations of completed loads (production-safe)
// Warn level: Non-critical issues like source close failures
// Error level: Input and consistency failures that abort the load.
func WithLogger(logger Logger) Option {
	return func(l *Loader) error {
		l.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Loader.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
// When both loggers are configured, the contextual logger takes precedence.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(l *Loader) error {
		l.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Loader.
// The metrics collector will receive performance and operational metrics including
// load durations, row counts, and input errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(l *Loader) error {
		l.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Loader.
// The tracing collector will receive distributed tracing information including
// span creation for load operations, context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(l *Loader) error {
		l.tracingCollector = collector
		return nil
	}
}

// WithTotalsValidation overrides the totals validation the Loader applies
// when building the dataset, replacing the schema version's historical
// default.
func WithTotalsValidation(validation regstats.TotalsValidation) Option {
	return func(l *Loader) error {
		if validation != regstats.ValidateTotalsStrict && validation != regstats.ValidateTotalsSkip {
			return regstats.ErrUnknownTotalsValidation
		}

		l.validation = validation

		return nil
	}
}
