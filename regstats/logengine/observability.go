package logengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/confmetrics/regstats-go/regstats"
)

// logOperation logs operational information at info level, preferring the
// contextual logger for trace correlation when both loggers are configured.
func (l Loader) logOperation(ctx context.Context, message string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.InfoContext(ctx, message, args...)
	} else if l.logger != nil {
		l.logger.Info(message, args...)
	}
}

// logWarn logs non-critical issues at warn level.
func (l Loader) logWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if l.contextualLogger != nil {
		l.contextualLogger.WarnContext(ctx, message, allArgs...)
	} else if l.logger != nil {
		l.logger.Warn(message, allArgs...)
	}
}

// logError logs error information at error level.
func (l Loader) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if l.contextualLogger != nil {
		l.contextualLogger.ErrorContext(ctx, message, allArgs...)
	} else if l.logger != nil {
		l.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (l Loader) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	status string,
) {
	if l.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operationLoad,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := l.metricsCollector.(regstats.ContextualMetricsCollector); ok {
			contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		} else {
			l.metricsCollector.RecordDuration(metricName, duration, labels)
		}
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (l Loader) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	status string,
) {
	if l.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operationLoad,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := l.metricsCollector.(regstats.ContextualMetricsCollector); ok {
			contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		} else {
			l.metricsCollector.RecordValue(metricName, value, labels)
		}
	}
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (l Loader) recordErrorMetricsContext(ctx context.Context, errorType string) {
	if l.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operationLoad,
			"status":          statusError,
			spanAttrErrorType: errorType,
		}

		// Use context-aware method if available
		if contextualCollector, ok := l.metricsCollector.(regstats.ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, metricLoadErrors, labels)
		} else {
			l.metricsCollector.IncrementCounter(metricLoadErrors, labels)
		}
	}
}

// === Tracing Observer Pattern ===
// The observer simplifies tracing span management by encapsulating lifecycle complexity.

// loadTracingObserver encapsulates tracing span lifecycle management for load operations.
type loadTracingObserver struct {
	loader Loader
	span   SpanContext
}

// startLoadTracing creates a new tracing observer for load operations.
func (l Loader) startLoadTracing(ctx context.Context) (*loadTracingObserver, context.Context) {
	newCtx, span := l.startLoadSpan(ctx)

	return &loadTracingObserver{
		loader: l,
		span:   span,
	}, newCtx
}

// startLoadSpan starts a tracing span if the tracing collector is configured.
func (l Loader) startLoadSpan(ctx context.Context) (context.Context, SpanContext) {
	if l.tracingCollector == nil {
		return ctx, nil
	}

	spanAttrs := map[string]string{
		spanAttrOperation:     operationLoad,
		spanAttrSource:        l.sourceName,
		spanAttrSchemaVersion: l.version.String(),
	}

	return l.tracingCollector.StartSpan(ctx, spanNameLoad, spanAttrs)
}

// finishSuccess completes the load tracing span for successful operations.
func (lto *loadTracingObserver) finishSuccess(rowCount int, duration time.Duration) {
	if lto.span == nil {
		return
	}

	lto.span.SetStatus(statusSuccess)
	lto.span.AddAttribute(spanAttrRowCount, fmt.Sprintf("%d", rowCount))
	lto.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))

	lto.loader.tracingCollector.FinishSpan(lto.span, statusSuccess, map[string]string{
		spanAttrRowCount: fmt.Sprintf("%d", rowCount),
	})
}

// finishError completes the load tracing span with error details.
func (lto *loadTracingObserver) finishError(errorType string, duration time.Duration) {
	if lto.span == nil {
		return
	}

	lto.span.SetStatus(statusError)
	lto.span.AddAttribute(spanAttrErrorType, errorType)

	if duration > 0 {
		lto.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
	}

	lto.loader.tracingCollector.FinishSpan(lto.span, statusError, map[string]string{
		spanAttrErrorType: errorType,
	})
}

// === Metrics Observer Pattern ===
// The observer simplifies the metrics collection by encapsulating recording complexity.

// loadMetricsObserver encapsulates the metrics collection for load operations.
type loadMetricsObserver struct {
	loader Loader
	ctx    context.Context
}

// startLoadMetrics creates a new metrics observer for load operations.
func (l Loader) startLoadMetrics(ctx context.Context) *loadMetricsObserver {
	return &loadMetricsObserver{
		loader: l,
		ctx:    ctx,
	}
}

// recordSuccess records all metrics for a successful load operation.
func (lmo *loadMetricsObserver) recordSuccess(rowCount int, duration time.Duration) {
	lmo.loader.recordDurationMetricsContext(lmo.ctx, metricLoadDuration, duration, statusSuccess)
	lmo.loader.recordValueMetricsContext(lmo.ctx, metricRowsLoaded, float64(rowCount), statusSuccess)
}

// recordError records all metrics for a failed load operation.
func (lmo *loadMetricsObserver) recordError(errorType string, duration time.Duration) {
	lmo.loader.recordDurationMetricsContext(lmo.ctx, metricLoadDuration, duration, statusError)
	lmo.loader.recordErrorMetricsContext(lmo.ctx, errorType)
}
