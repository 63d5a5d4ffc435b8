package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/confmetrics/regstats-go/regstats"
	"github.com/confmetrics/regstats-go/regstats/oteladapters"
)

// ObservabilityProviders holds the OpenTelemetry providers for a report run.
type ObservabilityProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Resource       *resource.Resource
}

// NewObservabilityProviders creates OpenTelemetry providers identifying this
// command and registers them globally. No exporter is attached here; attach
// one to the providers when a telemetry backend is available.
func NewObservabilityProviders() (*ObservabilityProviders, error) {
	ctx := context.Background()

	// Create a resource for identifying this service
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("regreport"),
			semconv.ServiceVersionKey.String("dev"),
		),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithResource(res),
	)

	meterProvider := metric.NewMeterProvider(
		metric.WithResource(res),
	)

	// Set global providers for OpenTelemetry
	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &ObservabilityProviders{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Resource:       res,
	}, nil
}

// Shutdown gracefully shuts down the OpenTelemetry providers.
func (p *ObservabilityProviders) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	if shutdownErr := p.TracerProvider.Shutdown(ctx); shutdownErr != nil {
		err = shutdownErr
	}

	if shutdownErr := p.MeterProvider.Shutdown(ctx); shutdownErr != nil {
		if err != nil {
			log.Printf("Multiple shutdown errors occurred. First: %v, Second: %v", err, shutdownErr)
		}
		err = shutdownErr
	}

	return err
}

// ObservabilityConfig holds the observability adapters for the loaders.
type ObservabilityConfig struct {
	Logger           regstats.Logger
	ContextualLogger regstats.ContextualLogger
	MetricsCollector regstats.MetricsCollector
	TracingCollector regstats.TracingCollector
}

func (c Config) NewObservabilityConfig() (ObservabilityConfig, *ObservabilityProviders, error) {
	providers, err := NewObservabilityProviders()
	if err != nil {
		return ObservabilityConfig{}, nil, err
	}

	// Create real OpenTelemetry adapters on the global providers
	tracer := otel.Tracer("regreport")
	meter := otel.Meter("regreport")

	metricsCollector := oteladapters.NewMetricsCollector(meter)
	tracingCollector := oteladapters.NewTracingCollector(tracer)

	// The slog bridge writes through a stderr JSON handler so that load
	// telemetry from a short-lived run stays visible on the terminal.
	contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	return ObservabilityConfig{
		Logger:           nil, // Using contextual logger instead
		ContextualLogger: contextualLogger,
		MetricsCollector: metricsCollector,
		TracingCollector: tracingCollector,
	}, providers, nil
}
