package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/confmetrics/regstats-go/regstats"
	"github.com/confmetrics/regstats-go/regstats/csvengine"
	"github.com/confmetrics/regstats-go/regstats/logengine"
)

const (
	defaultSnapshotLogPath = "testutil/fixtures/registrations.log"
	defaultLegacyCSVPath   = "testutil/fixtures/daywise_legacy.csv"
	defaultSchemaName      = "current"

	// anchorOffset re-anchors the current cycle's day ordinals so that day
	// zero is the registration opening: the stats poller went live three
	// days before the opening, so the first observed date sits at -3.
	anchorOffset = 3

	// legacyIndexCorrection shifts the previous cycle's index column onto
	// the shared day-offset axis: that export's first row was written four
	// days before its opening, so its index zero sits at -4.
	legacyIndexCorrection = -4
)

type Config struct {
	SnapshotLogPath      string
	LegacyCSVPath        string
	SchemaVersion        regstats.SchemaVersion
	ObservabilityEnabled bool
}

func main() {
	cfg := parseFlags()

	ctx := context.Background()

	// Initialize observability (if enabled)
	var logOptions []logengine.Option
	var csvOptions []csvengine.Option
	var providers *ObservabilityProviders

	if cfg.ObservabilityEnabled {
		obsConfig, obsProviders, err := cfg.NewObservabilityConfig()
		if err != nil {
			log.Fatalf("Failed to create observability providers: %v", err)
		}
		providers = obsProviders

		if obsConfig.Logger != nil {
			logOptions = append(logOptions, logengine.WithLogger(obsConfig.Logger))
			csvOptions = append(csvOptions, csvengine.WithLogger(obsConfig.Logger))
		}
		if obsConfig.ContextualLogger != nil {
			logOptions = append(logOptions, logengine.WithContextualLogger(obsConfig.ContextualLogger))
			csvOptions = append(csvOptions, csvengine.WithContextualLogger(obsConfig.ContextualLogger))
		}
		if obsConfig.MetricsCollector != nil {
			logOptions = append(logOptions, logengine.WithMetrics(obsConfig.MetricsCollector))
			csvOptions = append(csvOptions, csvengine.WithMetrics(obsConfig.MetricsCollector))
		}
		if obsConfig.TracingCollector != nil {
			logOptions = append(logOptions, logengine.WithTracing(obsConfig.TracingCollector))
			csvOptions = append(csvOptions, csvengine.WithTracing(obsConfig.TracingCollector))
		}
		log.Printf("Observability enabled: metrics=%v, tracing=%v, logging=%v",
			obsConfig.MetricsCollector != nil,
			obsConfig.TracingCollector != nil,
			obsConfig.Logger != nil || obsConfig.ContextualLogger != nil)
	}

	snapshotLoader, err := logengine.NewLoaderFromFile(cfg.SnapshotLogPath, cfg.SchemaVersion, logOptions...)
	if err != nil {
		log.Fatalf("Failed to create snapshot log loader: %v", err)
	}

	dataset, err := snapshotLoader.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load snapshot log: %v", err)
	}

	legacyLoader, err := csvengine.NewLoaderFromFile(cfg.LegacyCSVPath, csvOptions...)
	if err != nil {
		log.Fatalf("Failed to create legacy daywise loader: %v", err)
	}

	legacyRecords, err := legacyLoader.Load(ctx, legacyIndexCorrection)
	if err != nil {
		log.Fatalf("Failed to load legacy daywise export: %v", err)
	}

	current := regstats.ProjectDaywiseTotals(dataset, anchorOffset)
	previous := regstats.DaywiseAggregateFromLegacy(legacyRecords)
	comparisons := regstats.AlignByDayIndex(current, previous)

	if err := renderReport(os.Stdout, dataset, comparisons); err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}

	if providers != nil {
		if err := providers.Shutdown(); err != nil {
			log.Printf("Error during observability shutdown: %v", err)
		}
	}
}

func parseFlags() Config {
	var (
		snapshotLog   = flag.String("snapshot-log", defaultSnapshotLogPath, "Path to the registration snapshot log")
		legacyCSV     = flag.String("legacy-csv", defaultLegacyCSVPath, "Path to the previous cycle's daywise CSV export")
		schemaName    = flag.String("schema", defaultSchemaName, "Snapshot log schema version (current or legacy)")
		observability = flag.Bool("observability-enabled", false, "Enable OpenTelemetry observability")
	)

	flag.Parse()

	version, err := parseSchemaVersion(*schemaName)
	if err != nil {
		log.Fatalf("Invalid schema '%s': %v", *schemaName, err)
	}

	return Config{
		SnapshotLogPath:      *snapshotLog,
		LegacyCSVPath:        *legacyCSV,
		SchemaVersion:        version,
		ObservabilityEnabled: *observability,
	}
}

func parseSchemaVersion(name string) (regstats.SchemaVersion, error) {
	switch name {
	case "current":
		return regstats.SchemaCurrent, nil
	case "legacy":
		return regstats.SchemaLegacy, nil
	default:
		return 0, errors.New("expected current or legacy")
	}
}
