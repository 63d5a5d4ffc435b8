package logengine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/confmetrics/regstats-go/regstats"
)

const (
	defaultReaderSourceName = "reader"
	naiveTimestampLayout    = "2006-01-02T15:04:05.999999999"

	logMsgOpenSourceFailed     = "failed to open snapshot log source"
	logMsgCloseSourceFailed    = "failed to close snapshot log source"
	logMsgReadSourceFailed     = "failed to read from snapshot log source"
	logMsgDecodeLineFailed     = "failed to decode snapshot log line"
	logMsgParseTimestampFailed = "failed to parse observation timestamp"
	logMsgBuildRowFailed       = "failed to normalize snapshot log line into a row"
	logMsgBuildDatasetFailed   = "failed to build dataset from snapshot rows"
	logMsgLoadCompleted        = "snapshot log load completed"

	logAttrError         = "error"
	logAttrSource        = "source"
	logAttrLine          = "line"
	logAttrSchemaVersion = "schema_version"
	logAttrRowCount      = "row_count"
	logAttrDurationMS    = "duration_ms"

	metricLoadDuration = "snapshotloader_load_duration_seconds"
	metricRowsLoaded   = "snapshotloader_rows_loaded_total"
	metricLoadErrors   = "snapshotloader_load_errors_total"

	spanNameLoad          = "snapshotloader.load"
	spanAttrOperation     = "operation"
	spanAttrSource        = "source"
	spanAttrSchemaVersion = "schema_version"
	spanAttrErrorType     = "error_type"
	spanAttrRowCount      = "row_count"
	spanAttrDurationMS    = "duration_ms"

	operationLoad = "load"
	statusSuccess = "success"
	statusError   = "error"

	errorTypeOpenSource     = "open_source"
	errorTypeReadSource     = "read_source"
	errorTypeDecodeLine     = "decode_line"
	errorTypeParseTimestamp = "parse_timestamp"
	errorTypeBuildRow       = "build_row"
	errorTypeValidateTotals = "validate_totals"
	errorTypeBuildDataset   = "build_dataset"
)

// snapshotDocument is the wire shape of one snapshot log line. Only the four
// fields the pipeline retains are mapped; every other field in the source is
// discarded by the decoder.
type snapshotDocument struct {
	CurrentDateTimeUtc string         `json:"CurrentDateTimeUtc"`
	TotalCount         int            `json:"TotalCount"`
	Status             map[string]int `json:"Status"`
	Sponsor            map[string]int `json:"Sponsor"`
}

// loadFailure carries a load error together with its error type for metrics
// and tracing.
type loadFailure struct {
	errorType string
	err       error
}

// Loader reads timestamped registration snapshots from a line-delimited JSON
// source and assembles them into a validated regstats.Dataset. It supports
// customizable logging, metrics, tracing, and totals validation.
type Loader struct {
	path             string
	reader           io.Reader
	sourceName       string
	version          regstats.SchemaVersion
	validation       regstats.TotalsValidation
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewLoaderFromFile creates a Loader that reads the snapshot log file at path
// with optional configuration. The file is opened on each Load call.
//
// Totals validation defaults to the schema version's historical behavior,
// see regstats.DefaultTotalsValidation.
func NewLoaderFromFile(path string, version regstats.SchemaVersion, options ...Option) (Loader, error) {
	if path == "" {
		return Loader{}, regstats.ErrEmptySourcePath
	}

	loader := Loader{
		path:       path,
		sourceName: path,
		version:    version,
		validation: regstats.DefaultTotalsValidation(version),
	}

	return applyOptions(loader, options)
}

// NewLoaderFromReader creates a Loader that reads a snapshot log from the
// given reader with optional configuration. The sourceName is used in
// diagnostics and observability output. A reader-backed Loader is single-use:
// the reader is consumed by the first Load call.
//
// Totals validation defaults to the schema version's historical behavior,
// see regstats.DefaultTotalsValidation.
func NewLoaderFromReader(reader io.Reader, sourceName string, version regstats.SchemaVersion, options ...Option) (Loader, error) {
	if reader == nil {
		return Loader{}, regstats.ErrNilSourceReader
	}

	if sourceName == "" {
		sourceName = defaultReaderSourceName
	}

	loader := Loader{
		reader:     reader,
		sourceName: sourceName,
		version:    version,
		validation: regstats.DefaultTotalsValidation(version),
	}

	return applyOptions(loader, options)
}

func applyOptions(loader Loader, options []Option) (Loader, error) {
	if loader.version.StatusKeys() == nil {
		return Loader{}, regstats.ErrUnknownSchemaVersion
	}

	for _, option := range options {
		if err := option(&loader); err != nil {
			return Loader{}, err
		}
	}

	return loader, nil
}

// Load reads the whole source, normalizes every record, and returns the
// assembled regstats.Dataset.
//
// Any read, parse, or consistency failure is fatal: Load returns the error
// and no partial dataset. Input errors wrap regstats.ErrMalformedInput and
// name the source and line; consistency errors wrap
// regstats.ErrConsistencyViolated.
func (l Loader) Load(ctx context.Context) (regstats.Dataset, error) {
	var empty regstats.Dataset

	tracing, ctx := l.startLoadTracing(ctx)
	metrics := l.startLoadMetrics(ctx)
	start := time.Now()

	source, file, openErr := l.openSource()
	if openErr != nil {
		l.logError(ctx, logMsgOpenSourceFailed, openErr, logAttrSource, l.sourceName)
		metrics.recordError(errorTypeOpenSource, time.Since(start))
		tracing.finishError(errorTypeOpenSource, time.Since(start))

		return empty, errors.Join(regstats.ErrMalformedInput, openErr)
	}

	if file != nil {
		defer l.closeSource(ctx, file)
	}

	rows, failure := l.readRows(ctx, source)
	if failure != nil {
		metrics.recordError(failure.errorType, time.Since(start))
		tracing.finishError(failure.errorType, time.Since(start))

		return empty, failure.err
	}

	dataset, buildErr := regstats.BuildDataset(l.version, rows, l.validation)
	if buildErr != nil {
		l.logError(ctx, logMsgBuildDatasetFailed, buildErr, logAttrSource, l.sourceName)

		errorType := errorTypeBuildDataset
		if regstats.IsConsistencyError(buildErr) {
			errorType = errorTypeValidateTotals
		}
		metrics.recordError(errorType, time.Since(start))
		tracing.finishError(errorType, time.Since(start))

		return empty, buildErr
	}

	duration := time.Since(start)

	l.logOperation(
		ctx,
		logMsgLoadCompleted,
		logAttrSource, l.sourceName,
		logAttrSchemaVersion, l.version.String(),
		logAttrRowCount, dataset.Len(),
		logAttrDurationMS, toMilliseconds(duration))

	metrics.recordSuccess(dataset.Len(), duration)
	tracing.finishSuccess(dataset.Len(), duration)

	return dataset, nil
}

// openSource returns the reader to scan and, for file-backed loaders, the
// open file so the caller can close it.
func (l Loader) openSource() (io.Reader, *os.File, error) {
	if l.reader != nil {
		return l.reader, nil, nil
	}

	file, openErr := os.Open(l.path)
	if openErr != nil {
		return nil, nil, openErr
	}

	return file, file, nil
}

// closeSource safely closes the source file and logs any errors.
func (l Loader) closeSource(ctx context.Context, file *os.File) {
	if closeErr := file.Close(); closeErr != nil {
		l.logWarn(ctx, logMsgCloseSourceFailed, closeErr, logAttrSource, l.sourceName)
	}
}

// readRows scans the source line by line and normalizes each record.
// Whitespace-only lines are ignored; every other malformed line aborts the
// load with no row-level recovery.
func (l Loader) readRows(ctx context.Context, source io.Reader) ([]regstats.NormalizedRow, *loadFailure) {
	rows := make([]regstats.NormalizedRow, 0)
	scanner := bufio.NewScanner(source)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++

		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		row, failure := l.parseLine(ctx, line, lineNumber)
		if failure != nil {
			return nil, failure
		}

		rows = append(rows, row)
	}

	if scanErr := scanner.Err(); scanErr != nil {
		l.logError(ctx, logMsgReadSourceFailed, scanErr, logAttrSource, l.sourceName)

		return nil, &loadFailure{
			errorType: errorTypeReadSource,
			err:       errors.Join(regstats.ErrMalformedInput, scanErr),
		}
	}

	return rows, nil
}

// parseLine decodes one snapshot log line and normalizes it into a row.
func (l Loader) parseLine(ctx context.Context, line []byte, lineNumber int) (regstats.NormalizedRow, *loadFailure) {
	var empty regstats.NormalizedRow

	document := snapshotDocument{}
	if decodeErr := jsoniter.ConfigFastest.Unmarshal(line, &document); decodeErr != nil {
		l.logError(ctx, logMsgDecodeLineFailed, decodeErr, logAttrSource, l.sourceName, logAttrLine, lineNumber)

		return empty, l.lineFailure(errorTypeDecodeLine, lineNumber, decodeErr)
	}

	observedAt, parseErr := parseObservedAt(document.CurrentDateTimeUtc)
	if parseErr != nil {
		l.logError(ctx, logMsgParseTimestampFailed, parseErr, logAttrSource, l.sourceName, logAttrLine, lineNumber)

		return empty, l.lineFailure(errorTypeParseTimestamp, lineNumber, parseErr)
	}

	snapshot, buildErr := regstats.BuildRawSnapshot(observedAt, document.TotalCount, document.Status, document.Sponsor)
	if buildErr != nil {
		l.logError(ctx, logMsgBuildRowFailed, buildErr, logAttrSource, l.sourceName, logAttrLine, lineNumber)

		return empty, l.lineFailure(errorTypeBuildRow, lineNumber, buildErr)
	}

	row, normalizeErr := regstats.NormalizeSnapshot(snapshot, l.version)
	if normalizeErr != nil {
		l.logError(ctx, logMsgBuildRowFailed, normalizeErr, logAttrSource, l.sourceName, logAttrLine, lineNumber)

		return empty, l.lineFailure(errorTypeBuildRow, lineNumber, normalizeErr)
	}

	return row, nil
}

// lineFailure wraps a line-scoped cause into the fatal input error for this source.
func (l Loader) lineFailure(errorType string, lineNumber int, cause error) *loadFailure {
	return &loadFailure{
		errorType: errorType,
		err: errors.Join(
			regstats.ErrMalformedInput,
			fmt.Errorf("%s line %d: %w", l.sourceName, lineNumber, cause),
		),
	}
}

// parseObservedAt parses the observation timestamp, accepting RFC 3339 values
// and zone-less values which are interpreted as UTC.
func parseObservedAt(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}

	if parsed, err := time.ParseInLocation(naiveTimestampLayout, value, time.UTC); err == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("unsupported observation timestamp format: %q", value)
}
