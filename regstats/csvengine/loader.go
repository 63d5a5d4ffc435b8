package csvengine

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/confmetrics/regstats-go/regstats"
)

const (
	defaultReaderSourceName = "reader"
	legacyColumnCount       = 7

	logMsgOpenSourceFailed  = "failed to open legacy daywise source"
	logMsgCloseSourceFailed = "failed to close legacy daywise source"
	logMsgMissingHeader     = "legacy daywise source has no header record"
	logMsgReadRecordFailed  = "failed to read legacy daywise record"
	logMsgParseFieldFailed  = "failed to parse legacy daywise field"
	logMsgParseDateFailed   = "failed to parse legacy daywise date"
	logMsgLoadCompleted     = "legacy daywise load completed"

	logAttrError           = "error"
	logAttrSource          = "source"
	logAttrRecord          = "record"
	logAttrRowCount        = "row_count"
	logAttrIndexCorrection = "index_correction"
	logAttrDurationMS      = "duration_ms"

	metricLoadDuration = "legacyloader_load_duration_seconds"
	metricRowsLoaded   = "legacyloader_rows_loaded_total"
	metricLoadErrors   = "legacyloader_load_errors_total"

	spanNameLoad            = "legacyloader.load"
	spanAttrOperation       = "operation"
	spanAttrSource          = "source"
	spanAttrIndexCorrection = "index_correction"
	spanAttrErrorType       = "error_type"
	spanAttrRowCount        = "row_count"
	spanAttrDurationMS      = "duration_ms"

	operationLoad = "load"
	statusSuccess = "success"
	statusError   = "error"

	errorTypeOpenSource = "open_source"
	errorTypeReadRecord = "read_record"
	errorTypeParseField = "parse_field"
	errorTypeParseDate  = "parse_date"

	colIdx           = "idx"
	colDate          = "date"
	colTotal         = "total"
	colUnapproved    = "unapproved"
	colApproved      = "approved"
	colPartiallyPaid = "partially_paid"
	colPaid          = "paid"
)

// legacyDateLayouts are the date spellings observed in legacy daywise files,
// tried in order. Zone-less values are interpreted as UTC.
var legacyDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// loadFailure carries a load error together with its error type for metrics
// and tracing.
type loadFailure struct {
	errorType string
	err       error
}

// Loader reads an already-daily historical registration source with the fixed
// column order idx, date, total, unapproved, approved, partially_paid, paid.
// The first record is treated as a header and discarded; the canonical column
// order is assumed regardless of the header's spelling.
//
// Legacy dates name the reporting day, one day after the observation day, so
// each date is truncated to its date portion and shifted back by one day.
// The idx column is adjusted by the index correction passed to Load so the
// records land on the same day-offset axis as the current cycle's daywise
// aggregate.
type Loader struct {
	path             string
	reader           io.Reader
	sourceName       string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewLoaderFromFile creates a Loader that reads the legacy daywise CSV file
// at path with optional configuration. The file is opened on each Load call.
func NewLoaderFromFile(path string, options ...Option) (Loader, error) {
	if path == "" {
		return Loader{}, regstats.ErrEmptySourcePath
	}

	loader := Loader{
		path:       path,
		sourceName: path,
	}

	return applyOptions(loader, options)
}

// NewLoaderFromReader creates a Loader that reads legacy daywise records from
// the given reader with optional configuration. The sourceName is used in
// diagnostics and observability output. A reader-backed Loader is single-use:
// the reader is consumed by the first Load call.
func NewLoaderFromReader(reader io.Reader, sourceName string, options ...Option) (Loader, error) {
	if reader == nil {
		return Loader{}, regstats.ErrNilSourceReader
	}

	if sourceName == "" {
		sourceName = defaultReaderSourceName
	}

	loader := Loader{
		reader:     reader,
		sourceName: sourceName,
	}

	return applyOptions(loader, options)
}

func applyOptions(loader Loader, options []Option) (Loader, error) {
	for _, option := range options {
		if err := option(&loader); err != nil {
			return Loader{}, err
		}
	}

	return loader, nil
}

// Load reads the whole source and returns the legacy records with dates
// normalized and day indexes shifted by indexCorrection.
//
// Any read or parse failure is fatal: Load returns an error wrapping
// regstats.ErrMalformedInput naming the source and record, and no partial
// result.
func (l Loader) Load(ctx context.Context, indexCorrection int) (regstats.LegacyDaywiseRecords, error) {
	tracing, ctx := l.startLoadTracing(ctx, indexCorrection)
	metrics := l.startLoadMetrics(ctx)
	start := time.Now()

	source, file, openErr := l.openSource()
	if openErr != nil {
		l.logError(ctx, logMsgOpenSourceFailed, openErr, logAttrSource, l.sourceName)
		metrics.recordError(errorTypeOpenSource, time.Since(start))
		tracing.finishError(errorTypeOpenSource, time.Since(start))

		return nil, errors.Join(regstats.ErrMalformedInput, openErr)
	}

	if file != nil {
		defer l.closeSource(ctx, file)
	}

	records, failure := l.readRecords(ctx, source, indexCorrection)
	if failure != nil {
		metrics.recordError(failure.errorType, time.Since(start))
		tracing.finishError(failure.errorType, time.Since(start))

		return nil, failure.err
	}

	duration := time.Since(start)

	l.logOperation(
		ctx,
		logMsgLoadCompleted,
		logAttrSource, l.sourceName,
		logAttrRowCount, len(records),
		logAttrIndexCorrection, indexCorrection,
		logAttrDurationMS, toMilliseconds(duration))

	metrics.recordSuccess(len(records), duration)
	tracing.finishSuccess(len(records), duration)

	return records, nil
}

// openSource returns the reader to parse and, for file-backed loaders, the
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

// readRecords consumes the header, then parses every data record. Records are
// counted from 1 including the header, matching file lines for this format.
func (l Loader) readRecords(ctx context.Context, source io.Reader, indexCorrection int) (regstats.LegacyDaywiseRecords, *loadFailure) {
	csvReader := csv.NewReader(source)
	csvReader.FieldsPerRecord = legacyColumnCount
	csvReader.TrimLeadingSpace = true

	if _, headerErr := csvReader.Read(); headerErr != nil {
		if errors.Is(headerErr, io.EOF) {
			missingHeaderErr := fmt.Errorf("%s: missing header record", l.sourceName)
			l.logError(ctx, logMsgMissingHeader, missingHeaderErr, logAttrSource, l.sourceName)

			return nil, &loadFailure{
				errorType: errorTypeReadRecord,
				err:       errors.Join(regstats.ErrMalformedInput, missingHeaderErr),
			}
		}

		l.logError(ctx, logMsgReadRecordFailed, headerErr, logAttrSource, l.sourceName)

		return nil, &loadFailure{
			errorType: errorTypeReadRecord,
			err:       errors.Join(regstats.ErrMalformedInput, fmt.Errorf("%s: %w", l.sourceName, headerErr)),
		}
	}

	records := make(regstats.LegacyDaywiseRecords, 0)
	recordNumber := 1 // the header record

	for {
		record, readErr := csvReader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		recordNumber++

		if readErr != nil {
			l.logError(ctx, logMsgReadRecordFailed, readErr, logAttrSource, l.sourceName, logAttrRecord, recordNumber)

			// csv parse errors already name the offending line
			return nil, &loadFailure{
				errorType: errorTypeReadRecord,
				err:       errors.Join(regstats.ErrMalformedInput, fmt.Errorf("%s: %w", l.sourceName, readErr)),
			}
		}

		parsed, failure := l.parseRecord(ctx, record, recordNumber, indexCorrection)
		if failure != nil {
			return nil, failure
		}

		records = append(records, parsed)
	}

	return records, nil
}

// parseRecord converts one raw CSV record into a regstats.LegacyDaywiseRecord,
// applying the date normalization and index correction.
func (l Loader) parseRecord(ctx context.Context, record []string, recordNumber int, indexCorrection int) (
	regstats.LegacyDaywiseRecord,
	*loadFailure,
) {

	var empty regstats.LegacyDaywiseRecord
	var idx, total, unapproved, approved, partiallyPaid, paid int

	countColumns := []struct {
		index  int
		column string
		target *int
	}{
		{0, colIdx, &idx},
		{2, colTotal, &total},
		{3, colUnapproved, &unapproved},
		{4, colApproved, &approved},
		{5, colPartiallyPaid, &partiallyPaid},
		{6, colPaid, &paid},
	}

	for _, field := range countColumns {
		parsed, parseErr := strconv.Atoi(strings.TrimSpace(record[field.index]))
		if parseErr != nil {
			cause := fmt.Errorf("column %s: %w", field.column, parseErr)
			l.logError(ctx, logMsgParseFieldFailed, cause, logAttrSource, l.sourceName, logAttrRecord, recordNumber)

			return empty, l.recordFailure(errorTypeParseField, recordNumber, cause)
		}

		*field.target = parsed
	}

	reportedDate, dateErr := parseLegacyDate(record[1])
	if dateErr != nil {
		l.logError(ctx, logMsgParseDateFailed, dateErr, logAttrSource, l.sourceName, logAttrRecord, recordNumber)

		return empty, l.recordFailure(errorTypeParseDate, recordNumber, dateErr)
	}

	return regstats.LegacyDaywiseRecord{
		DayIndex: idx + indexCorrection,
		// legacy dates name the reporting day; shift back to the observation day
		Date:          reportedDate.Truncate(24 * time.Hour).AddDate(0, 0, -1),
		TotalCount:    total,
		Unapproved:    unapproved,
		Approved:      approved,
		PartiallyPaid: partiallyPaid,
		Paid:          paid,
	}, nil
}

// recordFailure wraps a record-scoped cause into the fatal input error for this source.
func (l Loader) recordFailure(errorType string, recordNumber int, cause error) *loadFailure {
	return &loadFailure{
		errorType: errorType,
		err: errors.Join(
			regstats.ErrMalformedInput,
			fmt.Errorf("%s record %d: %w", l.sourceName, recordNumber, cause),
		),
	}
}

// parseLegacyDate parses a legacy date value, accepting the layouts observed
// across historical exports.
func parseLegacyDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)

	for _, layout := range legacyDateLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format in column %s: %q", colDate, value)
}
