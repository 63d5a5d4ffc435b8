package testdoubles

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler implementation that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy
// Switchable to log to stdout, which can be useful for debugging tests by seeing the actual log output.
func NewLogHandlerSpy(logToStdOut bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdOut,
	}
}

// Handle implements slog.Handler interface.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)

	// Optionally also log to stdout for debugging
	if s.logToStdout {
		jsonHandler := slog.NewJSONHandler(os.Stdout, nil)
		_ = jsonHandler.Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler interface.
func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true // Always enabled for testing
}

// WithAttrs implements slog.Handler interface.
func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	// For testing, we don't need to implement this
	return s
}

// WithGroup implements slog.Handler interface.
func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	// For testing, we don't need to implement this
	return s
}

// GetRecordCount returns the number of captured log records.
func (s *LogHandlerSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// GetRecords returns a copy of all captured log records.
func (s *LogHandlerSpy) GetRecords() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]slog.Record, len(s.records))
	copy(records, s.records)

	return records
}

// Reset clears all captured log records.
func (s *LogHandlerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}

// HasErrorLog checks if there's an error-level log record containing the specified message.
func (s *LogHandlerSpy) HasErrorLog(message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.Level == slog.LevelError && record.Message == message {
			return true
		}
	}

	return false
}

// SpyLogRecordMatcher provides a fluent interface for checking log record attributes.
type SpyLogRecordMatcher struct {
	handler *LogHandlerSpy
	record  *slog.Record
	found   bool
}

// HasInfoLogWithMessage starts a fluent chain to check an info-level log record.
func (s *LogHandlerSpy) HasInfoLogWithMessage(message string) *SpyLogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level == slog.LevelInfo && record.Message == message {
			return &SpyLogRecordMatcher{
				handler: s,
				record:  &record,
				found:   true,
			}
		}
	}

	return &SpyLogRecordMatcher{handler: s, found: false}
}

// HasErrorLogWithMessage starts a fluent chain to check an error-level log record.
func (s *LogHandlerSpy) HasErrorLogWithMessage(message string) *SpyLogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level == slog.LevelError && record.Message == message {
			return &SpyLogRecordMatcher{
				handler: s,
				record:  &record,
				found:   true,
			}
		}
	}

	return &SpyLogRecordMatcher{handler: s, found: false}
}

// WithDurationMS checks if the log record has a duration_ms attribute with a non-negative value.
func (m *SpyLogRecordMatcher) WithDurationMS() *SpyLogRecordMatcher {
	if !m.found {
		return m
	}

	hasDurationMS := false
	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "duration_ms" {
			// Handle both Int64 and Float64 values for duration
			switch attr.Value.Kind() {
			case slog.KindInt64:
				if attr.Value.Int64() >= 0 {
					hasDurationMS = true
					return false // Stop iteration
				}

			case slog.KindFloat64:
				if attr.Value.Float64() >= 0 {
					hasDurationMS = true
					return false // Stop iteration
				}

			default:
				// Other types are not supported for duration
			}
		}

		return true // Continue iteration
	})

	if !hasDurationMS {
		m.found = false
	}

	return m
}

// WithRowCount checks if the log record has a row_count attribute with a non-negative value.
func (m *SpyLogRecordMatcher) WithRowCount() *SpyLogRecordMatcher {
	if !m.found {
		return m
	}

	hasRowCount := false
	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "row_count" && attr.Value.Int64() >= 0 {
			hasRowCount = true
			return false // Stop iteration
		}

		return true // Continue iteration
	})

	if !hasRowCount {
		m.found = false
	}

	return m
}

// WithSource checks if the log record has a source attribute with the specified value.
func (m *SpyLogRecordMatcher) WithSource(source string) *SpyLogRecordMatcher {
	if !m.found {
		return m
	}

	hasSource := false
	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "source" && attr.Value.String() == source {
			hasSource = true
			return false // Stop iteration
		}

		return true // Continue iteration
	})

	if !hasSource {
		m.found = false
	}

	return m
}

// WithSchemaVersion checks if the log record has a schema_version attribute with the specified value.
func (m *SpyLogRecordMatcher) WithSchemaVersion(version string) *SpyLogRecordMatcher {
	if !m.found {
		return m
	}

	hasSchemaVersion := false
	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "schema_version" && attr.Value.String() == version {
			hasSchemaVersion = true
			return false // Stop iteration
		}

		return true // Continue iteration
	})

	if !hasSchemaVersion {
		m.found = false
	}

	return m
}

// WithLine checks if the log record has a line attribute with the specified value.
func (m *SpyLogRecordMatcher) WithLine(line int) *SpyLogRecordMatcher {
	if !m.found {
		return m
	}

	hasLine := false
	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "line" && attr.Value.Int64() == int64(line) {
			hasLine = true
			return false // Stop iteration
		}

		return true // Continue iteration
	})

	if !hasLine {
		m.found = false
	}

	return m
}

// WithRecord checks if the log record has a record attribute with the specified value.
func (m *SpyLogRecordMatcher) WithRecord(record int) *SpyLogRecordMatcher {
	if !m.found {
		return m
	}

	hasRecord := false
	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "record" && attr.Value.Int64() == int64(record) {
			hasRecord = true
			return false // Stop iteration
		}

		return true // Continue iteration
	})

	if !hasRecord {
		m.found = false
	}

	return m
}

// WithIndexCorrection checks if the log record has an index_correction attribute with the specified value.
// Index corrections can be negative, so the value is matched exactly.
func (m *SpyLogRecordMatcher) WithIndexCorrection(correction int) *SpyLogRecordMatcher {
	if !m.found {
		return m
	}

	hasIndexCorrection := false
	m.record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "index_correction" && attr.Value.Int64() == int64(correction) {
			hasIndexCorrection = true
			return false // Stop iteration
		}

		return true // Continue iteration
	})

	if !hasIndexCorrection {
		m.found = false
	}

	return m
}

// Assert returns true if all conditions in the fluent chain were met.
func (m *SpyLogRecordMatcher) Assert() bool {
	return m.found
}
