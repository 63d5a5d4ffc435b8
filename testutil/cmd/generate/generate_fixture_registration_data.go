package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/confmetrics/regstats-go/regstats"
	"github.com/confmetrics/regstats-go/regstats/csvengine"
	"github.com/confmetrics/regstats-go/regstats/logengine"
)

const (
	// NumSnapshotDays - Number of registration days to simulate for the snapshot log - adapt as needed.
	//
	// The simulated stats poller produces roughly 144 rows per day at the default cadence,
	// so a full cycle stays in the single-digit MB range and generates in a few seconds.
	NumSnapshotDays = 60

	// SnapshotInterval is the cadence of the simulated stats poller.
	// Production polls every ten minutes; the generator adds a little drift on top.
	SnapshotInterval = 10 * time.Minute

	// NumLegacyDays - Number of daywise records to generate for the legacy cycle - adapt as needed.
	NumLegacyDays = 75

	// WriteLogFileEnabled determines whether the snapshot log fixture is written.
	WriteLogFileEnabled = true

	// WriteCSVFileEnabled determines whether the legacy daywise CSV fixture is written.
	WriteCSVFileEnabled = true

	OutputDir     = "testutil/fixtures"  // The directory to put the fixture data into - should be fine as is.
	OutputLogFile = "registrations.log"  // The snapshot log file, one JSON document per line.
	OutputCSVFile = "daywise_legacy.csv" // The legacy daywise CSV file.

	// snapshotTimeLayout matches the zone-less UTC timestamps the stats bot writes,
	// with up to seven fractional digits.
	snapshotTimeLayout = "2006-01-02T15:04:05.9999999"
)

// snapshotDocument matches the wire format of one snapshot log line.
// PollID and Birthdays are extra fields that the loaders discard.
type snapshotDocument struct {
	CurrentDateTimeUtc string         `json:"CurrentDateTimeUtc"`
	TotalCount         int            `json:"TotalCount"`
	Status             map[string]int `json:"Status"`
	Sponsor            map[string]int `json:"Sponsor"`
	PollID             string         `json:"PollID"`
	Birthdays          map[string]int `json:"Birthdays"`
}

type Writers struct {
	logFile   *os.File
	csvFile   *os.File
	csvWriter *csv.Writer
	rowCount  int
}

func main() {
	if err := GenerateFixtureData(); err != nil {
		panic(fmt.Sprintf("Error generating fixture data: %v\n", err))
	}

	if err := VerifyFixtureData(); err != nil {
		panic(fmt.Sprintf("Error verifying fixture data: %v\n", err))
	}
}

func GenerateFixtureData() error {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	outputDir := filepath.Join(projectRoot, OutputDir)

	// Create the output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	writers, err := setupWriters(outputDir)
	if err != nil {
		return err
	}
	defer closeWriters(writers)

	// The cycle opens well before the convention; exact dates do not matter
	// for the fixtures, only the spacing between rows does.
	fakeClock := time.Date(2023, 10, 2, 8, 0, 0, 0, time.UTC)

	if err := generateSnapshotLog(writers, &fakeClock); err != nil {
		return err
	}

	snapshotRows := writers.rowCount

	if err := generateLegacyDaywise(writers); err != nil {
		return err
	}

	if WriteLogFileEnabled {
		fmt.Printf("Successfully generated %d snapshot rows and wrote them to %s\n",
			snapshotRows, filepath.Join(outputDir, OutputLogFile))
	}
	if WriteCSVFileEnabled {
		fmt.Printf("Successfully generated %d daywise records and wrote them to %s\n",
			writers.rowCount-snapshotRows, filepath.Join(outputDir, OutputCSVFile))
	}

	return nil
}

// VerifyFixtureData loads the generated files back through the real loaders,
// with the totals check forced on, so a broken generator cannot silently
// produce fixtures that fail in tests later.
func VerifyFixtureData() error {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	outputDir := filepath.Join(projectRoot, OutputDir)
	ctx := context.Background()

	if WriteLogFileEnabled {
		loader, err := logengine.NewLoaderFromFile(
			filepath.Join(outputDir, OutputLogFile),
			regstats.SchemaCurrent,
			logengine.WithTotalsValidation(regstats.ValidateTotalsStrict))
		if err != nil {
			return fmt.Errorf("failed to create snapshot log loader: %w", err)
		}

		dataset, err := loader.Load(ctx)
		if err != nil {
			return fmt.Errorf("generated snapshot log does not load: %w", err)
		}

		fmt.Printf("Verified snapshot log fixture: %d rows load cleanly\n", dataset.Len())
	}

	if WriteCSVFileEnabled {
		loader, err := csvengine.NewLoaderFromFile(filepath.Join(outputDir, OutputCSVFile))
		if err != nil {
			return fmt.Errorf("failed to create legacy daywise loader: %w", err)
		}

		records, err := loader.Load(ctx, 0)
		if err != nil {
			return fmt.Errorf("generated legacy daywise file does not load: %w", err)
		}

		fmt.Printf("Verified legacy daywise fixture: %d records load cleanly\n", len(records))
	}

	return nil
}

func setupWriters(outputDir string) (*Writers, error) {
	writers := &Writers{}

	if WriteLogFileEnabled {
		logPath := filepath.Join(outputDir, OutputLogFile)
		logFile, err := os.Create(logPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create snapshot log file: %w", err)
		}
		writers.logFile = logFile
	}

	if WriteCSVFileEnabled {
		csvPath := filepath.Join(outputDir, OutputCSVFile)
		csvFile, err := os.Create(csvPath)
		if err != nil {
			if writers.logFile != nil {
				_ = writers.logFile.Close() // makes no sense to handle this
			}
			return nil, fmt.Errorf("failed to create CSV file: %w", err)
		}

		writers.csvFile = csvFile
		writers.csvWriter = csv.NewWriter(csvFile)
	}

	return writers, nil
}

func closeWriters(writers *Writers) {
	if writers.csvWriter != nil {
		writers.csvWriter.Flush()
	}
	if writers.csvFile != nil {
		_ = writers.csvFile.Close()
	}
	if writers.logFile != nil {
		_ = writers.logFile.Close()
	}
}

// cycleState tracks one registration cycle. The total is never stored, it is
// always the sum of the status counts, which keeps every generated row
// consistent by construction.
type cycleState struct {
	newCount      int
	approved      int
	partiallyPaid int
	paid          int
	checkedIn     int

	normal       int
	sponsor      int
	supersponsor int
}

func (s *cycleState) total() int {
	return s.newCount + s.approved + s.partiallyPaid + s.paid + s.checkedIn
}

func (s *cycleState) statusMap() map[string]int {
	return map[string]int{
		"new":            s.newCount,
		"approved":       s.approved,
		"partially paid": s.partiallyPaid,
		"paid":           s.paid,
		"checked_in":     s.checkedIn,
	}
}

func (s *cycleState) sponsorMap() map[string]int {
	return map[string]int{
		"normal":       s.normal,
		"sponsor":      s.sponsor,
		"supersponsor": s.supersponsor,
	}
}

// tick advances the simulated cycle by one poll interval: a few registrations
// arrive, approvals and payments trail behind, and once check-in opens the
// paid crowd starts showing up at the convention.
func (s *cycleState) tick(checkInOpen bool) {
	arrivals := rand.Intn(4)
	for i := 0; i < arrivals; i++ {
		s.newCount++

		switch tier := rand.Intn(100); {
		case tier < 90:
			s.normal++
		case tier < 98:
			s.sponsor++
		default:
			s.supersponsor++
		}
	}

	if s.newCount > 0 && rand.Intn(100) < 70 {
		s.newCount--
		s.approved++
	}

	if s.approved > 0 && rand.Intn(100) < 15 {
		s.approved--
		s.partiallyPaid++
	}

	if s.approved > 0 && rand.Intn(100) < 35 {
		s.approved--
		s.paid++
	}

	if s.partiallyPaid > 0 && rand.Intn(100) < 30 {
		s.partiallyPaid--
		s.paid++
	}

	if checkInOpen {
		for i := 0; i < 5 && s.paid > 0; i++ {
			if rand.Intn(100) < 60 {
				s.paid--
				s.checkedIn++
			}
		}
	}
}

func generateSnapshotLog(writers *Writers, fakeClock *time.Time) error {
	if !WriteLogFileEnabled {
		return nil
	}

	state := &cycleState{}
	cycleEnd := fakeClock.AddDate(0, 0, NumSnapshotDays)
	checkInStart := cycleEnd.AddDate(0, 0, -2)

	for fakeClock.Before(cycleEnd) {
		state.tick(fakeClock.After(checkInStart))

		pollID, _ := uuid.NewV7()

		document := snapshotDocument{
			CurrentDateTimeUtc: fakeClock.Format(snapshotTimeLayout),
			TotalCount:         state.total(),
			Status:             state.statusMap(),
			Sponsor:            state.sponsorMap(),
			PollID:             pollID.String(),
			Birthdays:          generateRandomBirthdays(),
		}

		if err := writeSnapshotLine(writers, document); err != nil {
			return err
		}

		// the poller cadence drifts a little in production
		drift := time.Duration(rand.Intn(30000))*time.Millisecond + time.Duration(rand.Intn(1000000))*time.Nanosecond
		*fakeClock = fakeClock.Add(SnapshotInterval + drift)
	}

	return nil
}

func writeSnapshotLine(writers *Writers, document snapshotDocument) error {
	line, err := jsoniter.ConfigFastest.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot document: %w", err)
	}

	line = append(line, '\n')

	if _, err := writers.logFile.Write(line); err != nil {
		return fmt.Errorf("failed to write snapshot line: %w", err)
	}

	writers.rowCount++
	return nil
}

func generateRandomBirthdays() map[string]int {
	birthdays := make(map[string]int)
	for year := 1960 + rand.Intn(20); year < 2005; year += 1 + rand.Intn(10) {
		birthdays[strconv.Itoa(year)] = rand.Intn(25) + 1
	}

	return birthdays
}

func generateLegacyDaywise(writers *Writers) error {
	if !WriteCSVFileEnabled {
		return nil
	}

	header := []string{"idx", "date", "total", "unapproved", "approved", "partially_paid", "paid"}
	if err := writers.csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// The old pipeline stamped each record with the reporting day at midnight,
	// one day after the counts were observed.
	reportDate := time.Date(2019, 10, 2, 0, 0, 0, 0, time.UTC)

	var unapproved, approved, partiallyPaid, paid int

	for idx := 0; idx < NumLegacyDays; idx++ {
		unapproved += rand.Intn(20) + 2

		approvedToday := (unapproved * (50 + rand.Intn(30))) / 100
		unapproved -= approvedToday
		approved += approvedToday

		paidToday := (approved * (20 + rand.Intn(30))) / 100
		approved -= paidToday
		paid += paidToday

		partialToday := (approved * rand.Intn(15)) / 100
		approved -= partialToday
		partiallyPaid += partialToday

		settledToday := (partiallyPaid * rand.Intn(40)) / 100
		partiallyPaid -= settledToday
		paid += settledToday

		total := unapproved + approved + partiallyPaid + paid

		record := []string{
			strconv.Itoa(idx),
			reportDate.Format("2006-01-02 15:04:05"),
			strconv.Itoa(total),
			strconv.Itoa(unapproved),
			strconv.Itoa(approved),
			strconv.Itoa(partiallyPaid),
			strconv.Itoa(paid),
		}

		if err := writers.csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}

		writers.rowCount++
		reportDate = reportDate.AddDate(0, 0, 1)
	}

	return nil
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the root directory
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (no go.mod found)")
}
