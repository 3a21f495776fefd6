package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// TurnRecord attributes a TurnMetric to the playout it belongs to,
// the shape WriteTurnRecords writes one row per.
type TurnRecord struct {
	Playout int
	TurnMetric
}

// PlayoutRecord attributes a PlayoutMetric its row id.
type PlayoutRecord struct {
	ID int
	PlayoutMetric
}

// Writer persists metrics as CSV files under a timestamped directory,
// the same layout experiments/metrics.Writer uses for agent configs
// and game/move records.
type Writer struct {
	baseDir string
}

// NewWriter creates baseDir/metrics/<timestamp>/ and returns a Writer
// rooted there.
func NewWriter(baseDir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	dir := filepath.Join(baseDir, "metrics", timestamp)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return &Writer{baseDir: dir}, nil
}

// WritePlayoutRecords writes one row per driven game.
func (w *Writer) WritePlayoutRecords(records []PlayoutRecord) error {
	path := filepath.Join(w.baseDir, "playout_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create playout records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "game", "start_time", "end_time", "duration", "turns", "terminal"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write playout records header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			r.GameID,
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.Duration.String(),
			strconv.Itoa(r.Turns),
			strconv.FormatBool(r.Terminal),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write playout record row: %w", err)
		}
	}
	return nil
}

// WriteTurnRecords writes one row per turn across every playout.
func (w *Writer) WriteTurnRecords(records []TurnRecord) error {
	path := filepath.Join(w.baseDir, "turn_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create turn records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"playout", "turn", "duration", "derivations", "cache_hits"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write turn records header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Playout),
			strconv.Itoa(r.Turn),
			r.Duration.String(),
			strconv.Itoa(r.Derivations),
			strconv.Itoa(r.CacheHits),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write turn record row: %w", err)
		}
	}
	return nil
}
