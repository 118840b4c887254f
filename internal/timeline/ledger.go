package timeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// one rendered segment as recorded in the narration history
type Entry struct {
	TimeMS      float64
	DurationMS  float64
	Description string
}

// Ledger is the append-only history of rendered segments, in assembly
// order. It serializes to semicolon-separated CSV with comma decimal
// separators.
type Ledger struct {
	entries []Entry
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(timeMS, durationMS float64, description string) {
	l.entries = append(l.entries, Entry{
		TimeMS:      timeMS,
		DurationMS:  durationMS,
		Description: description,
	})
}

func (l *Ledger) Entries() []Entry {
	return l.entries
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Bytes renders the ledger as CSV
func (l *Ledger) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write([]string{"Time(ms)", "Duration(ms)", "Description"}); err != nil {
		return nil, fmt.Errorf("failed to write ledger header: %w", err)
	}

	for _, e := range l.entries {
		record := []string{
			formatMS(e.TimeMS),
			formatMS(e.DurationMS),
			e.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write ledger row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush ledger: %w", err)
	}

	return buf.Bytes(), nil
}

// millisecond values are rounded to four decimals and written with a
// comma decimal separator
func formatMS(v float64) string {
	s := strconv.FormatFloat(round4(v), 'f', -1, 64)
	return strings.Replace(s, ".", ",", 1)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
