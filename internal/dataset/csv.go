package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/respira-lab/respira/internal/core/signal"
)

// ReadRecording parses CSV data into a Recording. The first row holds column
// names; every following row is one sample. Columns are fully numeric:
// recordings come out of a processing pipeline, so a non-numeric cell means
// the wrong file was supplied and the load fails rather than skipping rows.
func ReadRecording(r io.Reader) (*signal.Recording, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
		if headers[i] == "" {
			return nil, fmt.Errorf("csv header column %d is empty", i+1)
		}
	}

	columns := make([][]float64, len(headers))
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		line++
		if len(row) != len(headers) {
			return nil, fmt.Errorf("csv line %d has %d fields, header has %d", line, len(row), len(headers))
		}
		for i, cell := range row {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d column %q: %w", line, headers[i], err)
			}
			columns[i] = append(columns[i], value)
		}
	}

	rec := signal.NewRecording()
	for i, name := range headers {
		if err := rec.AddColumn(name, columns[i]); err != nil {
			return nil, fmt.Errorf("building recording: %w", err)
		}
	}
	return rec, nil
}

// LoadRecording reads a recording from a CSV file on disk.
func LoadRecording(path string) (*signal.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording %s: %w", path, err)
	}
	defer f.Close()

	rec, err := ReadRecording(f)
	if err != nil {
		return nil, fmt.Errorf("recording %s: %w", path, err)
	}
	return rec, nil
}
