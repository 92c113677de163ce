// Package report serializes result tables for downstream group-level
// analysis tools: CSV for statistics packages, JSON for the HTTP API.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/respira-lab/respira/internal/intervals"
)

// Table is the serializable form of a ResultTable. Columns keep the table's
// first-seen order; Features omits columns a row has no value for.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// TableRow is one labelled feature row.
type TableRow struct {
	Label    string             `json:"label"`
	Features map[string]float64 `json:"features"`
}

// Document converts a ResultTable into its serializable form.
func Document(table *intervals.ResultTable) Table {
	doc := Table{Columns: table.Columns()}
	for _, row := range table.Rows() {
		features := make(map[string]float64, row.Features.Len())
		for _, key := range row.Features.Keys() {
			value, _ := row.Features.Get(key)
			features[key] = value
		}
		doc.Rows = append(doc.Rows, TableRow{Label: row.Label, Features: features})
	}
	return doc
}

// WriteCSV writes the table with a leading Label column. Cells for columns a
// row does not carry are left empty.
func WriteCSV(w io.Writer, table *intervals.ResultTable) error {
	writer := csv.NewWriter(w)
	columns := table.Columns()

	header := append([]string{"Label"}, columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, row := range table.Rows() {
		record := make([]string, 0, len(header))
		record = append(record, row.Label)
		for _, col := range columns {
			value, ok := row.Features.Get(col)
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(value, 'g', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv row %q: %w", row.Label, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteJSON writes the table as an indented JSON document.
func WriteJSON(w io.Writer, table *intervals.ResultTable) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document(table)); err != nil {
		return fmt.Errorf("encoding table json: %w", err)
	}
	return nil
}
