package signal

import (
	"fmt"
	"sort"
	"strings"
)

// Recording is one processed respiratory session: a fixed number of samples
// across an ordered set of named float64 columns. Columns are immutable once
// added; a Recording is built up front and then only read.
type Recording struct {
	names []string
	cols  map[string][]float64
	rows  int
}

// NewRecording returns an empty recording. The row count is fixed by the
// first column added.
func NewRecording() *Recording {
	return &Recording{cols: make(map[string][]float64)}
}

// AddColumn appends a named column. All columns must share the same length.
func (r *Recording) AddColumn(name string, values []float64) error {
	if name == "" {
		return fmt.Errorf("column name must not be empty")
	}
	if _, exists := r.cols[name]; exists {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(r.names) > 0 && len(values) != r.rows {
		return fmt.Errorf("column %q has %d samples, recording has %d", name, len(values), r.rows)
	}
	if len(r.names) == 0 {
		r.rows = len(values)
	}
	r.names = append(r.names, name)
	r.cols[name] = values
	return nil
}

// Column returns the values of the column with the exact given name.
func (r *Recording) Column(name string) ([]float64, bool) {
	values, ok := r.cols[name]
	return values, ok
}

// ColumnNames returns the column names in insertion order.
func (r *Recording) ColumnNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// MatchColumns returns, in insertion order, the names of all columns whose
// name contains the given fragment.
func (r *Recording) MatchColumns(fragment string) []string {
	var matches []string
	for _, name := range r.names {
		if strings.Contains(name, fragment) {
			matches = append(matches, name)
		}
	}
	return matches
}

// Rows returns the number of samples per column.
func (r *Recording) Rows() int {
	return r.rows
}

// Collection is a named group of recordings, typically epochs of one session
// time-aligned to events of interest. Keys are unique by construction.
type Collection map[string]*Recording

// Names returns the recording names in sorted order. Map iteration order is
// not reproducible; downstream result tables sort so that repeated runs over
// the same collection emit identical row order.
func (c Collection) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
