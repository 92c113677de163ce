package intervals

// FeatureRow is one scalar-valued summary record for a single recording.
// Keys keep insertion order so repeated runs emit identical column order.
type FeatureRow struct {
	keys   []string
	values map[string]float64
}

// NewFeatureRow returns an empty feature row. Rows are created fresh per
// analysis call and never shared across calls.
func NewFeatureRow() *FeatureRow {
	return &FeatureRow{values: make(map[string]float64)}
}

// Set stores a feature value. A repeated key keeps its original position.
func (r *FeatureRow) Set(key string, value float64) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether it is present.
func (r *FeatureRow) Get(key string) (float64, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the feature names in insertion order.
func (r *FeatureRow) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of features in the row.
func (r *FeatureRow) Len() int {
	return len(r.keys)
}

// Row is one labelled entry of a ResultTable.
type Row struct {
	Label    string
	Features *FeatureRow
}

// ResultTable holds one feature row per analyzed recording. The column set
// is the union of row keys in first-seen order; rows missing a column simply
// have no value for it.
type ResultTable struct {
	rows []Row
}

// NewResultTable returns an empty result table.
func NewResultTable() *ResultTable {
	return &ResultTable{}
}

// Append adds a labelled feature row to the table.
func (t *ResultTable) Append(label string, features *FeatureRow) {
	t.rows = append(t.rows, Row{Label: label, Features: features})
}

// Rows returns the table rows in insertion order.
func (t *ResultTable) Rows() []Row {
	return t.rows
}

// Len returns the number of rows.
func (t *ResultTable) Len() int {
	return len(t.rows)
}

// Columns returns the union of feature names across all rows, in the order
// they first appear.
func (t *ResultTable) Columns() []string {
	var columns []string
	seen := make(map[string]bool)
	for _, row := range t.rows {
		for _, key := range row.Features.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	return columns
}
