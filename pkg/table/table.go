// Package table holds the technology sheet in memory.
//
// A [Table] is a header row plus string cells, the shape of a CSV export of
// the technology spreadsheet. The package provides the preprocessing and
// selection operations the diagram tools need: forward fill of sparse
// columns, case-insensitive keyword filtering, distinct identifier values in
// first-seen order, and grouping rows by identifier.
//
// EnsureColumns and ForwardFill modify a table in place and are meant for the
// preprocessing step right after loading. Filtering returns a new Table that
// shares rows with its parent, so preprocess before filtering.
package table

import (
	"slices"
	"strings"

	"github.com/matzehuels/techflow/pkg/errors"
)

// Table is a rectangular set of string cells with named columns.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// New creates a table. Rows shorter than the header are padded with empty
// cells; longer rows are truncated.
func New(header []string, rows [][]string) *Table {
	t := &Table{
		header: slices.Clone(header),
		index:  make(map[string]int, len(header)),
		rows:   make([][]string, 0, len(rows)),
	}
	for i, h := range t.header {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	for _, r := range rows {
		t.rows = append(t.rows, fit(r, len(header)))
	}
	return t
}

func fit(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

// Header returns a copy of the column names.
func (t *Table) Header() []string { return slices.Clone(t.header) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has a column named col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require returns an ErrCodeMissingColumn error naming the first absent column.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return errors.New(errors.ErrCodeMissingColumn, "column %q not found", c)
		}
	}
	return nil
}

// Row returns the i-th row as a Record.
func (t *Table) Row(i int) Record { return Record{t: t, cells: t.rows[i]} }

// Records returns all rows in order.
func (t *Table) Records() []Record {
	recs := make([]Record, len(t.rows))
	for i, r := range t.rows {
		recs[i] = Record{t: t, cells: r}
	}
	return recs
}

// EnsureColumns appends any missing columns, filled with empty cells.
func (t *Table) EnsureColumns(cols ...string) {
	for _, c := range cols {
		if t.Has(c) {
			continue
		}
		t.index[c] = len(t.header)
		t.header = append(t.header, c)
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], "")
		}
	}
}

// ForwardFill replaces empty cells with the last non-empty value above them
// in the same column. With no arguments every column is filled. Cells that
// contain only whitespace count as empty. Unknown columns are ignored.
func (t *Table) ForwardFill(cols ...string) {
	if len(cols) == 0 {
		cols = t.header
	}
	for _, c := range cols {
		j, ok := t.index[c]
		if !ok {
			continue
		}
		last := ""
		for _, r := range t.rows {
			if strings.TrimSpace(r[j]) == "" {
				r[j] = last
			} else {
				last = r[j]
			}
		}
	}
}

// Filter returns the rows where any of cols contains keyword, ignoring case.
// With no columns every column is searched. An empty keyword returns t.
func (t *Table) Filter(keyword string, cols ...string) *Table {
	if keyword == "" {
		return t
	}
	idx := t.columnIndexes(cols)
	needle := strings.ToLower(keyword)

	out := &Table{header: t.header, index: t.index}
	for _, r := range t.rows {
		for _, j := range idx {
			if strings.Contains(strings.ToLower(r[j]), needle) {
				out.rows = append(out.rows, r)
				break
			}
		}
	}
	return out
}

// Where returns the rows whose col cell equals value exactly.
func (t *Table) Where(col, value string) *Table {
	out := &Table{header: t.header, index: t.index}
	j, ok := t.index[col]
	if !ok {
		return out
	}
	for _, r := range t.rows {
		if r[j] == value {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Distinct returns the non-empty values of col in first-seen order.
func (t *Table) Distinct(col string) []string {
	j, ok := t.index[col]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.rows {
		v := r[j]
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// First returns the first row whose col cell equals value.
func (t *Table) First(col, value string) (Record, bool) {
	j, ok := t.index[col]
	if !ok {
		return Record{}, false
	}
	for _, r := range t.rows {
		if r[j] == value {
			return Record{t: t, cells: r}, true
		}
	}
	return Record{}, false
}

func (t *Table) columnIndexes(cols []string) []int {
	if len(cols) == 0 {
		idx := make([]int, len(t.header))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	var idx []int
	for _, c := range cols {
		if j, ok := t.index[c]; ok {
			idx = append(idx, j)
		}
	}
	return idx
}

// Record is one row of a Table.
type Record struct {
	t     *Table
	cells []string
}

// Get returns the cell in column col and whether the column exists.
func (r Record) Get(col string) (string, bool) {
	if r.t == nil {
		return "", false
	}
	j, ok := r.t.index[col]
	if !ok {
		return "", false
	}
	return r.cells[j], true
}

// Value returns the cell in column col, or "" if the column does not exist.
func (r Record) Value(col string) string {
	v, _ := r.Get(col)
	return v
}

// Map returns the row as a column → cell map.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.cells))
	if r.t == nil {
		return m
	}
	for i, h := range r.t.header {
		m[h] = r.cells[i]
	}
	return m
}
