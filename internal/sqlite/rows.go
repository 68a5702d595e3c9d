package sqlite

// Row is a read-only snapshot of one result row. The column-name slice is
// shared with the parent ResultSet, not copied per row.
type Row struct {
	cols []string
	vals []Value
}

func (r Row) Len() int {
	return len(r.vals)
}

// At returns the value at the zero-based ordinal. It panics when i is out
// of range, same as a slice index.
func (r Row) At(i int) Value {
	return r.vals[i]
}

// Named looks a value up by column name, first match wins. ok is false
// when no column carries the name.
func (r Row) Named(name string) (v Value, ok bool) {
	for i, col := range r.cols {
		if col == name {
			return r.vals[i], true
		}
	}
	return Value{}, false
}

// Get is Named unpacked into a Go value; missing columns come back nil.
func (r Row) Get(name string) any {
	v, ok := r.Named(name)
	if !ok {
		return nil
	}
	return v.Any()
}

func (r Row) Columns() []string {
	return r.cols
}

// Map materializes the row into a name->value mapping. Duplicate column
// names keep the first occurrence.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.cols))
	for i, col := range r.cols {
		if _, ok := m[col]; ok {
			continue
		}
		m[col] = r.vals[i].Any()
	}
	return m
}

// ResultSet is an ordered sequence of rows with a fixed ordered
// column-name list, produced by draining a statement to completion. It is
// a frozen snapshot: iterating it never re-runs the query, and iterating
// twice yields the same rows in the same order.
type ResultSet struct {
	cols []string
	rows []Row
}

func (rs *ResultSet) Len() int {
	return len(rs.rows)
}

func (rs *ResultSet) Columns() []string {
	return rs.cols
}

// Row returns the row at the zero-based ordinal; panics out of range.
func (rs *ResultSet) Row(i int) Row {
	return rs.rows[i]
}

// Rows exposes the backing slice for iteration. Callers must not mutate
// it.
func (rs *ResultSet) Rows() []Row {
	return rs.rows
}

// Filter returns a new ResultSet holding the rows pred keeps, sharing the
// column list and row snapshots with the receiver.
func (rs *ResultSet) Filter(pred func(Row) bool) *ResultSet {
	kept := []Row{}
	for _, r := range rs.rows {
		if pred(r) {
			kept = append(kept, r)
		}
	}
	return &ResultSet{cols: rs.cols, rows: kept}
}

// Slice returns the [i, j) sub-sequence as a new ResultSet.
func (rs *ResultSet) Slice(i, j int) *ResultSet {
	return &ResultSet{cols: rs.cols, rows: rs.rows[i:j]}
}

// Collect maps every row through fn, in order.
func Collect[T any](rs *ResultSet, fn func(Row) T) []T {
	out := make([]T, 0, len(rs.rows))
	for _, r := range rs.rows {
		out = append(out, fn(r))
	}
	return out
}

// Fold reduces the rows left to right starting from init.
func Fold[T any](rs *ResultSet, init T, fn func(T, Row) T) T {
	acc := init
	for _, r := range rs.rows {
		acc = fn(acc, r)
	}
	return acc
}
