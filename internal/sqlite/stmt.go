package sqlite

import (
	"fmt"
	"strings"

	"github.com/maranix/nodal/internal/sqlite/sqlite0"
)

// Stmt owns one compiled statement. It borrows its parent Conn: Finalize
// never closes the connection, and the caller must finalize every live
// statement before closing the connection the statement depends on.
//
// A Stmt moves through created -> (bound) -> on-row -> done; Reset
// returns it to created with bindings retained; Finalize is terminal and
// every accessor after it fails with ErrFinalized.
type Stmt struct {
	conn *Conn
	stmt *sqlite0.Stmt
	sql  string
	cols []string // computed once, first use
}

func (s *Stmt) guard() error {
	if s == nil || s.stmt == nil {
		return translate(ErrFinalized, s.sqlText())
	}
	return nil
}

func (s *Stmt) sqlText() string {
	if s == nil {
		return ""
	}
	return s.sql
}

// Bind binds values to 1-based positional slots in call order. It stops
// at the first failure, leaving earlier binds applied; callers that need
// atomicity call ClearBindings first.
func (s *Stmt) Bind(values ...any) error {
	if err := s.guard(); err != nil {
		return err
	}
	for i, v := range values {
		val, err := ValueOf(v)
		if err != nil {
			return translateMsg(err, s.sql, fmt.Sprintf("parameter %d", i+1))
		}
		if err := val.bindTo(s.stmt, i + 1); err != nil {
			return translate(err, s.sql)
		}
	}
	return nil
}

// BindNamed binds by parameter name. Names may omit the sigil; a bare
// name is normalized to the ':' form. An unknown name fails before any
// native call for that entry, with binds already applied for other names
// left in place.
func (s *Stmt) BindNamed(params map[string]any) error {
	if err := s.guard(); err != nil {
		return err
	}
	for name, v := range params {
		slot := s.stmt.Param(normalizeParamName(name))
		if slot == 0 {
			return translateMsg(fmt.Errorf("sqlite: unknown parameter %q", name), s.sql, "")
		}
		val, err := ValueOf(v)
		if err != nil {
			return translateMsg(err, s.sql, fmt.Sprintf("parameter %q", name))
		}
		if err := val.bindTo(s.stmt, slot); err != nil {
			return translate(err, s.sql)
		}
	}
	return nil
}

// normalizeParamName adds the ':' sigil when the caller omitted one.
// Names already carrying ':', '@' or '$' are used as-is.
func normalizeParamName(name string) string {
	if strings.HasPrefix(name, ":") || strings.HasPrefix(name, "@") || strings.HasPrefix(name, "$") {
		return name
	}
	return ":" + name
}

// Step advances the cursor one row: true when a row is available, false
// when execution is complete.
func (s *Stmt) Step() (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	haveRow, err := s.stmt.Step()
	if err != nil {
		return false, translate(err, s.sql)
	}
	return haveRow, nil
}

// Reset rewinds to before-first. Bindings are retained.
func (s *Stmt) Reset() error {
	if err := s.guard(); err != nil {
		return err
	}
	return translate(s.stmt.Reset(), s.sql)
}

func (s *Stmt) ClearBindings() error {
	if err := s.guard(); err != nil {
		return err
	}
	return translate(s.stmt.ClearBindings(), s.sql)
}

// Finalize releases the native statement. Safe to call more than once;
// after the first call every other method fails with ErrFinalized.
func (s *Stmt) Finalize() error {
	if s == nil || s.stmt == nil {
		return nil
	}
	stmt := s.stmt
	s.stmt = nil
	return translate(stmt.Close(), s.sql)
}

func (s *Stmt) ColumnCount() (int, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	return s.stmt.ColumnCount(), nil
}

func (s *Stmt) ColumnName(i int) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	return s.stmt.ColumnName(i), nil
}

// ColumnKind is the storage class of column i in the current row.
func (s *Stmt) ColumnKind(i int) (Kind, error) {
	if err := s.guard(); err != nil {
		return KindNull, err
	}
	switch s.stmt.ColumnType(i) {
	case sqlite0.ColumnInteger:
		return KindInteger, nil
	case sqlite0.ColumnFloat:
		return KindFloat, nil
	case sqlite0.ColumnText:
		return KindText, nil
	case sqlite0.ColumnBlob:
		return KindBlob, nil
	default:
		return KindNull, nil
	}
}

func (s *Stmt) ColumnInt64(i int) (int64, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	return s.stmt.ColumnInt64(i), nil
}

func (s *Stmt) ColumnFloat64(i int) (float64, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	return s.stmt.ColumnFloat64(i), nil
}

func (s *Stmt) ColumnText(i int) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	text, err := s.stmt.ColumnText(i)
	return text, translate(err, s.sql)
}

func (s *Stmt) ColumnBlob(i int) ([]byte, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	b, err := s.stmt.ColumnBlob(i, nil)
	return b, translate(err, s.sql)
}

// ColumnValue decodes column i via the value codec.
func (s *Stmt) ColumnValue(i int) (Value, error) {
	if err := s.guard(); err != nil {
		return Value{}, err
	}
	v, err := columnValue(s.stmt, i)
	return v, translate(err, s.sql)
}

// columns computes the ordered column-name list once and reuses it.
func (s *Stmt) columns() []string {
	if s.cols == nil {
		n := s.stmt.ColumnCount()
		s.cols = make([]string, n)
		for i := 0; i < n; i++ {
			s.cols[i] = s.stmt.ColumnName(i)
		}
	}
	return s.cols
}

// QueryAll steps to completion, snapshotting every row. The statement is
// left in the done state; the result set never re-runs the query.
func (s *Stmt) QueryAll() (*ResultSet, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return queryAll(s.stmt, s.sql, s.columns())
}

func queryAll(stmt *sqlite0.Stmt, sql string, cols []string) (*ResultSet, error) {
	rs := &ResultSet{cols: cols, rows: []Row{}}
	for {
		haveRow, err := stmt.Step()
		if err != nil {
			return nil, translate(err, sql)
		}
		if !haveRow {
			return rs, nil
		}
		vals := make([]Value, len(cols))
		for i := range cols {
			v, err := columnValue(stmt, i)
			if err != nil {
				return nil, translate(err, sql)
			}
			vals[i] = v
		}
		rs.rows = append(rs.rows, Row{cols: cols, vals: vals})
	}
}

// Exec binds the given values, drains all rows without keeping them, then
// resets. The reset runs on the failure path too, so a failed statement
// is never left stuck mid-cursor.
func (s *Stmt) Exec(values ...any) (err error) {
	if err := s.guard(); err != nil {
		return err
	}
	defer func() {
		if resetErr := s.stmt.Reset(); resetErr != nil && err == nil {
			err = translate(resetErr, s.sql)
		}
	}()
	if len(values) > 0 {
		if err := s.Bind(values...); err != nil {
			return err
		}
	}
	for {
		haveRow, err := s.stmt.Step()
		if err != nil {
			return translate(err, s.sql)
		}
		if !haveRow {
			return nil
		}
	}
}
