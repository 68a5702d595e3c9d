package sqlite

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"pgregory.net/rand"

	"github.com/maranix/nodal/internal/sqlite/sqlite0"
)

const defaultCacheMaxSize = 128

// Conn owns exactly one open native database handle and the session
// counters associated with it. A Conn is single-owner: native calls for
// one connection must be serialized by the caller, no internal locking is
// provided. Once closed, every operation fails fast with
// ErrAlreadyClosed instead of dereferencing a dangling handle.
type Conn struct {
	conn   *sqlite0.Conn
	cache  *stmtCache
	closed bool

	spBegin    string
	spRelease  string
	spRollback string
}

// OpenConn opens a connection. path is a filesystem path,
// sqlite0.InMemory, or "" for a temporary on-disk file. Flags combine
// bitwise; with none given the default is read-write|create.
func OpenConn(path string, flags ...int) (*Conn, error) {
	f := 0
	for _, fl := range flags {
		f |= fl
	}
	conn, err := sqlite0.Open(path, f)
	if err != nil {
		return nil, translate(err, "")
	}
	var spID [16]byte
	_, _ = rand.New().Read(spID[:])
	return &Conn{
		conn:       conn,
		cache:      newStmtCache(defaultCacheMaxSize),
		spBegin:    fmt.Sprintf("SAVEPOINT __nodal_auto_%x", spID[:]),
		spRelease:  fmt.Sprintf("RELEASE __nodal_auto_%x", spID[:]),
		spRollback: fmt.Sprintf("ROLLBACK TO __nodal_auto_%x", spID[:]),
	}, nil
}

func (c *Conn) guard() error {
	if c.closed {
		return translate(ErrAlreadyClosed, "")
	}
	return nil
}

// IsOpen reports whether Close has not yet run.
func (c *Conn) IsOpen() bool {
	return !c.closed
}

// Exec runs one or more statements with no bound parameters and no
// result capture.
func (c *Conn) Exec(sql string) error {
	if err := c.guard(); err != nil {
		return err
	}
	return translate(c.conn.Exec(sql), sql)
}

// Prepare compiles sql into a caller-owned statement. Malformed SQL fails
// before a handle exists, so Finalize on the error path is a safe no-op.
// Only the first statement of sql is compiled.
func (c *Conn) Prepare(sql string) (*Stmt, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	stmt, _, err := c.conn.Prepare([]byte(sql))
	if err != nil {
		return nil, translate(err, sql)
	}
	if stmt == nil {
		return nil, translate(fmt.Errorf("sqlite: no statement to compile"), sql)
	}
	return &Stmt{conn: c, stmt: stmt, sql: sql}, nil
}

// Query runs sql with the given positional parameters and materializes
// every row. The underlying statement is released even when draining
// fails.
func (c *Conn) Query(sql string, params ...any) (rs *ResultSet, err error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	stmt, cached, err := c.acquireStmt(sql)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, c.releaseStmt(sql, stmt, cached))
		if err != nil {
			rs = nil
		}
	}()
	if len(params) > 0 {
		if err := bindPositional(stmt, sql, params); err != nil {
			return nil, err
		}
	}
	cols := make([]string, stmt.ColumnCount())
	for i := range cols {
		cols[i] = stmt.ColumnName(i)
	}
	return queryAll(stmt, sql, cols)
}

// Execute runs sql with the given positional parameters, discarding any
// rows. DDL and DML come through here.
func (c *Conn) Execute(sql string, params ...any) (err error) {
	if err := c.guard(); err != nil {
		return err
	}
	stmt, cached, err := c.acquireStmt(sql)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, c.releaseStmt(sql, stmt, cached))
	}()
	if len(params) > 0 {
		if err := bindPositional(stmt, sql, params); err != nil {
			return err
		}
	}
	for {
		haveRow, err := stmt.Step()
		if err != nil {
			return translate(err, sql)
		}
		if !haveRow {
			return nil
		}
	}
}

func bindPositional(stmt *sqlite0.Stmt, sql string, params []any) error {
	for i, p := range params {
		val, err := ValueOf(p)
		if err != nil {
			return translateMsg(err, sql, fmt.Sprintf("parameter %d", i+1))
		}
		if err := val.bindTo(stmt, i+1); err != nil {
			return translate(err, sql)
		}
	}
	return nil
}

// acquireStmt reuses a cached compiled statement when it can. Cached
// statements come back reset with bindings cleared.
func (c *Conn) acquireStmt(sql string) (*sqlite0.Stmt, bool, error) {
	if stmt, ok := c.cache.get(sql, time.Now()); ok {
		if err := stmt.Reset(); err != nil {
			return nil, false, translate(err, sql)
		}
		if err := stmt.ClearBindings(); err != nil {
			return nil, false, translate(err, sql)
		}
		return stmt, true, nil
	}
	stmt, _, err := c.conn.Prepare([]byte(sql))
	if err != nil {
		return nil, false, translate(err, sql)
	}
	if stmt == nil {
		return nil, false, translate(fmt.Errorf("sqlite: no statement to compile"), sql)
	}
	return stmt, false, nil
}

// releaseStmt parks the statement back in the cache, or finalizes it when
// it never made it in.
func (c *Conn) releaseStmt(sql string, stmt *sqlite0.Stmt, cached bool) error {
	if err := stmt.Reset(); err != nil {
		if !cached {
			_ = stmt.Close()
		}
		// a failed reset reports the statement's step failure; the
		// caller already has it
		return nil
	}
	if cached {
		return nil
	}
	var err error
	c.cache.put(sql, stmt, time.Now(), &err)
	return translate(err, sql)
}

// LastInsertRowID is a live view into native connection state, not a
// snapshot: running further statements changes it.
func (c *Conn) LastInsertRowID() (int64, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}
	return c.conn.LastInsertRowID(), nil
}

// Changes reports the rows affected by the most recent data-modifying
// statement. Live view, same as LastInsertRowID.
func (c *Conn) Changes() (int64, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}
	return c.conn.RowsAffected(), nil
}

func (c *Conn) SetBusyTimeout(dt time.Duration) error {
	if err := c.guard(); err != nil {
		return err
	}
	return translate(c.conn.SetBusyTimeout(dt), "")
}

// Close finalizes every cached statement and releases the native handle.
// Idempotent: the second call is a no-op. On a native close failure the
// connection is still marked closed (best effort) but the failure is
// reported so the caller's cleanup logic can react.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var err error
	c.cache.close(&err)
	multierr.AppendInto(&err, c.conn.Close())
	return translate(err, "")
}
