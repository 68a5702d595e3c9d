package sqlite0

/*
#cgo CFLAGS: -std=gnu99
#cgo LDFLAGS: -lsqlite3
#cgo linux LDFLAGS: -lm

#include <stddef.h>
#include <sqlite3.h>

// cgo can't call variadic functions.
static int _sqlite_enable_logging(void) {
	extern void _sqliteLogFunc(void *, int, const char *);
	return sqlite3_config(SQLITE_CONFIG_LOG, _sqliteLogFunc, NULL);
}

// cgo can't express the SQLITE_{STATIC,TRANSIENT} destructor constants.
static int _sqlite3_bind_text(sqlite3_stmt *stmt, int param, const char *p, int n, int copy) {
	return sqlite3_bind_text(stmt, param, p, n, copy ? SQLITE_TRANSIENT : SQLITE_STATIC);
}

static int _sqlite3_bind_blob(sqlite3_stmt *stmt, int param, const void *p, int n, int copy) {
	if (n == 0) {
		return sqlite3_bind_zeroblob(stmt, param, 0);
	}
	return sqlite3_bind_blob(stmt, param, p, n, copy ? SQLITE_TRANSIENT : SQLITE_STATIC);
}

static ptrdiff_t _str_offset(const char *base, const char *p) {
	return p - base;
}
*/
import "C"
import (
	"runtime"
	"time"
	"unsafe"
)

const (
	ok   = C.SQLITE_OK
	row  = C.SQLITE_ROW
	done = C.SQLITE_DONE
	busy = C.SQLITE_BUSY
)

var initErr error

func init() {
	rc := C._sqlite_enable_logging()
	if rc != ok {
		initErr = sqliteErr(rc, nil, "_sqlite_enable_logging")
	}
	rc = C.sqlite3_initialize()
	if rc != ok {
		initErr = sqliteErr(rc, nil, "sqlite3_initialize")
	}
}

// SetLogf routes the native error log. The hook must not call back into
// this package.
func SetLogf(fn LogFunc) {
	logFuncMu.Lock()
	defer logFuncMu.Unlock()

	logFunc = fn
}

func Version() string {
	if initErr != nil {
		return ""
	}
	return C.GoString(C.sqlite3_libversion())
}

// Conn owns exactly one native database handle. A Conn must not be shared
// between goroutines without external synchronization, and must not be
// closed while statements prepared on it are still live.
type Conn struct {
	conn *C.sqlite3
}

// Open opens a database handle. path is a filesystem path, InMemory, or ""
// for a temporary on-disk file. With no flags the default is
// OpenReadWrite|OpenCreate.
func Open(path string, flags int) (*Conn, error) {
	if initErr != nil {
		return nil, initErr
	}
	if flags == 0 {
		flags = OpenReadWrite | OpenCreate
	}

	var cConn *C.sqlite3
	path = ensureZeroTermStr(path)
	rc := C.sqlite3_open_v2(unsafeStringCPtr(path), &cConn, C.int(flags), nil) //nolint:gocritic // nonsense
	runtime.KeepAlive(path)
	if rc != ok {
		// The native layer may allocate a handle carrying the error
		// message even when open fails. Read it, then release the
		// partial handle.
		err := sqliteErr(rc, cConn, "sqlite3_open_v2")
		C.sqlite3_close_v2(cConn)
		return nil, err
	}

	C.sqlite3_extended_result_codes(cConn, 1)

	return &Conn{conn: cConn}, nil
}

// Close releases the native handle. It is idempotent. On a native close
// failure the handle is nulled anyway (best effort) and the failure is
// still reported.
func (c *Conn) Close() error {
	var err error
	if c.conn != nil {
		rc := C.sqlite3_close(c.conn)
		if rc != ok {
			err = sqliteErr(rc, nil, "sqlite3_close")
			if rc == busy {
				C.sqlite3_close_v2(c.conn)
			}
		}
		c.conn = nil
	}
	return err
}

func (c *Conn) SetBusyTimeout(dt time.Duration) error {
	rc := C.sqlite3_busy_timeout(c.conn, C.int(dt/time.Millisecond))
	return sqliteErr(rc, c.conn, "sqlite3_busy_timeout")
}

func (c *Conn) AutoCommit() bool {
	return C.sqlite3_get_autocommit(c.conn) != 0
}

// Exec runs one or more statements with no bound parameters and no result
// capture.
func (c *Conn) Exec(sql string) error {
	sql = ensureZeroTermStr(sql)
	var cErr *C.char
	rc := C.sqlite3_exec(c.conn, unsafeStringCPtr(sql), nil, nil, &cErr)
	runtime.KeepAlive(sql)
	if cErr != nil {
		// the message buffer is native-allocated and must be freed
		// after reading
		msg := C.GoString(cErr)
		C.sqlite3_free(unsafe.Pointer(cErr))
		if rc != ok {
			code, _ := Lookup(int(rc))
			return Error{code, int(rc), "sqlite3_exec", msg}
		}
	}
	return sqliteErr(rc, c.conn, "sqlite3_exec")
}

func (c *Conn) LastInsertRowID() int64 {
	id := C.sqlite3_last_insert_rowid(c.conn)
	return int64(id)
}

func (c *Conn) RowsAffected() int64 {
	n := C.sqlite3_changes(c.conn)
	return int64(n)
}

// Stmt owns exactly one compiled native statement. It borrows its parent
// Conn: finalizing a Stmt never closes the Conn.
type Stmt struct {
	conn             *Conn
	stmt             *C.sqlite3_stmt
	keepAliveStrings []string
	keepAliveBytes   [][]byte
	params           map[string]int
	n                int
}

// Prepare compiles the first statement in sql and returns any trailing
// text. A nil Stmt with a nil error means sql held nothing to compile.
func (c *Conn) Prepare(sql []byte) (*Stmt, []byte, error) {
	var cStmt *C.sqlite3_stmt
	var cTail *C.char
	sql = ensureZeroTerm(sql)
	cSQL := unsafeSliceCPtr(sql)
	rc := C.sqlite3_prepare_v2(c.conn, cSQL, C.int(len(sql)), &cStmt, &cTail) //nolint:gocritic // nonsense
	runtime.KeepAlive(sql)
	if rc != ok {
		return nil, nil, sqliteErr(rc, c.conn, "sqlite3_prepare_v2")
	}
	if cStmt == nil {
		return nil, nil, nil
	}

	var tail []byte
	if cTail != nil {
		tailOffset := int(C._str_offset(cSQL, cTail))
		if tailOffset >= 0 && tailOffset < len(sql) {
			tail = sql[tailOffset:]
		}
	}

	n := int(C.sqlite3_bind_parameter_count(cStmt))
	var params map[string]int
	if n > 0 {
		params = make(map[string]int, n)
		for i := 0; i < n; i++ {
			name := C.sqlite3_bind_parameter_name(cStmt, C.int(i+1))
			if name != nil {
				params[C.GoString(name)] = i + 1
			}
		}
	}
	return &Stmt{
		conn:   c,
		stmt:   cStmt,
		params: params,
		n:      n,
	}, tail, nil
}

// Close finalizes the statement. Safe to call more than once.
func (s *Stmt) Close() error {
	if s.stmt == nil {
		return nil
	}
	rc := C.sqlite3_finalize(s.stmt)
	s.stmt = nil
	return sqliteErr(rc, s.conn.conn, "sqlite3_finalize")
}

func (s *Stmt) SQL() string {
	return C.GoString(C.sqlite3_sql(s.stmt))
}

func (s *Stmt) ExpandedSQL() string {
	cStr := C.sqlite3_expanded_sql(s.stmt)
	if cStr == nil {
		return ""
	}
	defer C.sqlite3_free(unsafe.Pointer(cStr))

	return C.GoString(cStr)
}

// Reset rewinds the statement to before-first. Bindings are retained.
func (s *Stmt) Reset() error {
	rc := C.sqlite3_reset(s.stmt)
	return sqliteErr(rc, s.conn.conn, "sqlite3_reset")
}

func (s *Stmt) ClearBindings() error {
	rc := C.sqlite3_clear_bindings(s.stmt)
	for i := range s.keepAliveStrings {
		s.keepAliveStrings[i] = ""
	}
	for i := range s.keepAliveBytes {
		s.keepAliveBytes[i] = nil
	}
	return sqliteErr(rc, s.conn.conn, "sqlite3_clear_bindings")
}

// ParamCount is the number of parameter slots in the statement.
func (s *Stmt) ParamCount() int {
	return s.n
}

// Param returns the 1-based slot for a named parameter, 0 if unknown. The
// name must carry its sigil.
func (s *Stmt) Param(name string) int {
	return s.params[name]
}

func (s *Stmt) BindNull(param int) error {
	rc := C.sqlite3_bind_null(s.stmt, C.int(param))
	return sqliteErr(rc, s.conn.conn, "sqlite3_bind_null")
}

func (s *Stmt) BindZeroBlob(param int, n int) error {
	rc := C.sqlite3_bind_zeroblob(s.stmt, C.int(param), C.int(n))
	return sqliteErr(rc, s.conn.conn, "sqlite3_bind_zeroblob")
}

// BindBlob binds with transient semantics: the engine copies v before the
// call returns, so the caller may reuse the slice.
func (s *Stmt) BindBlob(param int, v []byte) error {
	if len(v) == 0 {
		return s.BindZeroBlob(param, 0)
	}
	rc := C._sqlite3_bind_blob(s.stmt, C.int(param), unsafeSlicePtr(v), C.int(len(v)), 1)
	return sqliteErr(rc, s.conn.conn, "_sqlite3_bind_blob")
}

// BindBlobUnsafe skips the copy; the caller must keep v immutable until
// the statement is reset or finalized.
func (s *Stmt) BindBlobUnsafe(param int, v []byte) error {
	if len(v) == 0 {
		return s.BindZeroBlob(param, 0)
	}
	if s.keepAliveBytes == nil {
		s.keepAliveBytes = make([][]byte, s.n)
	}
	s.keepAliveBytes[param-1] = v
	rc := C._sqlite3_bind_blob(s.stmt, C.int(param), unsafeSlicePtr(v), C.int(len(v)), 0)
	return sqliteErr(rc, s.conn.conn, "_sqlite3_bind_blob")
}

// BindText binds with transient semantics.
func (s *Stmt) BindText(param int, v string) error {
	rc := C._sqlite3_bind_text(s.stmt, C.int(param), unsafeStringCPtr(v), C.int(len(v)), 1)
	runtime.KeepAlive(v)
	return sqliteErr(rc, s.conn.conn, "_sqlite3_bind_text")
}

// BindTextUnsafe skips the copy; the caller must keep v alive and
// immutable until the statement is reset or finalized.
func (s *Stmt) BindTextUnsafe(param int, v string) error {
	if s.keepAliveStrings == nil {
		s.keepAliveStrings = make([]string, s.n)
	}
	s.keepAliveStrings[param-1] = v
	rc := C._sqlite3_bind_text(s.stmt, C.int(param), unsafeStringCPtr(v), C.int(len(v)), 0)
	return sqliteErr(rc, s.conn.conn, "_sqlite3_bind_text")
}

func (s *Stmt) BindInt64(param int, v int64) error {
	rc := C.sqlite3_bind_int64(s.stmt, C.int(param), C.longlong(v))
	return sqliteErr(rc, s.conn.conn, "sqlite3_bind_int64")
}

func (s *Stmt) BindFloat64(param int, v float64) error {
	rc := C.sqlite3_bind_double(s.stmt, C.int(param), C.double(v))
	return sqliteErr(rc, s.conn.conn, "sqlite3_bind_double")
}

// Step advances the cursor one row: true means a row is available, false
// means execution is complete. Any other native outcome is a failure
// carrying the connection's current error message.
func (s *Stmt) Step() (bool, error) {
	rc := C.sqlite3_step(s.stmt)
	switch rc {
	case row:
		return true, nil
	case done:
		return false, nil
	default:
		return false, sqliteErr(rc, s.conn.conn, "sqlite3_step")
	}
}

func (s *Stmt) ColumnCount() int {
	return int(C.sqlite3_column_count(s.stmt))
}

func (s *Stmt) ColumnName(i int) string {
	return C.GoString(C.sqlite3_column_name(s.stmt, C.int(i)))
}

// ColumnType is the storage class of column i in the current row, one of
// the Column* constants.
func (s *Stmt) ColumnType(i int) int {
	return int(C.sqlite3_column_type(s.stmt, C.int(i)))
}

// ColumnBlobUnsafe returns native-owned memory, invalidated by the next
// step/reset/finalize. It can return a nil slice both for a zero-length
// BLOB and SQL NULL.
func (s *Stmt) ColumnBlobUnsafe(i int) ([]byte, error) {
	p := C.sqlite3_column_blob(s.stmt, C.int(i))
	if p == nil {
		rc := C.sqlite3_errcode(s.conn.conn)
		if rc != ok && rc != row {
			return nil, sqliteErr(rc, s.conn.conn, "sqlite3_column_blob") // out-of-memory during format conversion
		}
		return nil, nil // zero-length BLOB or SQL NULL
	}
	n := C.sqlite3_column_bytes(s.stmt, C.int(i))
	if n == 0 {
		return nil, nil
	}
	return unsafePtrToSlice(p, int(n)), nil
}

// ColumnBlob appends a copy of the column bytes to buf.
func (s *Stmt) ColumnBlob(i int, buf []byte) ([]byte, error) {
	b, err := s.ColumnBlobUnsafe(i)
	return append(buf, b...), err
}

// ColumnText copies the column out of native memory.
func (s *Stmt) ColumnText(i int) (string, error) {
	b, err := s.ColumnBlobUnsafe(i)
	return string(b), err
}

func (s *Stmt) ColumnInt64(i int) int64 {
	value := C.sqlite3_column_int64(s.stmt, C.int(i))
	return int64(value)
}

func (s *Stmt) ColumnFloat64(i int) float64 {
	value := C.sqlite3_column_double(s.stmt, C.int(i))
	return float64(value)
}

func (s *Stmt) ColumnNull(i int) bool {
	return s.ColumnType(i) == ColumnNull
}
