package sqlite

import (
	"go.uber.org/atomic"

	"github.com/maranix/nodal/internal/sqlite/sqlite0"
)

// Open flags, forwarded so facade users need no native import.
const (
	OpenReadonly  = sqlite0.OpenReadonly
	OpenReadWrite = sqlite0.OpenReadWrite
	OpenCreate    = sqlite0.OpenCreate
	OpenNoMutex   = sqlite0.OpenNoMutex
)

// Database is the application-facing view of the client. It hides the
// native handle types entirely: every failure surfaces as *Error, never
// as a native error type.
type Database interface {
	Execute(sql string, params ...any) error
	Query(sql string, params ...any) (*ResultSet, error)
	Prepare(sql string) (*Stmt, error)
	UpdatedRows() (int64, error)
	LastInsertID() (int64, error)
	Close() error
}

// DB wraps one connection behind the Database interface. Like the
// connection it owns, a DB is single-owner; concurrent use without
// external synchronization is undefined.
type DB struct {
	conn   *Conn
	closed atomic.Bool
}

var _ Database = (*DB)(nil)

// Open opens a file-backed database with the default read-write|create
// flags.
func Open(path string, flags ...int) (*DB, error) {
	conn, err := OpenConn(path, flags...)
	if err != nil {
		return nil, err
	}
	return &DB{conn: conn}, nil
}

// InMemory opens a private, ephemeral in-memory database. Two InMemory
// databases share no state.
func InMemory() (*DB, error) {
	return Open(sqlite0.InMemory)
}

func (db *DB) guard() error {
	if db.closed.Load() {
		return translate(ErrAlreadyClosed, "")
	}
	return nil
}

// Execute runs sql with the given positional parameters, discarding rows.
func (db *DB) Execute(sql string, params ...any) error {
	if err := db.guard(); err != nil {
		return err
	}
	return db.conn.Execute(sql, params...)
}

// Query runs sql and materializes the full result. The ResultSet is a
// frozen snapshot, independently iterable and indexable.
func (db *DB) Query(sql string, params ...any) (*ResultSet, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	return db.conn.Query(sql, params...)
}

// Prepare compiles sql into a caller-owned statement. The caller must
// finalize it before closing the database.
func (db *DB) Prepare(sql string) (*Stmt, error) {
	if err := db.guard(); err != nil {
		return nil, err
	}
	return db.conn.Prepare(sql)
}

// UpdatedRows reports the rows affected by the most recent data-modifying
// statement.
func (db *DB) UpdatedRows() (int64, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	return db.conn.Changes()
}

func (db *DB) LastInsertID() (int64, error) {
	if err := db.guard(); err != nil {
		return 0, err
	}
	return db.conn.LastInsertRowID()
}

// Conn exposes the underlying connection for callers that need
// transactions or session control.
func (db *DB) Conn() *Conn {
	return db.conn
}

// Close is idempotent; the second call is a no-op.
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	return db.conn.Close()
}

// Version is the native engine's library version string.
func Version() string {
	return sqlite0.Version()
}

// SetLogf routes the native error log, for wiring into the application's
// logger.
func SetLogf(fn func(code int, msg string)) {
	sqlite0.SetLogf(fn)
}
