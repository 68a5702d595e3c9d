package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maranix/nodal/internal/sqlite/sqlite0"
)

func TestDBRoundTrip(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.Execute(testSchema))
	require.NoError(t, db.Execute("INSERT INTO t(name) VALUES (?)", "Alice"))

	id, err := db.LastInsertID()
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	n, err := db.UpdatedRows()
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	rs, err := db.Query("SELECT id, name FROM t")
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	require.Equal(t, "Alice", rs.Row(0).Get("name"))
}

func TestDBPrepare(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.Execute(testSchema))

	stmt, err := db.Prepare("INSERT INTO t(name) VALUES (?)")
	require.NoError(t, err)
	require.NoError(t, stmt.Exec("a"))
	require.NoError(t, stmt.Exec("b"))
	require.NoError(t, stmt.Finalize())

	rs, err := db.Query("SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	require.Equal(t, int64(2), rs.Row(0).At(0).Int64())
}

func TestDBFileBacked(t *testing.T) {
	path := tempPath(t)

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Execute(testSchema))
	require.NoError(t, db.Execute("INSERT INTO t(name) VALUES (?)", "persisted"))
	require.NoError(t, db.Close())

	db, err = Open(path, sqlite0.OpenReadonly)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	rs, err := db.Query("SELECT name FROM t")
	require.NoError(t, err)
	require.Equal(t, "persisted", rs.Row(0).Get("name"))
}

func TestDBEveryFailureIsStructured(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.Execute(testSchema))

	for _, err := range []error{
		db.Execute("INVALID SQL"),
		db.Execute("INSERT INTO t(name) VALUES (?)", nil),
		func() error { _, err := db.Query("SELECT * FROM missing"); return err }(),
		func() error { _, err := db.Prepare("ALSO INVALID"); return err }(),
	} {
		require.Error(t, err)
		var e *Error
		require.ErrorAs(t, err, &e)
	}
}

func TestDBCloseIdempotent(t *testing.T) {
	db, err := InMemory()
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	require.ErrorIs(t, db.Execute("SELECT 1"), ErrAlreadyClosed)
	_, err = db.Query("SELECT 1")
	require.ErrorIs(t, err, ErrAlreadyClosed)
	_, err = db.Prepare("SELECT 1")
	require.ErrorIs(t, err, ErrAlreadyClosed)
	_, err = db.UpdatedRows()
	require.ErrorIs(t, err, ErrAlreadyClosed)
	_, err = db.LastInsertID()
	require.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestDBConnTransactions(t *testing.T) {
	db := openMemDB(t)
	require.NoError(t, db.Execute(testSchema))

	err := db.Conn().WithTx(func() error {
		return db.Execute("INSERT INTO t(name) VALUES (?)", "tx")
	})
	require.NoError(t, err)
	rs, err := db.Query("SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	require.Equal(t, int64(1), rs.Row(0).At(0).Int64())
}

func TestVersion(t *testing.T) {
	require.Regexp(t, `^3\.\d+\.\d+`, Version())
}
