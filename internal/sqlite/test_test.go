package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) *Conn {
	t.Helper()
	conn, err := OpenConn(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := InMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

const testSchema = "CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT NOT NULL)"
