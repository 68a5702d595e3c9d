package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, conn *Conn) int64 {
	t.Helper()
	rs, err := conn.Query("SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	return rs.Row(0).At(0).Int64()
}

func TestWithTxCommit(t *testing.T) {
	conn := openMem(t)
	require.NoError(t, conn.Exec(testSchema))

	err := conn.WithTx(func() error {
		return conn.Execute("INSERT INTO t(name) VALUES (?)", "kept")
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), countRows(t, conn))
}

func TestWithTxRollback(t *testing.T) {
	conn := openMem(t)
	require.NoError(t, conn.Exec(testSchema))

	boom := errors.New("boom")
	err := conn.WithTx(func() error {
		if err := conn.Execute("INSERT INTO t(name) VALUES (?)", "discarded"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, int64(0), countRows(t, conn))
}

func TestExplicitTransaction(t *testing.T) {
	conn := openMem(t)
	require.NoError(t, conn.Exec(testSchema))

	require.NoError(t, conn.Begin())
	require.NoError(t, conn.Execute("INSERT INTO t(name) VALUES (?)", "a"))
	require.NoError(t, conn.Rollback())
	require.Equal(t, int64(0), countRows(t, conn))

	require.NoError(t, conn.Begin())
	require.NoError(t, conn.Execute("INSERT INTO t(name) VALUES (?)", "b"))
	require.NoError(t, conn.Commit())
	require.Equal(t, int64(1), countRows(t, conn))
}

func TestWithSavepointInsideTransaction(t *testing.T) {
	conn := openMem(t)
	require.NoError(t, conn.Exec(testSchema))

	boom := errors.New("boom")
	err := conn.WithTx(func() error {
		if err := conn.Execute("INSERT INTO t(name) VALUES (?)", "outer"); err != nil {
			return err
		}
		spErr := conn.WithSavepoint(func() error {
			if err := conn.Execute("INSERT INTO t(name) VALUES (?)", "inner"); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, spErr, boom)
		return nil
	})
	require.NoError(t, err)
	// the savepoint rolled back, the outer transaction committed
	require.Equal(t, int64(1), countRows(t, conn))
	rs, err := conn.Query("SELECT name FROM t")
	require.NoError(t, err)
	require.Equal(t, "outer", rs.Row(0).Get("name"))
}

func TestWithSavepointCommit(t *testing.T) {
	conn := openMem(t)
	require.NoError(t, conn.Exec(testSchema))

	err := conn.WithSavepoint(func() error {
		return conn.Execute("INSERT INTO t(name) VALUES (?)", "kept")
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), countRows(t, conn))
}

func TestAutoCommitStateAcrossTransaction(t *testing.T) {
	conn := openMem(t)
	require.NoError(t, conn.Exec(testSchema))

	require.NoError(t, conn.Begin())
	// a second BEGIN inside an open transaction is a native error
	require.Error(t, conn.Begin())
	require.NoError(t, conn.Rollback())
}
