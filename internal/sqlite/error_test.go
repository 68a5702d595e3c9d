package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maranix/nodal/internal/sqlite/sqlite0"
)

func TestErrorRenderingSegments(t *testing.T) {
	full := &Error{
		code:    sqlite0.Constraint,
		hasCode: true,
		msg:     "NOT NULL constraint failed: t.name",
		details: "parameter 1",
		sql:     "INSERT INTO t(name) VALUES (?)",
	}
	require.Equal(t,
		`SQLITE_CONSTRAINT: NOT NULL constraint failed: t.name: parameter 1: while executing "INSERT INTO t(name) VALUES (?)"`,
		full.Error())

	require.Equal(t, "boom", (&Error{msg: "boom"}).Error())
	require.Equal(t, `boom: while executing "SELECT 1"`, (&Error{msg: "boom", sql: "SELECT 1"}).Error())
	require.Equal(t, "SQLITE_BUSY: locked", (&Error{code: sqlite0.Busy, hasCode: true, msg: "locked"}).Error())
}

func TestErrorCodePresence(t *testing.T) {
	withCode := &Error{code: sqlite0.IOErr, hasCode: true, msg: "disk"}
	code, ok := withCode.Code()
	require.True(t, ok)
	require.Equal(t, sqlite0.IOErr, code)

	_, ok = (&Error{msg: "no code"}).Code()
	require.False(t, ok)
}

func TestTranslateNative(t *testing.T) {
	conn := openMem(t)
	require.NoError(t, conn.Exec(testSchema))

	err := conn.Execute("INSERT INTO t(name) VALUES (?)", nil)
	var e *Error
	require.ErrorAs(t, err, &e)
	code, ok := e.Code()
	require.True(t, ok)
	require.Equal(t, sqlite0.Constraint, code.Primary())
	require.Contains(t, e.Message(), "NOT NULL")
	require.Equal(t, "INSERT INTO t(name) VALUES (?)", e.SQL())

	// the native error stays reachable through the chain
	var native sqlite0.Error
	require.ErrorAs(t, err, &native)
}

func TestTranslateNil(t *testing.T) {
	require.NoError(t, translate(nil, "SELECT 1"))
	require.NoError(t, translateMsg(nil, "SELECT 1", "details"))
}

func TestTranslateKeepsExistingStatement(t *testing.T) {
	inner := translate(errors.New("boom"), "SELECT 1")
	outer := translate(inner, "SELECT 2")
	var e *Error
	require.ErrorAs(t, outer, &e)
	require.Equal(t, "SELECT 1", e.SQL())
}

func TestTranslateWrapsSentinels(t *testing.T) {
	err := translate(ErrFinalized, "SELECT 1")
	require.ErrorIs(t, err, ErrFinalized)
	var e *Error
	require.ErrorAs(t, err, &e)
	_, ok := e.Code()
	require.False(t, ok)
}
