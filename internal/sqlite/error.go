package sqlite

import (
	"errors"
	"strconv"
	"strings"

	"github.com/maranix/nodal/internal/sqlite/sqlite0"
)

var (
	ErrAlreadyClosed   = errors.New("sqlite: connection already closed")
	ErrFinalized       = errors.New("sqlite: statement finalized")
	ErrUnsupportedType = errors.New("sqlite: unsupported value type")
)

// Error is the structured failure every operation of this package
// surfaces. The message is always present; the result code, the causing
// statement and the explanation are optional (a connection-open failure,
// for example, is not statement-scoped). No native error type crosses
// this boundary.
type Error struct {
	code    sqlite0.ResultCode
	hasCode bool
	msg     string
	details string
	sql     string
	cause   error
}

// Code returns the translated result code; ok is false when the failure
// carries none.
func (e *Error) Code() (code sqlite0.ResultCode, ok bool) {
	return e.code, e.hasCode
}

func (e *Error) Message() string { return e.msg }
func (e *Error) Details() string { return e.details }
func (e *Error) SQL() string     { return e.sql }

func (e *Error) Unwrap() error { return e.cause }

// Error renders every present field on its own segment, in the order
// result code, message, explanation, causing statement.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.hasCode {
		sb.WriteString(e.code.String())
		sb.WriteString(": ")
	}
	sb.WriteString(e.msg)
	if e.details != "" {
		sb.WriteString(": ")
		sb.WriteString(e.details)
	}
	if e.sql != "" {
		sb.WriteString(": while executing ")
		sb.WriteString(strconv.Quote(e.sql))
	}
	return sb.String()
}

// translate wraps a native or internal failure into *Error, attaching the
// causing statement text. Must be called at the point of the failed call,
// per the propagation policy: no error is swallowed and none is retried.
func translate(err error, sql string) error {
	if err == nil {
		return nil
	}
	var structured *Error
	if errors.As(err, &structured) {
		if structured.sql == "" {
			structured.sql = sql
		}
		return structured
	}
	var native sqlite0.Error
	if errors.As(err, &native) {
		return &Error{
			code:    native.Code(),
			hasCode: true,
			msg:     native.Message(),
			sql:     sql,
			cause:   err,
		}
	}
	return &Error{msg: err.Error(), sql: sql, cause: err}
}

// translateMsg is translate with an explanation attached.
func translateMsg(err error, sql, details string) error {
	terr := translate(err, sql)
	if terr == nil {
		return nil
	}
	e := terr.(*Error)
	if e.details == "" {
		e.details = details
	}
	return e
}
