package sqlite0

/*
#include <sqlite3.h>
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

// LogFunc receives messages from the native error log.
type LogFunc func(code int, msg string)

var (
	emptyBytes = make([]byte, 0)

	logFunc   LogFunc = func(code int, msg string) {}
	logFuncMu sync.Mutex
)

//export _sqliteLogFunc
func _sqliteLogFunc(_ unsafe.Pointer, cCode C.int, cMsg *C.char) {
	msg := ""
	if cMsg != nil {
		msg = C.GoString(cMsg)
	}

	logFuncMu.Lock()
	defer logFuncMu.Unlock()

	logFunc(int(cCode), msg)
}

// Error is a native failure: the status code plus the message the engine
// reported at the moment of the failed call.
type Error struct {
	rc   ResultCode
	raw  int
	from string
	msg  string
}

// Code is the catalog variant for the failure, Unknown if the raw code is
// outside the catalog.
func (err Error) Code() ResultCode {
	return err.rc
}

// RawCode is the untranslated native status code, extended part included.
func (err Error) RawCode() int {
	return err.raw
}

// Message is the native-supplied error message.
func (err Error) Message() string {
	return err.msg
}

func (err Error) Error() string {
	return fmt.Sprintf("%s: %s [%s]", err.from, err.msg, err.rc)
}

// sqliteErr must be called immediately after the failed operation, before
// any other call touches the connection.
func sqliteErr(rc C.int, conn *C.sqlite3, from string) error {
	if rc == ok {
		return nil
	}
	code, _ := Lookup(int(rc))
	if conn != nil && (rc == C.sqlite3_errcode(conn) || rc == C.sqlite3_extended_errcode(conn)) {
		return Error{code, int(rc), from, C.GoString(C.sqlite3_errmsg(conn))}
	}
	return Error{code, int(rc), from, C.GoString(C.sqlite3_errstr(rc))}
}

func ensureZeroTerm(s []byte) []byte {
	if len(s) == 0 || s[len(s)-1] != 0 {
		return append(s, '\x00')
	}
	return s
}

func ensureZeroTermStr(s string) string {
	if len(s) == 0 || s[len(s)-1] != 0 {
		s += "\x00"
	}
	return s
}

// unsafeSlicePtr always returns a non-nil pointer.
func unsafeSlicePtr(b []byte) unsafe.Pointer {
	if b == nil {
		b = emptyBytes
	}
	return unsafe.Pointer(unsafe.SliceData(b))
}

// unsafeStringPtr always returns a non-nil pointer.
func unsafeStringPtr(s string) unsafe.Pointer {
	if s == "" {
		return unsafeSlicePtr(nil)
	}
	return unsafe.Pointer(unsafe.StringData(s))
}

// unsafeSliceCPtr always returns a non-nil pointer.
func unsafeSliceCPtr(s []byte) *C.char {
	return (*C.char)(unsafeSlicePtr(s))
}

// unsafeStringCPtr always returns a non-nil pointer.
func unsafeStringCPtr(s string) *C.char {
	return (*C.char)(unsafeStringPtr(s))
}

func unsafePtrToSlice(p unsafe.Pointer, n int) (b []byte) {
	if n > 0 {
		b = unsafe.Slice((*byte)(p), n)
	}
	return
}
