package sqlite0

import "strconv"

// ResultCode is a native status code. The catalog below covers the full
// documented primary status space; extended codes map onto it via Primary.
// https://www.sqlite.org/rescode.html
type ResultCode int32

const (
	OK           ResultCode = 0
	GenericError ResultCode = 1
	Internal     ResultCode = 2
	Perm         ResultCode = 3
	Abort        ResultCode = 4
	Busy         ResultCode = 5
	Locked       ResultCode = 6
	NoMem        ResultCode = 7
	ReadOnly     ResultCode = 8
	Interrupt    ResultCode = 9
	IOErr        ResultCode = 10
	Corrupt      ResultCode = 11
	NotFound     ResultCode = 12
	Full         ResultCode = 13
	CantOpen     ResultCode = 14
	Protocol     ResultCode = 15
	Empty        ResultCode = 16
	Schema       ResultCode = 17
	TooBig       ResultCode = 18
	Constraint   ResultCode = 19
	Mismatch     ResultCode = 20
	Misuse       ResultCode = 21
	NoLFS        ResultCode = 22
	Auth         ResultCode = 23
	Format       ResultCode = 24
	Range        ResultCode = 25
	NotADB       ResultCode = 26
	Notice       ResultCode = 27
	Warning      ResultCode = 28
	Row          ResultCode = 100
	Done         ResultCode = 101

	// Unknown is the explicit fallback for codes outside the catalog.
	Unknown ResultCode = -1
)

var codeNames = map[ResultCode]string{
	OK:           "SQLITE_OK",
	GenericError: "SQLITE_ERROR",
	Internal:     "SQLITE_INTERNAL",
	Perm:         "SQLITE_PERM",
	Abort:        "SQLITE_ABORT",
	Busy:         "SQLITE_BUSY",
	Locked:       "SQLITE_LOCKED",
	NoMem:        "SQLITE_NOMEM",
	ReadOnly:     "SQLITE_READONLY",
	Interrupt:    "SQLITE_INTERRUPT",
	IOErr:        "SQLITE_IOERR",
	Corrupt:      "SQLITE_CORRUPT",
	NotFound:     "SQLITE_NOTFOUND",
	Full:         "SQLITE_FULL",
	CantOpen:     "SQLITE_CANTOPEN",
	Protocol:     "SQLITE_PROTOCOL",
	Empty:        "SQLITE_EMPTY",
	Schema:       "SQLITE_SCHEMA",
	TooBig:       "SQLITE_TOOBIG",
	Constraint:   "SQLITE_CONSTRAINT",
	Mismatch:     "SQLITE_MISMATCH",
	Misuse:       "SQLITE_MISUSE",
	NoLFS:        "SQLITE_NOLFS",
	Auth:         "SQLITE_AUTH",
	Format:       "SQLITE_FORMAT",
	Range:        "SQLITE_RANGE",
	NotADB:       "SQLITE_NOTADB",
	Notice:       "SQLITE_NOTICE",
	Warning:      "SQLITE_WARNING",
	Row:          "SQLITE_ROW",
	Done:         "SQLITE_DONE",
}

// Lookup maps a raw native status code to a catalog variant. The second
// return is false for codes outside the catalog; that is a valid result,
// not an error. Extended codes resolve to their primary class.
func Lookup(code int) (ResultCode, bool) {
	rc := ResultCode(code)
	if _, ok := codeNames[rc]; ok {
		return rc, true
	}
	if primary := rc.Primary(); primary != rc {
		if _, ok := codeNames[primary]; ok {
			return primary, true
		}
	}
	return Unknown, false
}

// Primary strips the extended part of a result code, e.g.
// SQLITE_CONSTRAINT_NOTNULL (1299) becomes SQLITE_CONSTRAINT (19).
func (rc ResultCode) Primary() ResultCode {
	if rc < 0 {
		return rc
	}
	return rc & 0xff
}

func (rc ResultCode) String() string {
	if s, ok := codeNames[rc]; ok {
		return s
	}
	if s, ok := codeNames[rc.Primary()]; ok {
		return s + "(" + strconv.Itoa(int(rc)) + ")"
	}
	return "SQLITE_UNKNOWN(" + strconv.Itoa(int(rc)) + ")"
}
