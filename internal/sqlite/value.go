package sqlite

import (
	"fmt"
	"math"

	"github.com/maranix/nodal/internal/sqlite/sqlite0"
)

// Kind is the storage class of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a bound or decoded dynamic value: exactly one of null, 64-bit
// integer, double, UTF-8 text or byte sequence. Booleans are represented
// as 0/1 integers at the native boundary.
type Value struct {
	kind Kind
	n    int64
	f    float64
	s    string
	b    []byte
}

func Null() Value {
	return Value{kind: KindNull}
}

func Integer(n int64) Value {
	return Value{kind: KindInteger, n: n}
}

func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

func Blob(b []byte) Value {
	return Value{kind: KindBlob, b: b}
}

func Bool(b bool) Value {
	if b {
		return Integer(1)
	}
	return Integer(0)
}

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) Int64() int64     { return v.n }
func (v Value) Float64() float64 { return v.f }
func (v Value) Text() string     { return v.s }
func (v Value) Blob() []byte     { return v.b }

// Any unpacks the value into its Go representation: nil, int64, float64,
// string or []byte.
func (v Value) Any() any {
	switch v.kind {
	case KindInteger:
		return v.n
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBlob:
		return v.b
	default:
		return nil
	}
}

// ValueOf encodes a Go dynamic value. Anything outside the supported set
// fails with ErrUnsupportedType before reaching a native call.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Integer(int64(x)), nil
	case int8:
		return Integer(int64(x)), nil
	case int16:
		return Integer(int64(x)), nil
	case int32:
		return Integer(int64(x)), nil
	case int64:
		return Integer(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: uint value %d overflows the integer storage class", ErrUnsupportedType, x)
		}
		return Integer(int64(x)), nil
	case uint8:
		return Integer(int64(x)), nil
	case uint16:
		return Integer(int64(x)), nil
	case uint32:
		return Integer(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: uint64 value %d overflows the integer storage class", ErrUnsupportedType, x)
		}
		return Integer(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return Text(x), nil
	case []byte:
		return Blob(x), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// bindTo applies the value to a 1-based parameter slot. Text and blob use
// transient semantics: the engine copies the data before the call returns.
func (v Value) bindTo(s *sqlite0.Stmt, param int) error {
	switch v.kind {
	case KindNull:
		return s.BindNull(param)
	case KindInteger:
		return s.BindInt64(param, v.n)
	case KindFloat:
		return s.BindFloat64(param, v.f)
	case KindText:
		return s.BindText(param, v.s)
	case KindBlob:
		return s.BindBlob(param, v.b)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, v.kind)
	}
}

// columnValue decodes column i of the current row, dispatching on the
// native storage class. Text and blob bytes are copied out of native
// memory before the next step/reset can invalidate them.
func columnValue(s *sqlite0.Stmt, i int) (Value, error) {
	switch s.ColumnType(i) {
	case sqlite0.ColumnInteger:
		return Integer(s.ColumnInt64(i)), nil
	case sqlite0.ColumnFloat:
		return Float(s.ColumnFloat64(i)), nil
	case sqlite0.ColumnText:
		text, err := s.ColumnText(i)
		if err != nil {
			return Value{}, err
		}
		return Text(text), nil
	case sqlite0.ColumnBlob:
		b, err := s.ColumnBlob(i, nil)
		if err != nil {
			return Value{}, err
		}
		return Blob(b), nil
	default:
		return Null(), nil
	}
}
