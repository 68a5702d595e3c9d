package sqlite0

import "testing"

func TestUnsafePtrNonNil(t *testing.T) {
	p1 := unsafeSlicePtr(nil)
	if p1 == nil {
		t.Fatalf("got nil from unsafeSlicePtr")
	}
	p2 := unsafeStringPtr("")
	if p2 == nil {
		t.Fatalf("got nil from unsafeStringPtr")
	}
	p3 := unsafeSliceCPtr(nil)
	if p3 == nil {
		t.Fatalf("got nil from unsafeSliceCPtr")
	}
	p4 := unsafeStringCPtr("")
	if p4 == nil {
		t.Fatalf("got nil from unsafeStringCPtr")
	}
}

func TestEnsureZeroTerm(t *testing.T) {
	if got := ensureZeroTermStr("abc"); got != "abc\x00" {
		t.Fatalf("got %q", got)
	}
	if got := ensureZeroTermStr("abc\x00"); got != "abc\x00" {
		t.Fatalf("got %q", got)
	}
	if got := ensureZeroTermStr(""); got != "\x00" {
		t.Fatalf("got %q", got)
	}
	b := ensureZeroTerm([]byte("abc"))
	if string(b) != "abc\x00" {
		t.Fatalf("got %q", b)
	}
}
