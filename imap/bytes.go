package imap

import (
	"bytes"
	"strconv"
)

// Bytes is a variable-length field. It either borrows its storage from a
// buffer owned by someone else or owns it outright.
type Bytes struct {
	raw   []byte
	owned bool
}

// Borrow returns a Bytes that views b. The caller keeps ownership of b and must
// keep it alive and unmodified for as long as the view is in use.
func Borrow(b []byte) Bytes {
	return Bytes{raw: b}
}

// Own returns a Bytes that takes ownership of b. The caller must not retain b.
func Own(b []byte) Bytes {
	return Bytes{raw: b, owned: true}
}

// OwnString returns an owned copy of s.
func OwnString(s string) Bytes {
	return Bytes{raw: []byte(s), owned: true}
}

// Raw returns the underlying slice without copying.
func (b Bytes) Raw() []byte {
	return b.raw
}

// Len returns the number of bytes.
func (b Bytes) Len() int {
	return len(b.raw)
}

// IsOwned reports whether the storage belongs to this value. An empty value
// refers to no storage and counts as owned.
func (b Bytes) IsOwned() bool {
	return b.owned || len(b.raw) == 0
}

func (b Bytes) String() string {
	return string(b.raw)
}

// GoString renders the content and the ownership mode.
func (b Bytes) GoString() string {
	if b.owned {
		return "owned(" + strconv.Quote(string(b.raw)) + ")"
	}
	return "borrowed(" + strconv.Quote(string(b.raw)) + ")"
}

// Equal compares content only. Ownership is not part of a value's identity.
func (b Bytes) Equal(o Bytes) bool {
	return bytes.Equal(b.raw, o.raw)
}

func (b Bytes) convert(m mode) Bytes {
	if m == moveOwned && b.IsOwned() {
		return b
	}
	if len(b.raw) == 0 {
		return Bytes{owned: true}
	}
	out := make([]byte, len(b.raw))
	copy(out, b.raw)
	return Bytes{raw: out, owned: true}
}
