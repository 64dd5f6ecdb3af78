package imap

import "reflect"

// mode selects how the shared traversal treats leaves it reaches.
type mode uint8

const (
	// copyAll copies every leaf and allocates fresh containers
	copyAll mode = iota
	// moveOwned keeps owned leaves and containers, copying only borrowed leaves
	moveOwned
)

// Node is implemented by every AST node. The method set is unexported, so
// a variant cannot be added to a sum type without teaching the traversal
// how to convert and compare it.
type Node interface {
	convert(m mode) Node
	equal(o Node) bool
}

// ToStatic returns a fully owned copy of v that shares no storage with it.
// v is left untouched and stays usable.
func ToStatic[T Node](v T) T {
	return conv(v, copyAll)
}

// IntoStatic converts v into a fully owned value, consuming it. Owned leaves
// and containers are reused; only borrowed leaves are copied. The caller must
// not use v afterwards except through the returned value.
func IntoStatic[T Node](v T) T {
	return conv(v, moveOwned)
}

// Equal reports whether a and b are structurally equal: same variants, same
// scalars and same leaf contents. Ownership and memory layout are ignored.
func Equal[T Node](a, b T) bool {
	return eq(a, b)
}

// isNil treats a nil pointer stored in a sum-typed position like an absent
// value, so NIL fields never reach a variant method.
func isNil[T Node](v T) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil())
}

func conv[T Node](v T, m mode) T {
	if isNil(v) {
		return v
	}
	return v.convert(m).(T)
}

func eq[T Node](a, b T) bool {
	an, bn := isNil(a), isNil(b)
	if an || bn {
		return an == bn
	}
	return a.equal(b)
}

// target returns where a converted pointer variant is written: the value
// itself when moving, a fresh allocation when copying.
func target[T any](v *T, m mode) *T {
	if m == moveOwned {
		return v
	}
	return new(T)
}

func convSlice[T Node](xs []T, m mode) []T {
	if xs == nil {
		return nil
	}
	out := xs
	if m == copyAll {
		out = make([]T, len(xs))
	}
	for i, x := range xs {
		out[i] = conv(x, m)
	}
	return out
}

func eqSlice[T Node](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// record is a value type holding leaves, such as Flag or Capability.
type record[T any] interface {
	convert(m mode) T
	equal(o T) bool
}

func convRecords[T record[T]](xs []T, m mode) []T {
	if xs == nil {
		return nil
	}
	out := xs
	if m == copyAll {
		out = make([]T, len(xs))
	}
	for i, x := range xs {
		out[i] = x.convert(m)
	}
	return out
}

func eqRecords[T record[T]](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}

func convRecordPtr[T record[T]](p *T, m mode) *T {
	if p == nil {
		return nil
	}
	if m == copyAll {
		v := (*p).convert(m)
		return &v
	}
	*p = (*p).convert(m)
	return p
}

func eqRecordPtr[T record[T]](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return (*a).equal(*b)
}

// copyScalars handles slices without leaves. Moving keeps the slice.
func copyScalars[T any](xs []T, m mode) []T {
	if xs == nil || m == moveOwned {
		return xs
	}
	out := make([]T, len(xs))
	copy(out, xs)
	return out
}

func eqScalars[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func copyScalarPtr[T any](p *T, m mode) *T {
	if p == nil || m == moveOwned {
		return p
	}
	v := *p
	return &v
}

func eqScalarPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func convBytesPtr(p *Bytes, m mode) *Bytes {
	if p == nil {
		return nil
	}
	if m == copyAll {
		v := p.convert(m)
		return &v
	}
	*p = p.convert(m)
	return p
}

func eqBytesPtr(a, b *Bytes) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
