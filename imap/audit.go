package imap

import (
	"reflect"
	"sort"
	"unsafe"
)

var bytesType = reflect.TypeOf(Bytes{})

// Walk calls fn for every Bytes leaf reachable from v, in field order.
func Walk(v any, fn func(Bytes)) {
	walk(reflect.ValueOf(v), fn)
}

func walk(rv reflect.Value, fn func(Bytes)) {
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return
		}
		walk(rv.Elem(), fn)
	case reflect.Struct:
		if rv.Type() == bytesType {
			if rv.CanInterface() {
				fn(rv.Interface().(Bytes))
			}
			return
		}
		for i := 0; i < rv.NumField(); i++ {
			walk(rv.Field(i), fn)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			walk(rv.Index(i), fn)
		}
	}
}

// Leaves counts the owned and borrowed leaves reachable from v.
func Leaves(v any) (owned int, borrowed int) {
	Walk(v, func(b Bytes) {
		if b.IsOwned() {
			owned++
		} else {
			borrowed++
		}
	})
	return owned, borrowed
}

// IsStatic reports whether every leaf reachable from v is owned.
func IsStatic(v any) bool {
	_, borrowed := Leaves(v)
	return borrowed == 0
}

type span struct {
	lo, hi uintptr
}

func spanOf(b []byte) (span, bool) {
	if len(b) == 0 {
		return span{}, false
	}
	lo := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return span{lo: lo, hi: lo + uintptr(len(b))}, true
}

// Aliases reports whether any leaf reachable from v points into buf.
func Aliases(v any, buf []byte) bool {
	bs, ok := spanOf(buf)
	if !ok {
		return false
	}
	found := false
	Walk(v, func(b Bytes) {
		s, ok := spanOf(b.raw)
		if ok && s.lo < bs.hi && bs.lo < s.hi {
			found = true
		}
	})
	return found
}

// SharesStorage reports whether any leaf of a overlaps any leaf of b.
func SharesStorage(a, b any) bool {
	var spans []span
	Walk(a, func(x Bytes) {
		if s, ok := spanOf(x.raw); ok {
			spans = append(spans, s)
		}
	})
	if len(spans) == 0 {
		return false
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	// prefix maximum of hi, so a single search finds any overlap
	maxHi := make([]uintptr, len(spans))
	for i, s := range spans {
		maxHi[i] = s.hi
		if i > 0 && maxHi[i-1] > s.hi {
			maxHi[i] = maxHi[i-1]
		}
	}
	found := false
	Walk(b, func(x Bytes) {
		s, ok := spanOf(x.raw)
		if !ok || found {
			return
		}
		// spans[:n] start before s ends
		n := sort.Search(len(spans), func(i int) bool { return spans[i].lo >= s.hi })
		if n > 0 && maxHi[n-1] > s.lo {
			found = true
		}
	})
	return found
}

// TypeName returns the name of the concrete type behind n.
func TypeName(n Node) string {
	if n == nil {
		return "nil"
	}
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
