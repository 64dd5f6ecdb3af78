package testutil

import (
	"reflect"

	"github.com/imapwire/imapfuzz/imap"
)

// TypeNames returns the names of every node type reachable from v.
func TypeNames(v any) map[string]bool {
	names := make(map[string]bool)
	collectTypeNames(reflect.ValueOf(v), names)
	return names
}

var nodeType = reflect.TypeOf((*imap.Node)(nil)).Elem()

func collectTypeNames(rv reflect.Value, names map[string]bool) {
	switch rv.Kind() {
	case reflect.Interface:
		if !rv.IsNil() {
			collectTypeNames(rv.Elem(), names)
		}
	case reflect.Ptr:
		if rv.IsNil() {
			return
		}
		if rv.Type().Implements(nodeType) {
			names[rv.Type().Elem().Name()] = true
		}
		collectTypeNames(rv.Elem(), names)
	case reflect.Slice:
		for i := 0; i < rv.Len(); i++ {
			collectTypeNames(rv.Index(i), names)
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if rv.Type().Field(i).IsExported() {
				collectTypeNames(rv.Field(i), names)
			}
		}
	}
}

// SearchDepth returns how many SearchNot keys are nested from k.
func SearchDepth(k imap.SearchKey) int {
	depth := 0
	for {
		not, ok := k.(*imap.SearchNot)
		if !ok {
			return depth
		}
		depth++
		k = not.Key
	}
}
