//go:build imapfuzz_debug

package fuzzing

import (
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"

	"github.com/imapwire/imapfuzz/imap"
)

// Debug reports whether Render dumps full values.
const Debug = true

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

var bytesContent = cmp.Comparer(func(a, b imap.Bytes) bool {
	return a.Equal(b)
})

// Render dumps both sides of a failed check and, when both are AST values,
// their difference.
func Render(expected, actual any) string {
	var sb strings.Builder
	sb.WriteString("expected ")
	sb.WriteString(describe(expected))
	sb.WriteString(":\n")
	sb.WriteString(dumper.Sdump(expected))
	sb.WriteString("actual ")
	sb.WriteString(describe(actual))
	sb.WriteString(":\n")
	sb.WriteString(dumper.Sdump(actual))
	_, expectedNode := expected.(imap.Node)
	_, actualNode := actual.(imap.Node)
	if expectedNode && actualNode {
		sb.WriteString("diff (-expected +actual):\n")
		sb.WriteString(cmp.Diff(expected, actual, bytesContent))
	}
	return sb.String()
}
