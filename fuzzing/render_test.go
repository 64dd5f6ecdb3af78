//go:build !imapfuzz_debug

package fuzzing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imapwire/imapfuzz/fuzzing"
	"github.com/imapwire/imapfuzz/imap"
)

func TestRender(t *testing.T) {
	require.False(t, fuzzing.Debug)
	testCases := map[string]struct {
		expected any
		actual   any
		out      string
	}{
		"nodes":   {expected: &imap.IdleDone{}, actual: &imap.ExistsData{Count: 1}, out: "expected IdleDone, got ExistsData"},
		"missing": {expected: nil, actual: &imap.CmdNoop{}, out: "expected <nil>, got CmdNoop"},
		"counts":  {expected: 3, actual: 2, out: "expected 3, got 2"},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, data.out, fuzzing.Render(data.expected, data.actual))
		})
	}
}
