package fuzzing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/arbitrary"
	"github.com/imapwire/imapfuzz/fuzzing"
	"github.com/imapwire/imapfuzz/testutil"
)

func addSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add(testutil.LiteralInput("DATA"))
	f.Add(testutil.IdleDoneInput())
	f.Add(testutil.NestedNotInput(1500))
	for _, input := range testutil.RandomInputs(8, 256) {
		f.Add(input)
	}
}

func fuzzCheck(f *testing.F, check fuzzing.Check) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, data []byte) {
		err := check(data)
		if errors.Is(err, imapfuzz.ErrSkip) {
			t.Skip(err)
		}
		if err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzToStatic(f *testing.F) {
	fuzzCheck(f, fuzzing.CheckToStatic)
}

func FuzzIntoStatic(f *testing.F) {
	fuzzCheck(f, fuzzing.CheckIntoStatic)
}

func FuzzOwned(f *testing.F) {
	fuzzCheck(f, fuzzing.CheckOwned)
}

func TestEntryOutcomes(t *testing.T) {
	violation := &fuzzing.InvariantError{Driver: fuzzing.DriverToStatic, Property: fuzzing.PropertyEqual, Detail: "differs"}
	testCases := map[string]struct {
		err         error
		expected    int
		shouldPanic bool
	}{
		"pass":      {expected: fuzzing.FuzzInteresting},
		"skip":      {err: &fuzzing.SkipError{Driver: fuzzing.DriverToStatic, Err: imapfuzz.ErrNotEnoughData}, expected: fuzzing.FuzzNormal},
		"bare skip": {err: imapfuzz.ErrSkip, expected: fuzzing.FuzzNormal},
		"violation": {err: violation, shouldPanic: true},
		"wrapped violation": {
			err:         xerrors.Errorf("replaying: %w", violation),
			shouldPanic: true,
		},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			var seen []byte
			check := func(input []byte, opts ...arbitrary.Option) error {
				seen = input
				return data.err
			}
			input := []byte{1, 2, 3}
			if data.shouldPanic {
				require.PanicsWithError(t, data.err.Error(), func() { fuzzing.RunEntry(check, input) })
				return
			}
			require.Equal(t, data.expected, fuzzing.RunEntry(check, input))
			require.Equal(t, input, seen)
		})
	}
}
