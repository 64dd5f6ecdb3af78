package fuzzing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/arbitrary"
	"github.com/imapwire/imapfuzz/fuzzing"
	"github.com/imapwire/imapfuzz/imap"
	"github.com/imapwire/imapfuzz/testutil"
)

func TestChecksOnRandomInput(t *testing.T) {
	inputs := testutil.RandomInputs(1000, 512)
	testCases := map[string]struct {
		opts []arbitrary.Option
	}{
		"all features": {},
		"no features":  {opts: []arbitrary.Option{arbitrary.WithFeatures(imapfuzz.NoFeatures)}},
		"shallow":      {opts: []arbitrary.Option{arbitrary.WithMaxDepth(2), arbitrary.WithMaxElements(2)}},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			for _, driver := range fuzzing.DriverNames() {
				check, err := fuzzing.Lookup(driver)
				require.NoError(t, err)
				passed := 0
				for _, input := range inputs {
					err := check(input, data.opts...)
					if err == nil {
						passed++
						continue
					}
					require.ErrorIs(t, err, imapfuzz.ErrSkip, "%s: %s", driver, err)
				}
				require.NotZero(t, passed, driver)
			}
		})
	}
}

func TestChecksSkipMalformedInput(t *testing.T) {
	testCases := map[string]struct {
		input       []byte
		expectedErr error
	}{
		"empty":     {input: nil, expectedErr: imapfuzz.ErrNotEnoughData},
		"empty tag": {input: []byte{0, 0, 0}, expectedErr: imapfuzz.ErrIncorrectFormat},
		"truncated": {input: testutil.LiteralInput("DATA")[:6], expectedErr: imapfuzz.ErrNotEnoughData},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			for _, check := range []fuzzing.Check{fuzzing.CheckToStatic, fuzzing.CheckIntoStatic} {
				err := check(data.input)
				require.ErrorIs(t, err, imapfuzz.ErrSkip)
				require.ErrorIs(t, err, data.expectedErr)
				var skip *fuzzing.SkipError
				require.True(t, errors.As(err, &skip))
				var violation *fuzzing.InvariantError
				require.False(t, errors.As(err, &violation))
			}
		})
	}
}

func TestSingleBorrowedLiteral(t *testing.T) {
	input := testutil.LiteralInput("DATA")
	msg, err := arbitrary.Message(input)
	require.NoError(t, err)

	static := imap.ToStatic(msg)
	literal := static.(*imap.Command).Body.(*imap.CmdSelect).Mailbox.(*imap.MailboxOther).Name.(*imap.Literal)
	require.Equal(t, "DATA", literal.String())
	require.True(t, literal.IsOwned())
	require.False(t, imap.Aliases(static, input))

	original := msg.(*imap.Command).Body.(*imap.CmdSelect).Mailbox.(*imap.MailboxOther).Name.(*imap.Literal)
	require.Equal(t, "DATA", original.String())
	require.False(t, original.IsOwned())
	require.True(t, imap.Aliases(original, input))

	for _, driver := range fuzzing.DriverNames() {
		check, err := fuzzing.Lookup(driver)
		require.NoError(t, err)
		require.NoError(t, check(input), driver)
	}
}

func TestLeaflessMessageDoesNotAllocate(t *testing.T) {
	msg, err := arbitrary.Message(testutil.IdleDoneInput())
	require.NoError(t, err)
	require.IsType(t, &imap.IdleDone{}, msg)

	var converted imap.Message
	allocs := testing.AllocsPerRun(100, func() {
		converted = imap.IntoStatic(msg)
	})
	require.Zero(t, allocs)
	require.True(t, imap.Equal(msg, converted))
	require.NoError(t, fuzzing.CheckIntoStatic(testutil.IdleDoneInput()))
}

func TestDeeplyNestedInput(t *testing.T) {
	input := testutil.NestedNotInput(1500)
	for _, check := range []fuzzing.Check{fuzzing.CheckToStatic, fuzzing.CheckIntoStatic} {
		done := make(chan error, 1)
		go func() {
			done <- check(input)
		}()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(30 * time.Second):
			require.FailNow(t, "check did not finish on deeply nested input")
		}
	}
}

func TestLookup(t *testing.T) {
	testCases := map[string]struct {
		driver      string
		expectedErr error
	}{
		"to-static":   {driver: fuzzing.DriverToStatic},
		"into-static": {driver: fuzzing.DriverIntoStatic},
		"owned":       {driver: fuzzing.DriverOwned},
		"unknown":     {driver: "parse", expectedErr: imapfuzz.ErrNotFound},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			check, err := fuzzing.Lookup(data.driver)
			if data.expectedErr != nil {
				require.ErrorIs(t, err, data.expectedErr)
				require.Nil(t, check)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, check)
		})
	}
	require.Equal(t, []string{"into-static", "owned", "to-static"}, fuzzing.DriverNames())
}

func TestGenerate(t *testing.T) {
	input := testutil.LiteralInput("DATA")
	borrowed, err := arbitrary.Message(input)
	require.NoError(t, err)

	testCases := map[string]struct {
		expected imap.Message
		static   bool
	}{
		fuzzing.DriverToStatic:   {expected: borrowed},
		fuzzing.DriverIntoStatic: {expected: borrowed},
		"custom":                 {expected: borrowed},
		fuzzing.DriverOwned:      {expected: arbitrary.Structural(input), static: true},
	}
	for driver, data := range testCases {
		t.Run(driver, func(t *testing.T) {
			v, err := fuzzing.Generate(driver, input)
			require.NoError(t, err)
			require.True(t, imap.Equal(data.expected, v), fuzzing.Render(data.expected, v))
			if data.static {
				require.True(t, imap.IsStatic(v))
			}
		})
	}
}

func TestFuzzEntryPoints(t *testing.T) {
	require.Equal(t, fuzzing.FuzzNormal, fuzzing.FuzzToStatic(nil))
	require.Equal(t, fuzzing.FuzzNormal, fuzzing.FuzzIntoStatic(nil))
	require.Equal(t, fuzzing.FuzzInteresting, fuzzing.FuzzToStatic(testutil.LiteralInput("DATA")))
	require.Equal(t, fuzzing.FuzzInteresting, fuzzing.FuzzIntoStatic(testutil.LiteralInput("DATA")))
	require.Equal(t, fuzzing.FuzzInteresting, fuzzing.FuzzOwned(testutil.RandomBytes(64)))
}

func TestInvariantError(t *testing.T) {
	err := error(&fuzzing.InvariantError{Driver: fuzzing.DriverToStatic, Property: fuzzing.PropertyEqual, Detail: "expected Command, got Status"})
	require.EqualError(t, err, "to-static: equal violated: expected Command, got Status")
	require.False(t, errors.Is(err, imapfuzz.ErrSkip))
}
