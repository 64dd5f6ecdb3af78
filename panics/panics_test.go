package panics_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/panics"
)

func TestCapture(t *testing.T) {
	errFailed := errors.New("failed")
	testCases := map[string]struct {
		fn          func() error
		expectedErr error
		panicked    bool
		value       interface{}
	}{
		"returns nil": {
			fn: func() error { return nil },
		},
		"returns error": {
			fn:          func() error { return errFailed },
			expectedErr: errFailed,
		},
		"panics with string": {
			fn:       func() error { panic("boom") },
			panicked: true,
			value:    "boom",
		},
		"panics with error": {
			fn:          func() error { panic(imapfuzz.ErrDepthExceeded) },
			expectedErr: imapfuzz.ErrDepthExceeded,
			panicked:    true,
			value:       imapfuzz.ErrDepthExceeded,
		},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			err := panics.Capture(data.fn)
			if data.expectedErr != nil {
				require.ErrorIs(t, err, data.expectedErr)
			}
			var perr *panics.Error
			if !data.panicked {
				require.False(t, errors.As(err, &perr))
				if data.expectedErr == nil {
					require.NoError(t, err)
				}
				return
			}
			require.True(t, errors.As(err, &perr))
			require.Equal(t, data.value, perr.Value)
			require.Contains(t, perr.Stack, "panics_test.go")
		})
	}
}

func TestMakeHandler(t *testing.T) {
	var recovered interface{}
	var stack string
	func() {
		defer panics.MakeHandler(func(obj interface{}, trace string) {
			recovered = obj
			stack = trace
		})()
		panic("handled")
	}()
	require.Equal(t, "handled", recovered)
	require.NotEmpty(t, stack)
}
