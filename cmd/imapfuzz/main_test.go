package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/arbitrary"
	"github.com/imapwire/imapfuzz/crashers"
	"github.com/imapwire/imapfuzz/fuzzing"
	"github.com/imapwire/imapfuzz/imap"
	"github.com/imapwire/imapfuzz/snapshot"
	"github.com/imapwire/imapfuzz/testutil"
)

func rendered(t *testing.T, v imap.Message) string {
	id, err := snapshot.Fingerprint(v)
	require.NoError(t, err)
	out, err := snapshot.Render(v)
	require.NoError(t, err)
	return id.String() + "\n" + out + "\n"
}

func TestShow(t *testing.T) {
	ctx := context.Background()
	input := testutil.LiteralInput("DATA")
	owned := []byte("owned crasher input")
	opt := arbitrary.WithFeatures(imapfuzz.AllFeatures)

	borrowed, err := arbitrary.Message(input, opt)
	require.NoError(t, err)
	fromInput := rendered(t, borrowed)
	fromOwned := rendered(t, arbitrary.Structural(owned, opt))
	ownedInput := rendered(t, arbitrary.Structural(input, opt))

	dir := filepath.Join(t.TempDir(), "store")
	store, err := crashers.Open(dir)
	require.NoError(t, err)
	borrowedID, err := store.Put(ctx, input, crashers.Report{Driver: fuzzing.DriverToStatic, Property: fuzzing.PropertyEqual})
	require.NoError(t, err)
	ownedID, err := store.Put(ctx, owned, crashers.Report{Driver: fuzzing.DriverOwned, Property: fuzzing.PropertyMoved})
	require.NoError(t, err)
	require.NoError(t, store.Close())
	file := testutil.WriteCorpus(t, [][]byte{input})

	testCases := map[string]struct {
		args     []string
		expected string
	}{
		"file":             {args: []string{filepath.Join(file, "input-0")}, expected: fromInput},
		"file as owned":    {args: []string{"--driver", fuzzing.DriverOwned, filepath.Join(file, "input-0")}, expected: ownedInput},
		"borrowed crasher": {args: []string{"--store", dir, borrowedID.String()}, expected: fromInput},
		"owned crasher":    {args: []string{"--store", dir, ownedID.String()}, expected: fromOwned},
		"driver flag wins": {args: []string{"--store", dir, "--driver", fuzzing.DriverOwned, borrowedID.String()}, expected: ownedInput},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			app := newApp()
			app.Writer = &out
			args := append([]string{"imapfuzz", "show", "--features", "all"}, data.args...)
			require.NoError(t, app.Run(args))
			require.Equal(t, data.expected, out.String())
		})
	}
}

func TestShowDriver(t *testing.T) {
	reports := []crashers.Report{{Driver: fuzzing.DriverOwned}, {Driver: fuzzing.DriverToStatic}}
	require.Equal(t, fuzzing.DriverOwned, showDriver("", reports))
	require.Equal(t, fuzzing.DriverIntoStatic, showDriver(fuzzing.DriverIntoStatic, reports))
	require.Equal(t, "", showDriver("", nil))
}
