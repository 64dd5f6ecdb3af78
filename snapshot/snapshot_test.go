package snapshot_test

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/stretchr/testify/require"

	"github.com/imapwire/imapfuzz/imap"
	"github.com/imapwire/imapfuzz/snapshot"
	"github.com/imapwire/imapfuzz/testutil"
)

func TestNode(t *testing.T) {
	tag, err := imap.NewTag(imap.OwnString("a1"))
	require.NoError(t, err)
	msg := imap.Message(&imap.Command{Tag: tag, Body: &imap.CmdNoop{}})

	n, err := snapshot.Node(msg)
	require.NoError(t, err)
	require.Equal(t, datamodel.Kind_Map, n.Kind())

	cmd, err := n.LookupByString("Command")
	require.NoError(t, err)
	tagNode, err := cmd.LookupByString("Tag")
	require.NoError(t, err)
	tagBytes, err := tagNode.AsBytes()
	require.NoError(t, err)
	require.Equal(t, []byte("a1"), tagBytes)

	body, err := cmd.LookupByString("Body")
	require.NoError(t, err)
	noop, err := body.LookupByString("CmdNoop")
	require.NoError(t, err)
	require.Zero(t, noop.Length())
}

func TestNodeNil(t *testing.T) {
	status := &imap.Status{Kind: imap.StatusOk}
	n, err := snapshot.Node(status)
	require.NoError(t, err)
	inner, err := n.LookupByString("Status")
	require.NoError(t, err)
	for _, field := range []string{"Tag", "Code"} {
		v, err := inner.LookupByString(field)
		require.NoError(t, err)
		require.True(t, v.IsNull(), field)
	}
}

func TestFingerprintTypedNil(t *testing.T) {
	typed, err := snapshot.Fingerprint(&imap.ExtString{Value: (*imap.Literal)(nil)})
	require.NoError(t, err)
	absent, err := snapshot.Fingerprint(&imap.ExtString{})
	require.NoError(t, err)
	require.True(t, typed.Equals(absent))
}

func TestFingerprintIgnoresOwnership(t *testing.T) {
	arena := testutil.NewArena(1 << 16)
	borrowed := testutil.SampleMessages(arena.Borrow)
	mixed := testutil.SampleMessages(testutil.Mixed(testutil.NewArena(1 << 16)))
	owned := testutil.SampleMessages(testutil.Owned)

	seen := make(map[cid.Cid]string, len(owned))
	for name, msg := range owned {
		t.Run(name, func(t *testing.T) {
			expected, err := snapshot.Fingerprint(msg)
			require.NoError(t, err)
			require.Equal(t, snapshot.Prefix.Codec, expected.Prefix().Codec)

			fromBorrowed, err := snapshot.Fingerprint(borrowed[name])
			require.NoError(t, err)
			require.Equal(t, expected, fromBorrowed)

			fromMixed, err := snapshot.Fingerprint(mixed[name])
			require.NoError(t, err)
			require.Equal(t, expected, fromMixed)

			other, dup := seen[expected]
			require.False(t, dup, "same fingerprint as %s", other)
			seen[expected] = name
		})
	}
}

func TestFingerprintDetectsScribble(t *testing.T) {
	arena := testutil.NewArena(1 << 16)
	msg := testutil.SampleCommands(arena.Borrow)["login"]
	before, err := snapshot.Fingerprint(msg)
	require.NoError(t, err)

	static := imap.ToStatic(msg)
	arena.Scribble()

	after, err := snapshot.Fingerprint(msg)
	require.NoError(t, err)
	require.NotEqual(t, before, after)

	kept, err := snapshot.Fingerprint(static)
	require.NoError(t, err)
	require.Equal(t, before, kept)
}

func TestInputID(t *testing.T) {
	first, err := snapshot.InputID([]byte("input"))
	require.NoError(t, err)
	second, err := snapshot.InputID([]byte("input"))
	require.NoError(t, err)
	other, err := snapshot.InputID([]byte("other"))
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.NotEqual(t, first, other)
	require.Equal(t, uint64(cid.Raw), first.Prefix().Codec)
}

func TestRender(t *testing.T) {
	testCases := map[string]struct {
		value    any
		contains []string
	}{
		"command": {
			value:    testutil.SampleCommands(testutil.Owned)["login"],
			contains: []string{`"Command"`, `"CmdLogin"`, `"Username"`, `"bytes"`},
		},
		"greeting": {
			value:    testutil.SampleResponses(testutil.Owned)["greeting"],
			contains: []string{`"Greeting"`, `"Kind":0`},
		},
		"nil": {
			value:    nil,
			contains: []string{"null"},
		},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			out, err := snapshot.Render(data.value)
			require.NoError(t, err)
			for _, s := range data.contains {
				require.Contains(t, out, s)
			}
		})
	}
}

func TestEncodeDeepValues(t *testing.T) {
	deep := testutil.DeepFetch(testutil.Owned, 5000)
	data, err := snapshot.Encode(deep)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	again, err := snapshot.Encode(imap.ToStatic(deep))
	require.NoError(t, err)
	require.Equal(t, data, again)
}
