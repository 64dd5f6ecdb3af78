package imap_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/imapwire/imapfuzz/imap"
	"github.com/imapwire/imapfuzz/testutil"
)

func leafPointers(v any) []*byte {
	var ptrs []*byte
	imap.Walk(v, func(b imap.Bytes) {
		if b.Len() > 0 {
			ptrs = append(ptrs, unsafe.SliceData(b.Raw()))
		}
	})
	return ptrs
}

func TestToStatic(t *testing.T) {
	arena := testutil.NewArena(1 << 16)
	samples := testutil.SampleMessages(arena.Borrow)
	expected := testutil.SampleMessages(testutil.Owned)

	converted := make(map[string]imap.Message, len(samples))
	for name, msg := range samples {
		t.Run(name, func(t *testing.T) {
			_, borrowedBefore := imap.Leaves(msg)

			static := imap.ToStatic(msg)
			require.True(t, imap.Equal(msg, static))
			require.True(t, imap.IsStatic(static))
			require.False(t, imap.Aliases(static, arena.Buffer()))
			require.False(t, imap.SharesStorage(msg, static))

			// the input is left as it was
			_, borrowedAfter := imap.Leaves(msg)
			require.Equal(t, borrowedBefore, borrowedAfter)
			require.True(t, imap.Equal(msg, expected[name]))

			// converting a static value again changes nothing
			require.True(t, imap.Equal(static, imap.ToStatic(static)))
			converted[name] = static
		})
	}

	arena.Scribble()
	for name, static := range converted {
		require.True(t, imap.Equal(static, expected[name]), "%s changed after its input was overwritten", name)
	}
}

func TestIntoStatic(t *testing.T) {
	arena := testutil.NewArena(1 << 16)
	samples := testutil.SampleMessages(arena.Borrow)
	expected := testutil.SampleMessages(testutil.Owned)

	converted := make(map[string]imap.Message, len(samples))
	for name, msg := range samples {
		t.Run(name, func(t *testing.T) {
			baseline := imap.ToStatic(msg)

			static := imap.IntoStatic(msg)
			require.True(t, imap.Equal(baseline, static))
			require.True(t, imap.IsStatic(static))
			require.False(t, imap.Aliases(static, arena.Buffer()))
			require.True(t, imap.Equal(static, imap.IntoStatic(imap.ToStatic(static))))
			converted[name] = static
		})
	}

	arena.Scribble()
	for name, static := range converted {
		require.True(t, imap.Equal(static, expected[name]), "%s changed after its input was overwritten", name)
	}
}

func TestIntoStaticMovesOwnedLeaves(t *testing.T) {
	for name, msg := range testutil.SampleMessages(testutil.Owned) {
		t.Run(name, func(t *testing.T) {
			before := leafPointers(msg)
			static := imap.IntoStatic(msg)
			require.True(t, static == msg, "owned value should be reused")
			require.Equal(t, before, leafPointers(static))
		})
	}
}

func TestIntoStaticMixedOwnership(t *testing.T) {
	arena := testutil.NewArena(1 << 16)
	for name, msg := range testutil.SampleMessages(testutil.Mixed(arena)) {
		t.Run(name, func(t *testing.T) {
			owned := map[*byte]bool{}
			imap.Walk(msg, func(b imap.Bytes) {
				if b.IsOwned() && b.Len() > 0 {
					owned[unsafe.SliceData(b.Raw())] = true
				}
			})
			baseline := imap.ToStatic(msg)
			static := imap.IntoStatic(msg)
			require.True(t, imap.Equal(baseline, static))
			require.True(t, imap.IsStatic(static))
			require.False(t, imap.Aliases(static, arena.Buffer()))

			reused := 0
			for _, p := range leafPointers(static) {
				if owned[p] {
					reused++
				}
			}
			require.Equal(t, len(owned), reused)
		})
	}
}

func TestToStaticNil(t *testing.T) {
	var msg imap.Message
	require.Nil(t, imap.ToStatic(msg))
	require.Nil(t, imap.IntoStatic(msg))

	var lit *imap.Literal
	require.Nil(t, imap.ToStatic(lit))
}

func TestToStaticTypedNil(t *testing.T) {
	build := func() imap.BodyExtension {
		return &imap.ExtList{Items: []imap.BodyExtension{
			&imap.ExtString{Value: (*imap.Literal)(nil)},
			(*imap.ExtNumber)(nil),
		}}
	}
	ext := build()
	static := imap.ToStatic(ext)
	require.True(t, imap.Equal(ext, static))
	require.True(t, imap.IsStatic(static))

	moved := imap.IntoStatic(build())
	require.True(t, imap.Equal(ext, moved))
}

func TestSingleBorrowedLiteral(t *testing.T) {
	input := []byte("DATA")
	newMsg := func() *imap.Command {
		return &imap.Command{
			Tag: imap.Tag{Bytes: imap.OwnString("A1")},
			Body: &imap.CmdAppend{
				Mailbox: &imap.Inbox{},
				Message: &imap.Literal{Bytes: imap.Borrow(input)},
			},
		}
	}
	literalOf := func(c *imap.Command) *imap.Literal {
		return c.Body.(*imap.CmdAppend).Message
	}

	t.Run("to static", func(t *testing.T) {
		msg := newMsg()
		static := imap.ToStatic(msg)
		lit := literalOf(static)
		require.True(t, lit.IsOwned())
		require.Equal(t, "DATA", lit.String())
		require.False(t, imap.Aliases(static, input))
		// the original still views the input
		require.False(t, literalOf(msg).IsOwned())
		require.True(t, imap.Aliases(msg, input))
	})

	t.Run("into static", func(t *testing.T) {
		msg := newMsg()
		static := imap.IntoStatic(msg)
		lit := literalOf(static)
		require.True(t, lit.IsOwned())
		require.Equal(t, "DATA", lit.String())
		require.False(t, imap.Aliases(static, input))
	})
}

func TestIntoStaticWithoutLeavesDoesNotAllocate(t *testing.T) {
	testCases := map[string]imap.Message{
		"fixed tag noop": &imap.Command{Tag: imap.Tag{Bytes: imap.OwnString("A1")}, Body: &imap.CmdNoop{}},
		"exists":         &imap.ExistsData{Count: 7},
		"idle done":      &imap.IdleDone{},
		"search ids":     &imap.SearchData{IDs: []uint32{1, 2, 3}},
	}
	for name, msg := range testCases {
		t.Run(name, func(t *testing.T) {
			allocs := testing.AllocsPerRun(100, func() {
				msg = imap.IntoStatic(msg)
			})
			require.Zero(t, allocs)
		})
	}
}

func TestDeepNesting(t *testing.T) {
	const depth = 5000
	testCases := map[string]func(testutil.Source) imap.Message{
		"body extension": func(src testutil.Source) imap.Message { return testutil.DeepFetch(src, depth) },
		"search key":     func(src testutil.Source) imap.Message { return testutil.DeepSearch(src, depth) },
	}
	for name, build := range testCases {
		t.Run(name, func(t *testing.T) {
			arena := testutil.NewArena(1024)
			msg := build(arena.Borrow)
			expected := build(testutil.Owned)

			static := imap.ToStatic(msg)
			require.True(t, imap.Equal(msg, static))
			require.True(t, imap.IsStatic(static))

			moved := imap.IntoStatic(msg)
			require.True(t, imap.Equal(static, moved))
			require.True(t, imap.IsStatic(moved))

			arena.Scribble()
			require.True(t, imap.Equal(expected, static))
			require.True(t, imap.Equal(expected, moved))
		})
	}
}
