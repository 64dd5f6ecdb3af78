package imap_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/imap"
)

func TestConstructors(t *testing.T) {
	testCases := map[string]struct {
		construct func(imap.Bytes) error
		valid     []string
		invalid   []string
	}{
		"atom": {
			construct: func(b imap.Bytes) error { _, err := imap.NewAtom(b); return err },
			valid:     []string{"FOO", "$Junk", "a+b"},
			invalid:   []string{"", "a b", "x(", "50%", "quo\"te", "close]", "\x7f"},
		},
		"tag": {
			construct: func(b imap.Bytes) error { _, err := imap.NewTag(b); return err },
			valid:     []string{"A001", "tag]"},
			invalid:   []string{"", "+", "a+", "a b"},
		},
		"text": {
			construct: func(b imap.Bytes) error { _, err := imap.NewText(b); return err },
			valid:     []string{"hello world", "\xc3\xa9t\xc3\xa9"},
			invalid:   []string{"", "line\r\n", "nul\x00"},
		},
		"astring": {
			construct: func(b imap.Bytes) error { _, err := imap.NewAtomExt(b); return err },
			valid:     []string{"INBOX", "a]b"},
			invalid:   []string{"", "a*"},
		},
		"quoted": {
			construct: func(b imap.Bytes) error { _, err := imap.NewQuoted(b); return err },
			valid:     []string{"", "with \"quotes\" and \\"},
			invalid:   []string{"new\nline"},
		},
		"literal": {
			construct: func(b imap.Bytes) error { _, err := imap.NewLiteral(b, imap.Sync); return err },
			valid:     []string{"", "any\r\nbytes\xff"},
			invalid:   []string{"\x00"},
		},
		"charset": {
			construct: func(b imap.Bytes) error { _, err := imap.NewCharset(b); return err },
			valid:     []string{"UTF-8"},
			invalid:   []string{""},
		},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			for _, s := range data.valid {
				require.NoError(t, data.construct(imap.Borrow([]byte(s))), "%q", s)
			}
			for _, s := range data.invalid {
				err := data.construct(imap.Borrow([]byte(s)))
				require.Error(t, err, "%q", s)
				require.True(t, xerrors.Is(err, imapfuzz.ErrIncorrectFormat))
			}
		})
	}
}

func TestNewMailbox(t *testing.T) {
	for _, name := range []string{"INBOX", "inbox", "InBoX"} {
		mb := imap.NewMailbox(&imap.AtomExt{Bytes: imap.OwnString(name)})
		require.IsType(t, &imap.Inbox{}, mb)
	}
	mb := imap.NewMailbox(&imap.Quoted{Bytes: imap.OwnString("INBOX/Sub")})
	other, ok := mb.(*imap.MailboxOther)
	require.True(t, ok)
	require.Equal(t, "INBOX/Sub", string(other.Name.Raw()))
}

func TestBytes(t *testing.T) {
	buf := []byte("borrowed")
	b := imap.Borrow(buf)
	require.False(t, b.IsOwned())
	require.Equal(t, 8, b.Len())
	require.Equal(t, `borrowed("borrowed")`, b.GoString())
	require.True(t, b.Equal(imap.OwnString("borrowed")))
	require.False(t, b.Equal(imap.OwnString("Borrowed")))

	o := imap.Own([]byte("x"))
	require.True(t, o.IsOwned())
	require.Equal(t, `owned("x")`, o.GoString())

	// empty leaves compare equal whatever their backing
	require.True(t, imap.Borrow(buf[:0]).Equal(imap.Bytes{}))
}

func TestSequenceSet(t *testing.T) {
	set := imap.SequenceSet{{From: 1}, {From: 4, To: 7, Range: true}, {From: 12, To: imap.Asterisk, Range: true}}
	require.Equal(t, "1,4:7,12:*", set.String())

	testCases := map[string]struct {
		n        uint32
		largest  uint32
		expected bool
	}{
		"single":        {n: 1, largest: 20, expected: true},
		"gap":           {n: 2, largest: 20, expected: false},
		"range start":   {n: 4, largest: 20, expected: true},
		"range end":     {n: 7, largest: 20, expected: true},
		"star range":    {n: 19, largest: 20, expected: true},
		"star reversed": {n: 11, largest: 10, expected: true},
		"above largest": {n: 21, largest: 20, expected: false},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, data.expected, set.Contains(data.n, data.largest))
		})
	}
}

func TestNames(t *testing.T) {
	cmd := &imap.Command{Tag: imap.Tag{Bytes: imap.OwnString("A1")}, Body: &imap.CmdFetch{Uid: true}}
	require.Equal(t, "A1 UID FETCH", cmd.String())
	require.Equal(t, "LSUB", (&imap.CmdList{Lsub: true}).Name())

	tag := imap.Tag{Bytes: imap.OwnString("A1")}
	status := &imap.Status{Kind: imap.StatusNo, Tag: &tag, Text: imap.Text{Bytes: imap.OwnString("nope")}}
	require.Equal(t, "A1 NO nope", status.String())

	require.Equal(t, `\Seen`, imap.Flag{Kind: imap.FlagSeen}.String())
	require.Equal(t, `\Custom`, imap.Flag{Kind: imap.FlagExtension, Name: imap.Atom{Bytes: imap.OwnString("Custom")}}.String())
	require.Equal(t, "ANNOTATION-STORAGE", imap.Resource{Kind: imap.ResourceAnnotationStorage}.String())
}
