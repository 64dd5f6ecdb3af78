package imap

import (
	"bytes"

	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
)

// IsAtomChar reports whether c may appear in an atom.
func IsAtomChar(c byte) bool {
	if c <= 0x1f || c >= 0x7f {
		return false
	}
	switch c {
	case '(', ')', '{', ' ', '%', '*', '"', '\\', ']':
		return false
	}
	return true
}

// IsAStringChar reports whether c may appear in an unquoted astring.
func IsAStringChar(c byte) bool {
	return IsAtomChar(c) || c == ']'
}

// IsTagChar reports whether c may appear in a command tag.
func IsTagChar(c byte) bool {
	return IsAStringChar(c) && c != '+'
}

// IsTextChar reports whether c may appear in human readable text or a quoted
// string.
func IsTextChar(c byte) bool {
	return c != 0 && c != '\r' && c != '\n'
}

// IsLiteralChar reports whether c may appear in a literal.
func IsLiteralChar(c byte) bool {
	return c != 0
}

func validate(b Bytes, what string, allowEmpty bool, valid func(byte) bool) error {
	if b.Len() == 0 && !allowEmpty {
		return xerrors.Errorf("empty %s: %w", what, imapfuzz.ErrIncorrectFormat)
	}
	for i, c := range b.Raw() {
		if !valid(c) {
			return xerrors.Errorf("invalid byte 0x%02x at %d in %s: %w", c, i, what, imapfuzz.ErrIncorrectFormat)
		}
	}
	return nil
}

// Atom is a non-empty run of atom characters.
type Atom struct{ Bytes }

// NewAtom validates b as an atom.
func NewAtom(b Bytes) (Atom, error) {
	if err := validate(b, "atom", false, IsAtomChar); err != nil {
		return Atom{}, err
	}
	return Atom{b}, nil
}

func (a Atom) convert(m mode) Atom { return Atom{a.Bytes.convert(m)} }
func (a Atom) equal(o Atom) bool   { return a.Bytes.Equal(o.Bytes) }

// Tag identifies a command and the status response that completes it.
type Tag struct{ Bytes }

// NewTag validates b as a tag.
func NewTag(b Bytes) (Tag, error) {
	if err := validate(b, "tag", false, IsTagChar); err != nil {
		return Tag{}, err
	}
	return Tag{b}, nil
}

func (t Tag) convert(m mode) Tag { return Tag{t.Bytes.convert(m)} }
func (t Tag) equal(o Tag) bool   { return t.Bytes.Equal(o.Bytes) }

// Text is the human readable part of a status response.
type Text struct{ Bytes }

// NewText validates b as text.
func NewText(b Bytes) (Text, error) {
	if err := validate(b, "text", false, IsTextChar); err != nil {
		return Text{}, err
	}
	return Text{b}, nil
}

func (t Text) convert(m mode) Text { return Text{t.Bytes.convert(m)} }
func (t Text) equal(o Text) bool   { return t.Bytes.Equal(o.Bytes) }

// Charset names a character set, as used by SEARCH and BADCHARSET.
type Charset struct{ Bytes }

// NewCharset validates b as a charset name.
func NewCharset(b Bytes) (Charset, error) {
	if err := validate(b, "charset", false, IsTextChar); err != nil {
		return Charset{}, err
	}
	return Charset{b}, nil
}

func (c Charset) convert(m mode) Charset { return Charset{c.Bytes.convert(m)} }
func (c Charset) equal(o Charset) bool   { return c.Bytes.Equal(o.Bytes) }

// IString is a quoted string or a literal. Where the grammar allows NIL a nil
// IString stands for it.
type IString interface {
	Node
	Raw() []byte
	isIString()
}

// AString is an unquoted astring, a quoted string or a literal.
type AString interface {
	Node
	Raw() []byte
	isAString()
}

// AtomExt is an astring written without quoting.
type AtomExt struct{ Bytes }

// NewAtomExt validates b as an unquoted astring.
func NewAtomExt(b Bytes) (*AtomExt, error) {
	if err := validate(b, "astring", false, IsAStringChar); err != nil {
		return nil, err
	}
	return &AtomExt{b}, nil
}

func (*AtomExt) isAString() {}

func (a *AtomExt) convert(m mode) Node {
	out := target(a, m)
	out.Bytes = a.Bytes.convert(m)
	return out
}

func (a *AtomExt) equal(o Node) bool {
	x, ok := o.(*AtomExt)
	return ok && a.Bytes.Equal(x.Bytes)
}

// Quoted is a quoted string. The content is stored unescaped.
type Quoted struct{ Bytes }

// NewQuoted validates b as the content of a quoted string.
func NewQuoted(b Bytes) (*Quoted, error) {
	if err := validate(b, "quoted string", true, IsTextChar); err != nil {
		return nil, err
	}
	return &Quoted{b}, nil
}

func (*Quoted) isIString() {}
func (*Quoted) isAString() {}

func (q *Quoted) convert(m mode) Node {
	out := target(q, m)
	out.Bytes = q.Bytes.convert(m)
	return out
}

func (q *Quoted) equal(o Node) bool {
	x, ok := o.(*Quoted)
	return ok && q.Bytes.Equal(x.Bytes)
}

// LiteralMode tells whether the sender waits for a continuation before
// sending the literal data.
type LiteralMode uint8

const (
	// Sync literals are announced as {n} and need a continuation request
	Sync LiteralMode = iota
	// NonSync literals are announced as {n+} (LITERAL+)
	NonSync
)

func (lm LiteralMode) String() string {
	if lm == NonSync {
		return "non-sync"
	}
	return "sync"
}

// Literal is a length-prefixed string.
type Literal struct {
	Bytes
	Mode LiteralMode
}

// NewLiteral validates b as literal data.
func NewLiteral(b Bytes, lm LiteralMode) (*Literal, error) {
	if err := validate(b, "literal", true, IsLiteralChar); err != nil {
		return nil, err
	}
	return &Literal{Bytes: b, Mode: lm}, nil
}

func (*Literal) isIString() {}
func (*Literal) isAString() {}

func (l *Literal) convert(m mode) Node {
	out := target(l, m)
	out.Bytes = l.Bytes.convert(m)
	out.Mode = l.Mode
	return out
}

func (l *Literal) equal(o Node) bool {
	x, ok := o.(*Literal)
	return ok && l.Mode == x.Mode && l.Bytes.Equal(x.Bytes)
}

// Mailbox is either the case-insensitive INBOX or any other name.
type Mailbox interface {
	Node
	isMailbox()
}

// Inbox is the INBOX mailbox.
type Inbox struct{}

// MailboxOther is a mailbox other than INBOX.
type MailboxOther struct {
	Name AString
}

var inbox = []byte("INBOX")

// NewMailbox maps name to a Mailbox. Any capitalization of INBOX becomes Inbox.
func NewMailbox(name AString) Mailbox {
	if bytes.EqualFold(name.Raw(), inbox) {
		return &Inbox{}
	}
	return &MailboxOther{Name: name}
}

func (*Inbox) isMailbox()        {}
func (*MailboxOther) isMailbox() {}

func (i *Inbox) convert(m mode) Node {
	return target(i, m)
}

func (i *Inbox) equal(o Node) bool {
	_, ok := o.(*Inbox)
	return ok
}

func (mb *MailboxOther) convert(m mode) Node {
	out := target(mb, m)
	out.Name = conv(mb.Name, m)
	return out
}

func (mb *MailboxOther) equal(o Node) bool {
	x, ok := o.(*MailboxOther)
	return ok && eq(mb.Name, x.Name)
}
