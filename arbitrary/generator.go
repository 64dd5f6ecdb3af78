package arbitrary

import (
	"slices"

	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/imap"
)

// Generator builds borrowed messages from fuzzer input. Every leaf it
// produces is a view of the input, so the input must outlive the result.
type Generator struct {
	cfg   Config
	u     *Unstructured
	depth int
}

// New returns a generator reading from data.
func New(data []byte, opts ...Option) *Generator {
	return &Generator{cfg: NewConfig(opts...), u: NewUnstructured(data)}
}

// Message generates a single message from data.
func Message(data []byte, opts ...Option) (imap.Message, error) {
	return New(data, opts...).Message()
}

// Consumed returns how much input has been read.
func (g *Generator) Consumed() int {
	return g.u.Consumed()
}

// Message generates any kind of message.
func (g *Generator) Message() (imap.Message, error) {
	return pick(g, messageVariants)
}

// Command generates a tagged command.
func (g *Generator) Command() (*imap.Command, error) {
	tag, err := g.tag()
	if err != nil {
		return nil, err
	}
	body, err := pick(g, commandVariants)
	if err != nil {
		return nil, err
	}
	return &imap.Command{Tag: tag, Body: body}, nil
}

// Response generates a server response.
func (g *Generator) Response() (imap.Response, error) {
	return pick(g, responseVariants)
}

// Greeting generates a server greeting.
func (g *Generator) Greeting() (*imap.Greeting, error) {
	kind, err := g.u.IntN(int(imap.GreetingBye) + 1)
	if err != nil {
		return nil, err
	}
	code, err := g.optionalCode()
	if err != nil {
		return nil, err
	}
	text, err := g.text()
	if err != nil {
		return nil, err
	}
	return &imap.Greeting{Kind: imap.GreetingKind(kind), Code: code, Text: text}, nil
}

// variant is one alternative of a sum type together with its weight.
type variant[T any] struct {
	weight    uint8
	feature   imapfuzz.Feature
	recursive bool
	gen       func(*Generator) (T, error)
}

func pick[T any](g *Generator, table []variant[T]) (T, error) {
	var zero T
	var buf [64]uint8
	weights := buf[:len(table)]
	for i, v := range table {
		w := v.weight
		if v.feature != 0 && !g.cfg.Features.Has(v.feature) {
			w = 0
		}
		if v.recursive && g.depth >= g.cfg.MaxDepth {
			w = 0
		}
		weights[i] = w
	}
	i, err := g.u.Choose(weights)
	if err != nil {
		return zero, err
	}
	return table[i].gen(g)
}

func (g *Generator) enter() error {
	if g.depth >= g.cfg.MaxDepth {
		return imapfuzz.ErrDepthExceeded
	}
	g.depth++
	return nil
}

func (g *Generator) leave() {
	g.depth--
}

func many[T any](g *Generator, min int, gen func() (T, error)) ([]T, error) {
	n, err := g.u.Between(min, g.cfg.MaxElements)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := gen()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (g *Generator) run(valid func(byte) bool) (imap.Bytes, error) {
	n, err := g.u.IntN(g.cfg.MaxLength + 1)
	if err != nil {
		return imap.Bytes{}, err
	}
	return imap.Borrow(g.u.TakeWhile(n, valid)), nil
}

func (g *Generator) raw() (imap.Bytes, error) {
	n, err := g.u.IntN(g.cfg.MaxLength + 1)
	if err != nil {
		return imap.Bytes{}, err
	}
	if n > g.u.Remaining() {
		n = g.u.Remaining()
	}
	b, err := g.u.Take(n)
	return imap.Borrow(b), err
}

func (g *Generator) atom() (imap.Atom, error) {
	b, err := g.run(imap.IsAtomChar)
	if err != nil {
		return imap.Atom{}, err
	}
	return imap.NewAtom(b)
}

func (g *Generator) tag() (imap.Tag, error) {
	b, err := g.run(imap.IsTagChar)
	if err != nil {
		return imap.Tag{}, err
	}
	return imap.NewTag(b)
}

func (g *Generator) text() (imap.Text, error) {
	b, err := g.run(imap.IsTextChar)
	if err != nil {
		return imap.Text{}, err
	}
	return imap.NewText(b)
}

func (g *Generator) charset() (imap.Charset, error) {
	b, err := g.run(imap.IsTextChar)
	if err != nil {
		return imap.Charset{}, err
	}
	return imap.NewCharset(b)
}

func (g *Generator) quoted() (*imap.Quoted, error) {
	b, err := g.run(imap.IsTextChar)
	if err != nil {
		return nil, err
	}
	return imap.NewQuoted(b)
}

func (g *Generator) literal() (*imap.Literal, error) {
	lm := imap.Sync
	if g.cfg.Features.Has(imapfuzz.FeatureLiteralPlus) {
		nonSync, err := g.u.Bool()
		if err != nil {
			return nil, err
		}
		if nonSync {
			lm = imap.NonSync
		}
	}
	b, err := g.run(imap.IsLiteralChar)
	if err != nil {
		return nil, err
	}
	return imap.NewLiteral(b, lm)
}

func (g *Generator) istring() (imap.IString, error) {
	isLiteral, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	if isLiteral {
		l, err := g.literal()
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	q, err := g.quoted()
	if err != nil {
		return nil, err
	}
	return q, nil
}

// nstring returns nil for NIL.
func (g *Generator) nstring() (imap.IString, error) {
	n, err := g.u.IntN(4)
	if err != nil || n == 0 {
		return nil, err
	}
	return g.istring()
}

func (g *Generator) astring() (imap.AString, error) {
	n, err := g.u.IntN(3)
	if err != nil {
		return nil, err
	}
	switch n {
	case 0:
		b, err := g.run(imap.IsAStringChar)
		if err != nil {
			return nil, err
		}
		a, err := imap.NewAtomExt(b)
		if err != nil {
			return nil, err
		}
		return a, nil
	case 1:
		q, err := g.quoted()
		if err != nil {
			return nil, err
		}
		return q, nil
	default:
		l, err := g.literal()
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}

func (g *Generator) mailbox() (imap.Mailbox, error) {
	name, err := g.astring()
	if err != nil {
		return nil, err
	}
	return imap.NewMailbox(name), nil
}

var (
	storeFlagKinds = []imap.FlagKind{
		imap.FlagAnswered, imap.FlagFlagged, imap.FlagDeleted, imap.FlagSeen, imap.FlagDraft,
		imap.FlagKeyword, imap.FlagExtension,
	}
	fetchFlagKinds     = append(append([]imap.FlagKind(nil), storeFlagKinds...), imap.FlagRecent)
	permanentFlagKinds = append(append([]imap.FlagKind(nil), storeFlagKinds...), imap.FlagWildcard)
)

func (g *Generator) flag(kinds []imap.FlagKind) (imap.Flag, error) {
	i, err := g.u.IntN(len(kinds))
	if err != nil {
		return imap.Flag{}, err
	}
	f := imap.Flag{Kind: kinds[i]}
	switch f.Kind {
	case imap.FlagKeyword:
		f.Name, err = g.atom()
	case imap.FlagExtension:
		var name imap.Atom
		if name, err = g.atom(); err != nil {
			return imap.Flag{}, err
		}
		f = imap.NewFlagExtension(name)
		if !slices.Contains(kinds, f.Kind) {
			return imap.Flag{}, xerrors.Errorf("flag %s not allowed here: %w", f, imapfuzz.ErrIncorrectFormat)
		}
	}
	return f, err
}

func (g *Generator) flags(min int, kinds []imap.FlagKind) ([]imap.Flag, error) {
	return many(g, min, func() (imap.Flag, error) { return g.flag(kinds) })
}

func (g *Generator) capability() (imap.Capability, error) {
	k, err := g.u.IntN(int(imap.CapOther) + 1)
	if err != nil {
		return imap.Capability{}, err
	}
	c := imap.Capability{Kind: imap.CapabilityKind(k)}
	switch c.Kind {
	case imap.CapAuth, imap.CapQuotaRes, imap.CapOther:
		name, err := g.atom()
		if err != nil {
			return imap.Capability{}, err
		}
		switch c.Kind {
		case imap.CapAuth:
			c.Atom = name
		case imap.CapQuotaRes:
			c = imap.NewQuotaResCapability(name)
		default:
			c = imap.NewCapability(name)
		}
	}
	return c, nil
}

// capabilityList always leads with IMAP4rev1, which every server announces.
func (g *Generator) capabilityList() ([]imap.Capability, error) {
	rest, err := many(g, 0, g.capability)
	if err != nil {
		return nil, err
	}
	return append([]imap.Capability{{Kind: imap.CapImap4Rev1}}, rest...), nil
}

func (g *Generator) sequence() (imap.Sequence, error) {
	isRange, err := g.u.Bool()
	if err != nil {
		return imap.Sequence{}, err
	}
	from, err := g.u.Uint32()
	if err != nil {
		return imap.Sequence{}, err
	}
	s := imap.Sequence{From: imap.SeqOrUid(from), Range: isRange}
	if isRange {
		to, err := g.u.Uint32()
		if err != nil {
			return imap.Sequence{}, err
		}
		s.To = imap.SeqOrUid(to)
	}
	return s, nil
}

func (g *Generator) sequenceSet() (imap.SequenceSet, error) {
	set, err := many(g, 1, g.sequence)
	return imap.SequenceSet(set), err
}

func (g *Generator) date() (imap.Date, error) {
	year, err := g.u.Uint16()
	if err != nil {
		return imap.Date{}, err
	}
	month, err := g.u.Between(1, 12)
	if err != nil {
		return imap.Date{}, err
	}
	day, err := g.u.Between(1, 31)
	if err != nil {
		return imap.Date{}, err
	}
	return imap.Date{Year: year, Month: uint8(month), Day: uint8(day)}, nil
}

func (g *Generator) dateTime() (imap.DateTime, error) {
	date, err := g.date()
	if err != nil {
		return imap.DateTime{}, err
	}
	var fields [3]int
	for i, limit := range [3]int{23, 59, 60} {
		if fields[i], err = g.u.Between(0, limit); err != nil {
			return imap.DateTime{}, err
		}
	}
	offset, err := g.u.Between(-24*60, 24*60)
	if err != nil {
		return imap.DateTime{}, err
	}
	return imap.DateTime{
		Date:          date,
		Hour:          uint8(fields[0]),
		Minute:        uint8(fields[1]),
		Second:        uint8(fields[2]),
		OffsetMinutes: int16(offset),
	}, nil
}

func (g *Generator) section() (imap.Section, error) {
	k, err := g.u.IntN(int(imap.SectionMime) + 1)
	if err != nil {
		return imap.Section{}, err
	}
	s := imap.Section{Kind: imap.SectionKind(k)}
	if s.Part, err = many(g, 0, g.u.Uint32); err != nil {
		return imap.Section{}, err
	}
	if s.Kind == imap.SectionHeaderFields || s.Kind == imap.SectionHeaderFieldsNot {
		if s.Fields, err = many(g, 1, g.astring); err != nil {
			return imap.Section{}, err
		}
	}
	return s, nil
}

func (g *Generator) optionalSection() (*imap.Section, error) {
	present, err := g.u.Bool()
	if err != nil || !present {
		return nil, err
	}
	s, err := g.section()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (g *Generator) fetchAttribute() (imap.FetchAttribute, error) {
	k, err := g.u.IntN(int(imap.FetchUid) + 1)
	if err != nil {
		return imap.FetchAttribute{}, err
	}
	f := imap.FetchAttribute{Kind: imap.FetchAttributeKind(k)}
	if f.Kind != imap.FetchBodyExt {
		return f, nil
	}
	if f.Section, err = g.optionalSection(); err != nil {
		return imap.FetchAttribute{}, err
	}
	hasPartial, err := g.u.Bool()
	if err != nil {
		return imap.FetchAttribute{}, err
	}
	if hasPartial {
		offset, err := g.u.Uint32()
		if err != nil {
			return imap.FetchAttribute{}, err
		}
		length, err := g.u.Uint32()
		if err != nil {
			return imap.FetchAttribute{}, err
		}
		f.Partial = &imap.Partial{Offset: offset, Length: length}
	}
	f.Peek, err = g.u.Bool()
	return f, err
}

func (g *Generator) optionalCode() (imap.Code, error) {
	present, err := g.u.Bool()
	if err != nil || !present {
		return nil, err
	}
	return pick(g, codeVariants)
}

func (g *Generator) searchKey() (imap.SearchKey, error) {
	return pick(g, searchKeyVariants)
}

func (g *Generator) messageDataItem() (imap.MessageDataItem, error) {
	return pick(g, messageDataItemVariants)
}

func (g *Generator) bodyStructure() (imap.BodyStructure, error) {
	return pick(g, bodyStructureVariants)
}

func (g *Generator) bodyExtension() (imap.BodyExtension, error) {
	return pick(g, bodyExtensionVariants)
}

func (g *Generator) bodyParam() (imap.BodyParam, error) {
	key, err := g.istring()
	if err != nil {
		return imap.BodyParam{}, err
	}
	value, err := g.istring()
	if err != nil {
		return imap.BodyParam{}, err
	}
	return imap.BodyParam{Key: key, Value: value}, nil
}

func (g *Generator) resource() (imap.Resource, error) {
	k, err := g.u.IntN(int(imap.ResourceOther) + 1)
	if err != nil {
		return imap.Resource{}, err
	}
	r := imap.Resource{Kind: imap.ResourceKind(k)}
	if r.Kind == imap.ResourceOther {
		name, err := g.atom()
		if err != nil {
			return imap.Resource{}, err
		}
		r = imap.NewResource(name)
	}
	return r, nil
}

func (g *Generator) quotaGet() (imap.QuotaGet, error) {
	r, err := g.resource()
	if err != nil {
		return imap.QuotaGet{}, err
	}
	usage, err := g.u.Uint64()
	if err != nil {
		return imap.QuotaGet{}, err
	}
	limit, err := g.u.Uint64()
	if err != nil {
		return imap.QuotaGet{}, err
	}
	return imap.QuotaGet{Resource: r, Usage: usage, Limit: limit}, nil
}

func (g *Generator) quotaSet() (imap.QuotaSet, error) {
	r, err := g.resource()
	if err != nil {
		return imap.QuotaSet{}, err
	}
	limit, err := g.u.Uint64()
	if err != nil {
		return imap.QuotaSet{}, err
	}
	return imap.QuotaSet{Resource: r, Limit: limit}, nil
}
