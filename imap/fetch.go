package imap

// SectionKind selects the part of a message a section refers to.
type SectionKind uint8

const (
	SectionPart SectionKind = iota
	SectionHeader
	SectionHeaderFields
	SectionHeaderFieldsNot
	SectionText
	SectionMime
)

// Section is a BODY[...] section specifier. Part is the MIME part path and
// Fields the header names for the HEADER.FIELDS forms.
type Section struct {
	Kind   SectionKind
	Part   []uint32
	Fields []AString
}

func (s Section) convert(m mode) Section {
	return Section{
		Kind:   s.Kind,
		Part:   copyScalars(s.Part, m),
		Fields: convSlice(s.Fields, m),
	}
}

func (s Section) equal(o Section) bool {
	return s.Kind == o.Kind && eqScalars(s.Part, o.Part) && eqSlice(s.Fields, o.Fields)
}

// Partial is the <offset.length> suffix of a body fetch.
type Partial struct {
	Offset uint32
	Length uint32
}

// FetchAttributeKind enumerates FETCH data items.
type FetchAttributeKind uint8

const (
	FetchBody FetchAttributeKind = iota
	FetchBodyExt
	FetchBodyStructure
	FetchEnvelope
	FetchFlags
	FetchInternalDate
	FetchRfc822
	FetchRfc822Header
	FetchRfc822Size
	FetchRfc822Text
	FetchUid
)

// FetchAttribute is one requested FETCH item. Section, Partial and Peek only
// apply to FetchBodyExt.
type FetchAttribute struct {
	Kind    FetchAttributeKind
	Section *Section
	Partial *Partial
	Peek    bool
}

func (f FetchAttribute) convert(m mode) FetchAttribute {
	return FetchAttribute{
		Kind:    f.Kind,
		Section: convRecordPtr(f.Section, m),
		Partial: copyScalarPtr(f.Partial, m),
		Peek:    f.Peek,
	}
}

func (f FetchAttribute) equal(o FetchAttribute) bool {
	return f.Kind == o.Kind && f.Peek == o.Peek &&
		eqRecordPtr(f.Section, o.Section) && eqScalarPtr(f.Partial, o.Partial)
}

// MessageDataItem is one item of a FETCH response.
type MessageDataItem interface {
	Node
	isMessageDataItem()
}

// ItemUid is UID <n>.
type ItemUid struct {
	Uid uint32
}

// ItemFlags is FLAGS (...).
type ItemFlags struct {
	Flags []Flag
}

// ItemSize is RFC822.SIZE <n>.
type ItemSize struct {
	Size uint32
}

// ItemInternalDate is INTERNALDATE "...".
type ItemInternalDate struct {
	Date DateTime
}

// ItemBody is BODY[section]<origin> followed by the data or NIL.
type ItemBody struct {
	Section *Section
	Origin  *uint32
	Data    IString
}

// Rfc822Kind selects between RFC822, RFC822.HEADER and RFC822.TEXT.
type Rfc822Kind uint8

const (
	Rfc822Full Rfc822Kind = iota
	Rfc822Header
	Rfc822Text
)

// ItemRfc822 carries one of the RFC822 items. Data may be nil (NIL).
type ItemRfc822 struct {
	Kind Rfc822Kind
	Data IString
}

// ItemBodyStructure is BODY or BODYSTRUCTURE. Extended is set for the latter.
type ItemBodyStructure struct {
	Extended  bool
	Structure BodyStructure
}

func (*ItemUid) isMessageDataItem()           {}
func (*ItemFlags) isMessageDataItem()         {}
func (*ItemSize) isMessageDataItem()          {}
func (*ItemInternalDate) isMessageDataItem()  {}
func (*ItemBody) isMessageDataItem()          {}
func (*ItemRfc822) isMessageDataItem()        {}
func (*ItemBodyStructure) isMessageDataItem() {}

func (i *ItemUid) convert(m mode) Node {
	out := target(i, m)
	out.Uid = i.Uid
	return out
}

func (i *ItemUid) equal(o Node) bool {
	x, ok := o.(*ItemUid)
	return ok && i.Uid == x.Uid
}

func (i *ItemFlags) convert(m mode) Node {
	out := target(i, m)
	out.Flags = convRecords(i.Flags, m)
	return out
}

func (i *ItemFlags) equal(o Node) bool {
	x, ok := o.(*ItemFlags)
	return ok && eqRecords(i.Flags, x.Flags)
}

func (i *ItemSize) convert(m mode) Node {
	out := target(i, m)
	out.Size = i.Size
	return out
}

func (i *ItemSize) equal(o Node) bool {
	x, ok := o.(*ItemSize)
	return ok && i.Size == x.Size
}

func (i *ItemInternalDate) convert(m mode) Node {
	out := target(i, m)
	out.Date = i.Date
	return out
}

func (i *ItemInternalDate) equal(o Node) bool {
	x, ok := o.(*ItemInternalDate)
	return ok && i.Date == x.Date
}

func (i *ItemBody) convert(m mode) Node {
	out := target(i, m)
	out.Section = convRecordPtr(i.Section, m)
	out.Origin = copyScalarPtr(i.Origin, m)
	out.Data = conv(i.Data, m)
	return out
}

func (i *ItemBody) equal(o Node) bool {
	x, ok := o.(*ItemBody)
	return ok && eqRecordPtr(i.Section, x.Section) && eqScalarPtr(i.Origin, x.Origin) && eq(i.Data, x.Data)
}

func (i *ItemRfc822) convert(m mode) Node {
	out := target(i, m)
	out.Kind = i.Kind
	out.Data = conv(i.Data, m)
	return out
}

func (i *ItemRfc822) equal(o Node) bool {
	x, ok := o.(*ItemRfc822)
	return ok && i.Kind == x.Kind && eq(i.Data, x.Data)
}

func (i *ItemBodyStructure) convert(m mode) Node {
	out := target(i, m)
	out.Extended = i.Extended
	out.Structure = conv(i.Structure, m)
	return out
}

func (i *ItemBodyStructure) equal(o Node) bool {
	x, ok := o.(*ItemBodyStructure)
	return ok && i.Extended == x.Extended && eq(i.Structure, x.Structure)
}

// BodyStructure describes the MIME structure of a message.
type BodyStructure interface {
	Node
	isBodyStructure()
}

// BodyParam is one attribute/value pair of a body parameter list.
type BodyParam struct {
	Key   IString
	Value IString
}

func (p BodyParam) convert(m mode) BodyParam {
	return BodyParam{Key: conv(p.Key, m), Value: conv(p.Value, m)}
}

func (p BodyParam) equal(o BodyParam) bool {
	return eq(p.Key, o.Key) && eq(p.Value, o.Value)
}

// SingleBody is a non-multipart body part. ID and Description may be nil.
type SingleBody struct {
	Type        IString
	Subtype     IString
	Params      []BodyParam
	ID          IString
	Description IString
	Encoding    IString
	Size        uint32
	Extensions  []BodyExtension
}

// MultiBody is a multipart body.
type MultiBody struct {
	Parts      []BodyStructure
	Subtype    IString
	Extensions []BodyExtension
}

func (*SingleBody) isBodyStructure() {}
func (*MultiBody) isBodyStructure()  {}

func (b *SingleBody) convert(m mode) Node {
	out := target(b, m)
	out.Type = conv(b.Type, m)
	out.Subtype = conv(b.Subtype, m)
	out.Params = convRecords(b.Params, m)
	out.ID = conv(b.ID, m)
	out.Description = conv(b.Description, m)
	out.Encoding = conv(b.Encoding, m)
	out.Size = b.Size
	out.Extensions = convSlice(b.Extensions, m)
	return out
}

func (b *SingleBody) equal(o Node) bool {
	x, ok := o.(*SingleBody)
	return ok &&
		eq(b.Type, x.Type) &&
		eq(b.Subtype, x.Subtype) &&
		eqRecords(b.Params, x.Params) &&
		eq(b.ID, x.ID) &&
		eq(b.Description, x.Description) &&
		eq(b.Encoding, x.Encoding) &&
		b.Size == x.Size &&
		eqSlice(b.Extensions, x.Extensions)
}

func (b *MultiBody) convert(m mode) Node {
	out := target(b, m)
	out.Parts = convSlice(b.Parts, m)
	out.Subtype = conv(b.Subtype, m)
	out.Extensions = convSlice(b.Extensions, m)
	return out
}

func (b *MultiBody) equal(o Node) bool {
	x, ok := o.(*MultiBody)
	return ok && eqSlice(b.Parts, x.Parts) && eq(b.Subtype, x.Subtype) && eqSlice(b.Extensions, x.Extensions)
}

// BodyExtension is extension data trailing a body structure: a string, a
// number or a parenthesized list of further extensions.
type BodyExtension interface {
	Node
	isBodyExtension()
}

// ExtString is a string extension. A nil Value is NIL.
type ExtString struct {
	Value IString
}

// ExtNumber is a numeric extension.
type ExtNumber struct {
	Value uint32
}

// ExtList is a parenthesized list of extensions.
type ExtList struct {
	Items []BodyExtension
}

func (*ExtString) isBodyExtension() {}
func (*ExtNumber) isBodyExtension() {}
func (*ExtList) isBodyExtension()   {}

func (e *ExtString) convert(m mode) Node {
	out := target(e, m)
	out.Value = conv(e.Value, m)
	return out
}

func (e *ExtString) equal(o Node) bool {
	x, ok := o.(*ExtString)
	return ok && eq(e.Value, x.Value)
}

func (e *ExtNumber) convert(m mode) Node {
	out := target(e, m)
	out.Value = e.Value
	return out
}

func (e *ExtNumber) equal(o Node) bool {
	x, ok := o.(*ExtNumber)
	return ok && e.Value == x.Value
}

func (e *ExtList) convert(m mode) Node {
	out := target(e, m)
	out.Items = convSlice(e.Items, m)
	return out
}

func (e *ExtList) equal(o Node) bool {
	x, ok := o.(*ExtList)
	return ok && eqSlice(e.Items, x.Items)
}
