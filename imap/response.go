package imap

// Message is any complete protocol message: a command, a response, a
// greeting or one of the lines exchanged during AUTHENTICATE and IDLE.
type Message interface {
	Node
	isMessage()
}

// Response is a server response.
type Response interface {
	Message
	isResponse()
}

// Data is an untagged server data response.
type Data interface {
	Response
	isData()
}

// StatusKind is the condition of a status response.
type StatusKind uint8

const (
	StatusOk StatusKind = iota
	StatusNo
	StatusBad
	StatusPreAuth
	StatusBye
)

var statusKindNames = [...]string{
	StatusOk:      "OK",
	StatusNo:      "NO",
	StatusBad:     "BAD",
	StatusPreAuth: "PREAUTH",
	StatusBye:     "BYE",
}

func (sk StatusKind) String() string {
	if int(sk) < len(statusKindNames) {
		return statusKindNames[sk]
	}
	return "UNKNOWN"
}

// Status is a status response. Tag is nil for untagged responses and only
// OK, NO and BAD may be tagged. Code may be nil.
type Status struct {
	Kind StatusKind
	Tag  *Tag
	Code Code
	Text Text
}

func (s *Status) String() string {
	tag := "*"
	if s.Tag != nil {
		tag = s.Tag.String()
	}
	return tag + " " + s.Kind.String() + " " + s.Text.String()
}

func (*Status) isMessage()  {}
func (*Status) isResponse() {}

func (s *Status) convert(m mode) Node {
	out := target(s, m)
	out.Kind = s.Kind
	out.Tag = convRecordPtr(s.Tag, m)
	out.Code = conv(s.Code, m)
	out.Text = s.Text.convert(m)
	return out
}

func (s *Status) equal(o Node) bool {
	x, ok := o.(*Status)
	return ok && s.Kind == x.Kind && eqRecordPtr(s.Tag, x.Tag) && eq(s.Code, x.Code) && s.Text.equal(x.Text)
}

// GreetingKind is the condition of the server greeting.
type GreetingKind uint8

const (
	GreetingOk GreetingKind = iota
	GreetingPreAuth
	GreetingBye
)

// Greeting is the first line a server sends.
type Greeting struct {
	Kind GreetingKind
	Code Code
	Text Text
}

func (*Greeting) isMessage() {}

func (g *Greeting) convert(m mode) Node {
	out := target(g, m)
	out.Kind = g.Kind
	out.Code = conv(g.Code, m)
	out.Text = g.Text.convert(m)
	return out
}

func (g *Greeting) equal(o Node) bool {
	x, ok := o.(*Greeting)
	return ok && g.Kind == x.Kind && eq(g.Code, x.Code) && g.Text.equal(x.Text)
}

// Code is a bracketed response code.
type Code interface {
	Node
	isCode()
}

// CodeKind enumerates response codes without arguments.
type CodeKind uint8

const (
	CodeAlert CodeKind = iota
	CodeParse
	CodeReadOnly
	CodeReadWrite
	CodeTryCreate
	CodeCompressionActive
	CodeOverQuota
)

// CodeSimple is a response code without arguments.
type CodeSimple struct {
	Kind CodeKind
}

// CodeBadCharset is BADCHARSET with the optional list of supported charsets.
type CodeBadCharset struct {
	Allowed []Charset
}

// CodeCapability is CAPABILITY inside a response code.
type CodeCapability struct {
	Capabilities []Capability
}

// CodePermanentFlags is PERMANENTFLAGS.
type CodePermanentFlags struct {
	Flags []Flag
}

// NumberCodeKind enumerates response codes carrying a number.
type NumberCodeKind uint8

const (
	CodeUidNext NumberCodeKind = iota
	CodeUidValidity
	CodeUnseen
)

// CodeNumber is UIDNEXT, UIDVALIDITY or UNSEEN.
type CodeNumber struct {
	Kind  NumberCodeKind
	Value uint32
}

// CodeOther is an unrecognized code with optional raw parameters.
type CodeOther struct {
	Name   Atom
	Params *Bytes
}

func (*CodeSimple) isCode()         {}
func (*CodeBadCharset) isCode()     {}
func (*CodeCapability) isCode()     {}
func (*CodePermanentFlags) isCode() {}
func (*CodeNumber) isCode()         {}
func (*CodeOther) isCode()          {}

func (c *CodeSimple) convert(m mode) Node {
	out := target(c, m)
	out.Kind = c.Kind
	return out
}

func (c *CodeSimple) equal(o Node) bool {
	x, ok := o.(*CodeSimple)
	return ok && c.Kind == x.Kind
}

func (c *CodeBadCharset) convert(m mode) Node {
	out := target(c, m)
	out.Allowed = convRecords(c.Allowed, m)
	return out
}

func (c *CodeBadCharset) equal(o Node) bool {
	x, ok := o.(*CodeBadCharset)
	return ok && eqRecords(c.Allowed, x.Allowed)
}

func (c *CodeCapability) convert(m mode) Node {
	out := target(c, m)
	out.Capabilities = convRecords(c.Capabilities, m)
	return out
}

func (c *CodeCapability) equal(o Node) bool {
	x, ok := o.(*CodeCapability)
	return ok && eqRecords(c.Capabilities, x.Capabilities)
}

func (c *CodePermanentFlags) convert(m mode) Node {
	out := target(c, m)
	out.Flags = convRecords(c.Flags, m)
	return out
}

func (c *CodePermanentFlags) equal(o Node) bool {
	x, ok := o.(*CodePermanentFlags)
	return ok && eqRecords(c.Flags, x.Flags)
}

func (c *CodeNumber) convert(m mode) Node {
	out := target(c, m)
	*out = *c
	return out
}

func (c *CodeNumber) equal(o Node) bool {
	x, ok := o.(*CodeNumber)
	return ok && *c == *x
}

func (c *CodeOther) convert(m mode) Node {
	out := target(c, m)
	out.Name = c.Name.convert(m)
	out.Params = convBytesPtr(c.Params, m)
	return out
}

func (c *CodeOther) equal(o Node) bool {
	x, ok := o.(*CodeOther)
	return ok && c.Name.equal(x.Name) && eqBytesPtr(c.Params, x.Params)
}

// CapabilityData is an untagged CAPABILITY response.
type CapabilityData struct {
	Capabilities []Capability
}

// ListData is an untagged LIST or LSUB response. A nil Delimiter is NIL.
type ListData struct {
	Attributes []Atom
	Delimiter  *byte
	Mailbox    Mailbox
	Lsub       bool
}

// StatusData is an untagged STATUS response.
type StatusData struct {
	Mailbox Mailbox
	Items   []StatusItem
}

// SearchData is an untagged SEARCH response.
type SearchData struct {
	IDs []uint32
}

// FlagsData is an untagged FLAGS response.
type FlagsData struct {
	Flags []Flag
}

// ExistsData is <n> EXISTS.
type ExistsData struct {
	Count uint32
}

// RecentData is <n> RECENT.
type RecentData struct {
	Count uint32
}

// ExpungeData is <n> EXPUNGE.
type ExpungeData struct {
	Seq uint32
}

// FetchData is <n> FETCH (...).
type FetchData struct {
	Seq   uint32
	Items []MessageDataItem
}

// EnabledData is an untagged ENABLED response.
type EnabledData struct {
	Capabilities []Capability
}

func (*CapabilityData) isMessage() {}
func (*ListData) isMessage()       {}
func (*StatusData) isMessage()     {}
func (*SearchData) isMessage()     {}
func (*FlagsData) isMessage()      {}
func (*ExistsData) isMessage()     {}
func (*RecentData) isMessage()     {}
func (*ExpungeData) isMessage()    {}
func (*FetchData) isMessage()      {}
func (*EnabledData) isMessage()    {}

func (*CapabilityData) isResponse() {}
func (*ListData) isResponse()       {}
func (*StatusData) isResponse()     {}
func (*SearchData) isResponse()     {}
func (*FlagsData) isResponse()      {}
func (*ExistsData) isResponse()     {}
func (*RecentData) isResponse()     {}
func (*ExpungeData) isResponse()    {}
func (*FetchData) isResponse()      {}
func (*EnabledData) isResponse()    {}

func (*CapabilityData) isData() {}
func (*ListData) isData()       {}
func (*StatusData) isData()     {}
func (*SearchData) isData()     {}
func (*FlagsData) isData()      {}
func (*ExistsData) isData()     {}
func (*RecentData) isData()     {}
func (*ExpungeData) isData()    {}
func (*FetchData) isData()      {}
func (*EnabledData) isData()    {}

func (d *CapabilityData) convert(m mode) Node {
	out := target(d, m)
	out.Capabilities = convRecords(d.Capabilities, m)
	return out
}

func (d *CapabilityData) equal(o Node) bool {
	x, ok := o.(*CapabilityData)
	return ok && eqRecords(d.Capabilities, x.Capabilities)
}

func (d *ListData) convert(m mode) Node {
	out := target(d, m)
	out.Attributes = convRecords(d.Attributes, m)
	out.Delimiter = copyScalarPtr(d.Delimiter, m)
	out.Mailbox = conv(d.Mailbox, m)
	out.Lsub = d.Lsub
	return out
}

func (d *ListData) equal(o Node) bool {
	x, ok := o.(*ListData)
	return ok &&
		d.Lsub == x.Lsub &&
		eqRecords(d.Attributes, x.Attributes) &&
		eqScalarPtr(d.Delimiter, x.Delimiter) &&
		eq(d.Mailbox, x.Mailbox)
}

func (d *StatusData) convert(m mode) Node {
	out := target(d, m)
	out.Mailbox = conv(d.Mailbox, m)
	out.Items = copyScalars(d.Items, m)
	return out
}

func (d *StatusData) equal(o Node) bool {
	x, ok := o.(*StatusData)
	return ok && eq(d.Mailbox, x.Mailbox) && eqScalars(d.Items, x.Items)
}

func (d *SearchData) convert(m mode) Node {
	out := target(d, m)
	out.IDs = copyScalars(d.IDs, m)
	return out
}

func (d *SearchData) equal(o Node) bool {
	x, ok := o.(*SearchData)
	return ok && eqScalars(d.IDs, x.IDs)
}

func (d *FlagsData) convert(m mode) Node {
	out := target(d, m)
	out.Flags = convRecords(d.Flags, m)
	return out
}

func (d *FlagsData) equal(o Node) bool {
	x, ok := o.(*FlagsData)
	return ok && eqRecords(d.Flags, x.Flags)
}

func (d *ExistsData) convert(m mode) Node {
	out := target(d, m)
	out.Count = d.Count
	return out
}

func (d *ExistsData) equal(o Node) bool {
	x, ok := o.(*ExistsData)
	return ok && d.Count == x.Count
}

func (d *RecentData) convert(m mode) Node {
	out := target(d, m)
	out.Count = d.Count
	return out
}

func (d *RecentData) equal(o Node) bool {
	x, ok := o.(*RecentData)
	return ok && d.Count == x.Count
}

func (d *ExpungeData) convert(m mode) Node {
	out := target(d, m)
	out.Seq = d.Seq
	return out
}

func (d *ExpungeData) equal(o Node) bool {
	x, ok := o.(*ExpungeData)
	return ok && d.Seq == x.Seq
}

func (d *FetchData) convert(m mode) Node {
	out := target(d, m)
	out.Seq = d.Seq
	out.Items = convSlice(d.Items, m)
	return out
}

func (d *FetchData) equal(o Node) bool {
	x, ok := o.(*FetchData)
	return ok && d.Seq == x.Seq && eqSlice(d.Items, x.Items)
}

func (d *EnabledData) convert(m mode) Node {
	out := target(d, m)
	out.Capabilities = convRecords(d.Capabilities, m)
	return out
}

func (d *EnabledData) equal(o Node) bool {
	x, ok := o.(*EnabledData)
	return ok && eqRecords(d.Capabilities, x.Capabilities)
}

// ContinuationBasic is "+ [code] text".
type ContinuationBasic struct {
	Code Code
	Text Text
}

// ContinuationBase64 is "+ <base64>", holding the decoded data.
type ContinuationBase64 struct {
	Data Bytes
}

func (*ContinuationBasic) isMessage()   {}
func (*ContinuationBasic) isResponse()  {}
func (*ContinuationBase64) isMessage()  {}
func (*ContinuationBase64) isResponse() {}

func (c *ContinuationBasic) convert(m mode) Node {
	out := target(c, m)
	out.Code = conv(c.Code, m)
	out.Text = c.Text.convert(m)
	return out
}

func (c *ContinuationBasic) equal(o Node) bool {
	x, ok := o.(*ContinuationBasic)
	return ok && eq(c.Code, x.Code) && c.Text.equal(x.Text)
}

func (c *ContinuationBase64) convert(m mode) Node {
	out := target(c, m)
	out.Data = c.Data.convert(m)
	return out
}

func (c *ContinuationBase64) equal(o Node) bool {
	x, ok := o.(*ContinuationBase64)
	return ok && c.Data.Equal(x.Data)
}

// AuthenticateData is a client line during AUTHENTICATE, holding decoded
// data, or "*" when Cancel is set.
type AuthenticateData struct {
	Data   Bytes
	Cancel bool
}

// IdleDone is the DONE line that ends IDLE.
type IdleDone struct{}

func (*AuthenticateData) isMessage() {}
func (*IdleDone) isMessage()         {}

func (a *AuthenticateData) convert(m mode) Node {
	out := target(a, m)
	out.Data = a.Data.convert(m)
	out.Cancel = a.Cancel
	return out
}

func (a *AuthenticateData) equal(o Node) bool {
	x, ok := o.(*AuthenticateData)
	return ok && a.Cancel == x.Cancel && a.Data.Equal(x.Data)
}

func (d *IdleDone) convert(m mode) Node {
	return target(d, m)
}

func (d *IdleDone) equal(o Node) bool {
	_, ok := o.(*IdleDone)
	return ok
}
