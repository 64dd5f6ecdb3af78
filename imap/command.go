package imap

// Command is a tagged client command.
type Command struct {
	Tag  Tag
	Body CommandBody
}

func (*Command) isMessage() {}

func (c *Command) String() string {
	if c.Body == nil {
		return c.Tag.String()
	}
	return c.Tag.String() + " " + c.Body.Name()
}

func (c *Command) convert(m mode) Node {
	out := target(c, m)
	out.Tag = c.Tag.convert(m)
	out.Body = conv(c.Body, m)
	return out
}

func (c *Command) equal(o Node) bool {
	x, ok := o.(*Command)
	return ok && c.Tag.equal(x.Tag) && eq(c.Body, x.Body)
}

// CommandBody is the part of a command after the tag.
type CommandBody interface {
	Node
	// Name is the command name as sent on the wire.
	Name() string
	isCommandBody()
}

type (
	// CmdCapability is CAPABILITY.
	CmdCapability struct{}
	// CmdNoop is NOOP.
	CmdNoop struct{}
	// CmdLogout is LOGOUT.
	CmdLogout struct{}
	// CmdStartTLS is STARTTLS.
	CmdStartTLS struct{}
	// CmdCheck is CHECK.
	CmdCheck struct{}
	// CmdClose is CLOSE.
	CmdClose struct{}
	// CmdUnselect is UNSELECT.
	CmdUnselect struct{}
	// CmdExpunge is EXPUNGE.
	CmdExpunge struct{}
	// CmdIdle is IDLE.
	CmdIdle struct{}
)

// CmdAuthenticate is AUTHENTICATE with an optional SASL-IR initial response.
type CmdAuthenticate struct {
	Mechanism       Atom
	InitialResponse *Bytes
}

// CmdLogin is LOGIN.
type CmdLogin struct {
	Username AString
	Password AString
}

// CmdSelect is SELECT.
type CmdSelect struct {
	Mailbox Mailbox
}

// CmdExamine is EXAMINE.
type CmdExamine struct {
	Mailbox Mailbox
}

// CmdCreate is CREATE.
type CmdCreate struct {
	Mailbox Mailbox
}

// CmdDelete is DELETE.
type CmdDelete struct {
	Mailbox Mailbox
}

// CmdRename is RENAME.
type CmdRename struct {
	From Mailbox
	To   Mailbox
}

// CmdSubscribe is SUBSCRIBE.
type CmdSubscribe struct {
	Mailbox Mailbox
}

// CmdUnsubscribe is UNSUBSCRIBE.
type CmdUnsubscribe struct {
	Mailbox Mailbox
}

// CmdList is LIST, or LSUB when Lsub is true.
type CmdList struct {
	Reference Mailbox
	Pattern   AString
	Lsub      bool
}

// CmdStatus is STATUS.
type CmdStatus struct {
	Mailbox    Mailbox
	Attributes []StatusAttribute
}

// CmdAppend is APPEND.
type CmdAppend struct {
	Mailbox Mailbox
	Flags   []Flag
	Date    *DateTime
	Message *Literal
}

// CmdSearch is SEARCH or UID SEARCH.
type CmdSearch struct {
	Charset  *Charset
	Criteria SearchKey
	Uid      bool
}

// CmdFetch is FETCH or UID FETCH.
type CmdFetch struct {
	Set        SequenceSet
	Attributes []FetchAttribute
	Uid        bool
}

// StoreKind is how STORE combines flags.
type StoreKind uint8

const (
	StoreReplace StoreKind = iota
	StoreAdd
	StoreRemove
)

// CmdStore is STORE or UID STORE.
type CmdStore struct {
	Set    SequenceSet
	Kind   StoreKind
	Silent bool
	Flags  []Flag
	Uid    bool
}

// CmdCopy is COPY or UID COPY.
type CmdCopy struct {
	Set     SequenceSet
	Mailbox Mailbox
	Uid     bool
}

// CmdMove is MOVE or UID MOVE.
type CmdMove struct {
	Set     SequenceSet
	Mailbox Mailbox
	Uid     bool
}

// CmdEnable is ENABLE.
type CmdEnable struct {
	Capabilities []Capability
}

// CmdCompress is COMPRESS.
type CmdCompress struct {
	Algorithm Atom
}

func (*CmdCapability) Name() string   { return "CAPABILITY" }
func (*CmdNoop) Name() string         { return "NOOP" }
func (*CmdLogout) Name() string       { return "LOGOUT" }
func (*CmdStartTLS) Name() string     { return "STARTTLS" }
func (*CmdCheck) Name() string        { return "CHECK" }
func (*CmdClose) Name() string        { return "CLOSE" }
func (*CmdUnselect) Name() string     { return "UNSELECT" }
func (*CmdExpunge) Name() string      { return "EXPUNGE" }
func (*CmdIdle) Name() string         { return "IDLE" }
func (*CmdAuthenticate) Name() string { return "AUTHENTICATE" }
func (*CmdLogin) Name() string        { return "LOGIN" }
func (*CmdSelect) Name() string       { return "SELECT" }
func (*CmdExamine) Name() string      { return "EXAMINE" }
func (*CmdCreate) Name() string       { return "CREATE" }
func (*CmdDelete) Name() string       { return "DELETE" }
func (*CmdRename) Name() string       { return "RENAME" }
func (*CmdSubscribe) Name() string    { return "SUBSCRIBE" }
func (*CmdUnsubscribe) Name() string  { return "UNSUBSCRIBE" }
func (*CmdStatus) Name() string       { return "STATUS" }
func (*CmdAppend) Name() string       { return "APPEND" }
func (*CmdEnable) Name() string       { return "ENABLE" }
func (*CmdCompress) Name() string     { return "COMPRESS" }

func (c *CmdList) Name() string {
	if c.Lsub {
		return "LSUB"
	}
	return "LIST"
}

func uidName(uid bool, name string) string {
	if uid {
		return "UID " + name
	}
	return name
}

func (c *CmdSearch) Name() string { return uidName(c.Uid, "SEARCH") }
func (c *CmdFetch) Name() string  { return uidName(c.Uid, "FETCH") }
func (c *CmdStore) Name() string  { return uidName(c.Uid, "STORE") }
func (c *CmdCopy) Name() string   { return uidName(c.Uid, "COPY") }
func (c *CmdMove) Name() string   { return uidName(c.Uid, "MOVE") }

func (*CmdCapability) isCommandBody()   {}
func (*CmdNoop) isCommandBody()         {}
func (*CmdLogout) isCommandBody()       {}
func (*CmdStartTLS) isCommandBody()     {}
func (*CmdCheck) isCommandBody()        {}
func (*CmdClose) isCommandBody()        {}
func (*CmdUnselect) isCommandBody()     {}
func (*CmdExpunge) isCommandBody()      {}
func (*CmdIdle) isCommandBody()         {}
func (*CmdAuthenticate) isCommandBody() {}
func (*CmdLogin) isCommandBody()        {}
func (*CmdSelect) isCommandBody()       {}
func (*CmdExamine) isCommandBody()      {}
func (*CmdCreate) isCommandBody()       {}
func (*CmdDelete) isCommandBody()       {}
func (*CmdRename) isCommandBody()       {}
func (*CmdSubscribe) isCommandBody()    {}
func (*CmdUnsubscribe) isCommandBody()  {}
func (*CmdList) isCommandBody()         {}
func (*CmdStatus) isCommandBody()       {}
func (*CmdAppend) isCommandBody()       {}
func (*CmdSearch) isCommandBody()       {}
func (*CmdFetch) isCommandBody()        {}
func (*CmdStore) isCommandBody()        {}
func (*CmdCopy) isCommandBody()         {}
func (*CmdMove) isCommandBody()         {}
func (*CmdEnable) isCommandBody()       {}
func (*CmdCompress) isCommandBody()     {}

func (c *CmdCapability) convert(m mode) Node { return target(c, m) }
func (c *CmdNoop) convert(m mode) Node       { return target(c, m) }
func (c *CmdLogout) convert(m mode) Node     { return target(c, m) }
func (c *CmdStartTLS) convert(m mode) Node   { return target(c, m) }
func (c *CmdCheck) convert(m mode) Node      { return target(c, m) }
func (c *CmdClose) convert(m mode) Node      { return target(c, m) }
func (c *CmdUnselect) convert(m mode) Node   { return target(c, m) }
func (c *CmdExpunge) convert(m mode) Node    { return target(c, m) }
func (c *CmdIdle) convert(m mode) Node       { return target(c, m) }

func (c *CmdCapability) equal(o Node) bool { _, ok := o.(*CmdCapability); return ok }
func (c *CmdNoop) equal(o Node) bool       { _, ok := o.(*CmdNoop); return ok }
func (c *CmdLogout) equal(o Node) bool     { _, ok := o.(*CmdLogout); return ok }
func (c *CmdStartTLS) equal(o Node) bool   { _, ok := o.(*CmdStartTLS); return ok }
func (c *CmdCheck) equal(o Node) bool      { _, ok := o.(*CmdCheck); return ok }
func (c *CmdClose) equal(o Node) bool      { _, ok := o.(*CmdClose); return ok }
func (c *CmdUnselect) equal(o Node) bool   { _, ok := o.(*CmdUnselect); return ok }
func (c *CmdExpunge) equal(o Node) bool    { _, ok := o.(*CmdExpunge); return ok }
func (c *CmdIdle) equal(o Node) bool       { _, ok := o.(*CmdIdle); return ok }

func (c *CmdAuthenticate) convert(m mode) Node {
	out := target(c, m)
	out.Mechanism = c.Mechanism.convert(m)
	out.InitialResponse = convBytesPtr(c.InitialResponse, m)
	return out
}

func (c *CmdAuthenticate) equal(o Node) bool {
	x, ok := o.(*CmdAuthenticate)
	return ok && c.Mechanism.equal(x.Mechanism) && eqBytesPtr(c.InitialResponse, x.InitialResponse)
}

func (c *CmdLogin) convert(m mode) Node {
	out := target(c, m)
	out.Username = conv(c.Username, m)
	out.Password = conv(c.Password, m)
	return out
}

func (c *CmdLogin) equal(o Node) bool {
	x, ok := o.(*CmdLogin)
	return ok && eq(c.Username, x.Username) && eq(c.Password, x.Password)
}

func (c *CmdSelect) convert(m mode) Node {
	out := target(c, m)
	out.Mailbox = conv(c.Mailbox, m)
	return out
}

func (c *CmdSelect) equal(o Node) bool {
	x, ok := o.(*CmdSelect)
	return ok && eq(c.Mailbox, x.Mailbox)
}

func (c *CmdExamine) convert(m mode) Node {
	out := target(c, m)
	out.Mailbox = conv(c.Mailbox, m)
	return out
}

func (c *CmdExamine) equal(o Node) bool {
	x, ok := o.(*CmdExamine)
	return ok && eq(c.Mailbox, x.Mailbox)
}

func (c *CmdCreate) convert(m mode) Node {
	out := target(c, m)
	out.Mailbox = conv(c.Mailbox, m)
	return out
}

func (c *CmdCreate) equal(o Node) bool {
	x, ok := o.(*CmdCreate)
	return ok && eq(c.Mailbox, x.Mailbox)
}

func (c *CmdDelete) convert(m mode) Node {
	out := target(c, m)
	out.Mailbox = conv(c.Mailbox, m)
	return out
}

func (c *CmdDelete) equal(o Node) bool {
	x, ok := o.(*CmdDelete)
	return ok && eq(c.Mailbox, x.Mailbox)
}

func (c *CmdRename) convert(m mode) Node {
	out := target(c, m)
	out.From = conv(c.From, m)
	out.To = conv(c.To, m)
	return out
}

func (c *CmdRename) equal(o Node) bool {
	x, ok := o.(*CmdRename)
	return ok && eq(c.From, x.From) && eq(c.To, x.To)
}

func (c *CmdSubscribe) convert(m mode) Node {
	out := target(c, m)
	out.Mailbox = conv(c.Mailbox, m)
	return out
}

func (c *CmdSubscribe) equal(o Node) bool {
	x, ok := o.(*CmdSubscribe)
	return ok && eq(c.Mailbox, x.Mailbox)
}

func (c *CmdUnsubscribe) convert(m mode) Node {
	out := target(c, m)
	out.Mailbox = conv(c.Mailbox, m)
	return out
}

func (c *CmdUnsubscribe) equal(o Node) bool {
	x, ok := o.(*CmdUnsubscribe)
	return ok && eq(c.Mailbox, x.Mailbox)
}

func (c *CmdList) convert(m mode) Node {
	out := target(c, m)
	out.Reference = conv(c.Reference, m)
	out.Pattern = conv(c.Pattern, m)
	out.Lsub = c.Lsub
	return out
}

func (c *CmdList) equal(o Node) bool {
	x, ok := o.(*CmdList)
	return ok && c.Lsub == x.Lsub && eq(c.Reference, x.Reference) && eq(c.Pattern, x.Pattern)
}

func (c *CmdStatus) convert(m mode) Node {
	out := target(c, m)
	out.Mailbox = conv(c.Mailbox, m)
	out.Attributes = copyScalars(c.Attributes, m)
	return out
}

func (c *CmdStatus) equal(o Node) bool {
	x, ok := o.(*CmdStatus)
	return ok && eq(c.Mailbox, x.Mailbox) && eqScalars(c.Attributes, x.Attributes)
}

func (c *CmdAppend) convert(m mode) Node {
	out := target(c, m)
	out.Mailbox = conv(c.Mailbox, m)
	out.Flags = convRecords(c.Flags, m)
	out.Date = copyScalarPtr(c.Date, m)
	out.Message = conv(c.Message, m)
	return out
}

func (c *CmdAppend) equal(o Node) bool {
	x, ok := o.(*CmdAppend)
	return ok &&
		eq(c.Mailbox, x.Mailbox) &&
		eqRecords(c.Flags, x.Flags) &&
		eqScalarPtr(c.Date, x.Date) &&
		eq(c.Message, x.Message)
}

func (c *CmdSearch) convert(m mode) Node {
	out := target(c, m)
	out.Charset = convRecordPtr(c.Charset, m)
	out.Criteria = conv(c.Criteria, m)
	out.Uid = c.Uid
	return out
}

func (c *CmdSearch) equal(o Node) bool {
	x, ok := o.(*CmdSearch)
	return ok && c.Uid == x.Uid && eqRecordPtr(c.Charset, x.Charset) && eq(c.Criteria, x.Criteria)
}

func (c *CmdFetch) convert(m mode) Node {
	out := target(c, m)
	out.Set = c.Set.convert(m)
	out.Attributes = convRecords(c.Attributes, m)
	out.Uid = c.Uid
	return out
}

func (c *CmdFetch) equal(o Node) bool {
	x, ok := o.(*CmdFetch)
	return ok && c.Uid == x.Uid && c.Set.equal(x.Set) && eqRecords(c.Attributes, x.Attributes)
}

func (c *CmdStore) convert(m mode) Node {
	out := target(c, m)
	out.Set = c.Set.convert(m)
	out.Kind = c.Kind
	out.Silent = c.Silent
	out.Flags = convRecords(c.Flags, m)
	out.Uid = c.Uid
	return out
}

func (c *CmdStore) equal(o Node) bool {
	x, ok := o.(*CmdStore)
	return ok &&
		c.Kind == x.Kind &&
		c.Silent == x.Silent &&
		c.Uid == x.Uid &&
		c.Set.equal(x.Set) &&
		eqRecords(c.Flags, x.Flags)
}

func (c *CmdCopy) convert(m mode) Node {
	out := target(c, m)
	out.Set = c.Set.convert(m)
	out.Mailbox = conv(c.Mailbox, m)
	out.Uid = c.Uid
	return out
}

func (c *CmdCopy) equal(o Node) bool {
	x, ok := o.(*CmdCopy)
	return ok && c.Uid == x.Uid && c.Set.equal(x.Set) && eq(c.Mailbox, x.Mailbox)
}

func (c *CmdMove) convert(m mode) Node {
	out := target(c, m)
	out.Set = c.Set.convert(m)
	out.Mailbox = conv(c.Mailbox, m)
	out.Uid = c.Uid
	return out
}

func (c *CmdMove) equal(o Node) bool {
	x, ok := o.(*CmdMove)
	return ok && c.Uid == x.Uid && c.Set.equal(x.Set) && eq(c.Mailbox, x.Mailbox)
}

func (c *CmdEnable) convert(m mode) Node {
	out := target(c, m)
	out.Capabilities = convRecords(c.Capabilities, m)
	return out
}

func (c *CmdEnable) equal(o Node) bool {
	x, ok := o.(*CmdEnable)
	return ok && eqRecords(c.Capabilities, x.Capabilities)
}

func (c *CmdCompress) convert(m mode) Node {
	out := target(c, m)
	out.Algorithm = c.Algorithm.convert(m)
	return out
}

func (c *CmdCompress) equal(o Node) bool {
	x, ok := o.(*CmdCompress)
	return ok && c.Algorithm.equal(x.Algorithm)
}
