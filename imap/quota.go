package imap

// ResourceKind names a quota resource (RFC 9208).
type ResourceKind uint8

const (
	ResourceStorage ResourceKind = iota
	ResourceMessage
	ResourceMailbox
	ResourceAnnotationStorage
	// ResourceOther carries the resource name in Resource.Other
	ResourceOther
)

var resourceNames = [...]string{
	ResourceStorage:           "STORAGE",
	ResourceMessage:           "MESSAGE",
	ResourceMailbox:           "MAILBOX",
	ResourceAnnotationStorage: "ANNOTATION-STORAGE",
}

// Resource is a quota resource.
type Resource struct {
	Kind  ResourceKind
	Other Atom
}

func (r Resource) String() string {
	if r.Kind == ResourceOther || int(r.Kind) >= len(resourceNames) {
		return r.Other.String()
	}
	return resourceNames[r.Kind]
}

func (r Resource) convert(m mode) Resource {
	return Resource{Kind: r.Kind, Other: r.Other.convert(m)}
}

func (r Resource) equal(o Resource) bool {
	return r.Kind == o.Kind && r.Other.equal(o.Other)
}

// QuotaGet is one resource entry of a QUOTA response.
type QuotaGet struct {
	Resource Resource
	Usage    uint64
	Limit    uint64
}

func (q QuotaGet) convert(m mode) QuotaGet {
	return QuotaGet{Resource: q.Resource.convert(m), Usage: q.Usage, Limit: q.Limit}
}

func (q QuotaGet) equal(o QuotaGet) bool {
	return q.Usage == o.Usage && q.Limit == o.Limit && q.Resource.equal(o.Resource)
}

// QuotaSet is one resource limit of SETQUOTA.
type QuotaSet struct {
	Resource Resource
	Limit    uint64
}

func (q QuotaSet) convert(m mode) QuotaSet {
	return QuotaSet{Resource: q.Resource.convert(m), Limit: q.Limit}
}

func (q QuotaSet) equal(o QuotaSet) bool {
	return q.Limit == o.Limit && q.Resource.equal(o.Resource)
}

// CmdGetQuota is GETQUOTA.
type CmdGetQuota struct {
	Root AString
}

// CmdGetQuotaRoot is GETQUOTAROOT.
type CmdGetQuotaRoot struct {
	Mailbox Mailbox
}

// CmdSetQuota is SETQUOTA. An empty Limits removes all limits.
type CmdSetQuota struct {
	Root   AString
	Limits []QuotaSet
}

func (*CmdGetQuota) Name() string     { return "GETQUOTA" }
func (*CmdGetQuotaRoot) Name() string { return "GETQUOTAROOT" }
func (*CmdSetQuota) Name() string     { return "SETQUOTA" }

func (*CmdGetQuota) isCommandBody()     {}
func (*CmdGetQuotaRoot) isCommandBody() {}
func (*CmdSetQuota) isCommandBody()     {}

func (c *CmdGetQuota) convert(m mode) Node {
	out := target(c, m)
	out.Root = conv(c.Root, m)
	return out
}

func (c *CmdGetQuota) equal(o Node) bool {
	x, ok := o.(*CmdGetQuota)
	return ok && eq(c.Root, x.Root)
}

func (c *CmdGetQuotaRoot) convert(m mode) Node {
	out := target(c, m)
	out.Mailbox = conv(c.Mailbox, m)
	return out
}

func (c *CmdGetQuotaRoot) equal(o Node) bool {
	x, ok := o.(*CmdGetQuotaRoot)
	return ok && eq(c.Mailbox, x.Mailbox)
}

func (c *CmdSetQuota) convert(m mode) Node {
	out := target(c, m)
	out.Root = conv(c.Root, m)
	out.Limits = convRecords(c.Limits, m)
	return out
}

func (c *CmdSetQuota) equal(o Node) bool {
	x, ok := o.(*CmdSetQuota)
	return ok && eq(c.Root, x.Root) && eqRecords(c.Limits, x.Limits)
}

// QuotaData is a QUOTA response.
type QuotaData struct {
	Root   AString
	Quotas []QuotaGet
}

// QuotaRootData is a QUOTAROOT response.
type QuotaRootData struct {
	Mailbox Mailbox
	Roots   []AString
}

func (*QuotaData) isMessage()      {}
func (*QuotaData) isResponse()     {}
func (*QuotaData) isData()         {}
func (*QuotaRootData) isMessage()  {}
func (*QuotaRootData) isResponse() {}
func (*QuotaRootData) isData()     {}

func (d *QuotaData) convert(m mode) Node {
	out := target(d, m)
	out.Root = conv(d.Root, m)
	out.Quotas = convRecords(d.Quotas, m)
	return out
}

func (d *QuotaData) equal(o Node) bool {
	x, ok := o.(*QuotaData)
	return ok && eq(d.Root, x.Root) && eqRecords(d.Quotas, x.Quotas)
}

func (d *QuotaRootData) convert(m mode) Node {
	out := target(d, m)
	out.Mailbox = conv(d.Mailbox, m)
	out.Roots = convSlice(d.Roots, m)
	return out
}

func (d *QuotaRootData) equal(o Node) bool {
	x, ok := o.(*QuotaRootData)
	return ok && eq(d.Mailbox, x.Mailbox) && eqSlice(d.Roots, x.Roots)
}
