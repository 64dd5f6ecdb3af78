package imap

import (
	"bytes"

	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
)

// Protocol keywords are case-insensitive. The constructors in this file map a
// keyword to its dedicated kind, so the catch-all kinds never hold a name
// that has one.

func hasPrefixFold(b []byte, prefix string) bool {
	return len(b) > len(prefix) && bytes.EqualFold(b[:len(prefix)], []byte(prefix))
}

func (b Bytes) from(i int) Bytes {
	return Bytes{raw: b.raw[i:], owned: b.owned}
}

// NewResource maps a quota resource name to its kind. Names other than the
// four defined by RFC 9208 become ResourceOther.
func NewResource(name Atom) Resource {
	for kind, known := range resourceNames {
		if bytes.EqualFold(name.Raw(), []byte(known)) {
			return Resource{Kind: ResourceKind(kind)}
		}
	}
	return Resource{Kind: ResourceOther, Other: name}
}

var capabilityNames = [...]string{
	CapImap4Rev1:       "IMAP4rev1",
	CapStartTLS:        "STARTTLS",
	CapLoginDisabled:   "LOGINDISABLED",
	CapIdle:            "IDLE",
	CapEnable:          "ENABLE",
	CapMove:            "MOVE",
	CapUnselect:        "UNSELECT",
	CapLiteralPlus:     "LITERAL+",
	CapSaslIR:          "SASL-IR",
	CapCompressDeflate: "COMPRESS=DEFLATE",
	CapQuota:           "QUOTA",
	CapQuotaSet:        "QUOTASET",
}

const (
	authPrefix     = "AUTH="
	quotaResPrefix = "QUOTA=RES-"
)

func (c Capability) String() string {
	switch c.Kind {
	case CapAuth:
		return authPrefix + c.Atom.String()
	case CapQuotaRes:
		return quotaResPrefix + c.Atom.String()
	case CapOther:
		return c.Atom.String()
	}
	if int(c.Kind) < len(capabilityNames) {
		return capabilityNames[c.Kind]
	}
	return c.Atom.String()
}

// NewCapability maps a capability atom to its kind. AUTH= and QUOTA=RES-
// keep the part after the prefix as a view into name.
func NewCapability(name Atom) Capability {
	raw := name.Raw()
	for kind, known := range capabilityNames {
		if bytes.EqualFold(raw, []byte(known)) {
			return Capability{Kind: CapabilityKind(kind)}
		}
	}
	switch {
	case hasPrefixFold(raw, authPrefix):
		return Capability{Kind: CapAuth, Atom: Atom{name.from(len(authPrefix))}}
	case hasPrefixFold(raw, quotaResPrefix):
		return NewQuotaResCapability(Atom{name.from(len(quotaResPrefix))})
	}
	return Capability{Kind: CapOther, Atom: name}
}

// NewQuotaResCapability is QUOTA=RES-<res>. A resource RFC 9208 defines is
// stored in its canonical spelling.
func NewQuotaResCapability(res Atom) Capability {
	r := NewResource(res)
	if r.Kind == ResourceOther || string(res.Raw()) == resourceNames[r.Kind] {
		return Capability{Kind: CapQuotaRes, Atom: res}
	}
	return Capability{Kind: CapQuotaRes, Atom: Atom{OwnString(resourceNames[r.Kind])}}
}

var systemFlagNames = map[FlagKind]string{
	FlagAnswered: "Answered",
	FlagFlagged:  "Flagged",
	FlagDeleted:  "Deleted",
	FlagSeen:     "Seen",
	FlagDraft:    "Draft",
	FlagRecent:   "Recent",
}

// NewFlagExtension maps the atom of a \Atom flag to a system flag when it
// names one.
func NewFlagExtension(name Atom) Flag {
	for kind, known := range systemFlagNames {
		if bytes.EqualFold(name.Raw(), []byte(known)) {
			return Flag{Kind: kind}
		}
	}
	return Flag{Kind: FlagExtension, Name: name}
}

var simpleCodeNames = map[CodeKind]string{
	CodeAlert:             "ALERT",
	CodeParse:             "PARSE",
	CodeReadOnly:          "READ-ONLY",
	CodeReadWrite:         "READ-WRITE",
	CodeTryCreate:         "TRYCREATE",
	CodeCompressionActive: "COMPRESSIONACTIVE",
	CodeOverQuota:         "OVERQUOTA",
}

var argumentCodeNames = []string{"BADCHARSET", "CAPABILITY", "PERMANENTFLAGS", "UIDNEXT", "UIDVALIDITY", "UNSEEN"}

// NewCodeOther builds a response code from its name and raw parameters.
// Argument-free codes with a dedicated kind become CodeSimple, a bare
// BADCHARSET becomes CodeBadCharset, and any other use of a reserved name
// is ErrIncorrectFormat.
func NewCodeOther(name Atom, params *Bytes) (Code, error) {
	raw := name.Raw()
	for kind, known := range simpleCodeNames {
		if bytes.EqualFold(raw, []byte(known)) {
			if params != nil {
				return nil, xerrors.Errorf("code %s takes no parameters: %w", known, imapfuzz.ErrIncorrectFormat)
			}
			return &CodeSimple{Kind: kind}, nil
		}
	}
	for _, known := range argumentCodeNames {
		if bytes.EqualFold(raw, []byte(known)) {
			if known == "BADCHARSET" && params == nil {
				return &CodeBadCharset{}, nil
			}
			return nil, xerrors.Errorf("code %s has a dedicated form: %w", known, imapfuzz.ErrIncorrectFormat)
		}
	}
	return &CodeOther{Name: name, Params: params}, nil
}
