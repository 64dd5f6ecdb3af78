package imap

// FlagKind enumerates system flags and the two atom-carrying flag forms.
type FlagKind uint8

const (
	FlagAnswered FlagKind = iota
	FlagFlagged
	FlagDeleted
	FlagSeen
	FlagDraft
	// FlagRecent only appears in fetch responses
	FlagRecent
	// FlagKeyword is a user defined keyword without backslash
	FlagKeyword
	// FlagExtension is an unknown \Atom flag
	FlagExtension
	// FlagWildcard is "\*" in PERMANENTFLAGS
	FlagWildcard
)

var flagKindNames = [...]string{
	FlagAnswered:  `\Answered`,
	FlagFlagged:   `\Flagged`,
	FlagDeleted:   `\Deleted`,
	FlagSeen:      `\Seen`,
	FlagDraft:     `\Draft`,
	FlagRecent:    `\Recent`,
	FlagKeyword:   "keyword",
	FlagExtension: "extension",
	FlagWildcard:  `\*`,
}

func (fk FlagKind) String() string {
	if int(fk) < len(flagKindNames) {
		return flagKindNames[fk]
	}
	return "unknown"
}

// Flag is a message flag. Name is only set for keywords and extensions.
type Flag struct {
	Kind FlagKind
	Name Atom
}

func (f Flag) String() string {
	switch f.Kind {
	case FlagKeyword:
		return f.Name.String()
	case FlagExtension:
		return `\` + f.Name.String()
	}
	return f.Kind.String()
}

func (f Flag) convert(m mode) Flag {
	return Flag{Kind: f.Kind, Name: f.Name.convert(m)}
}

func (f Flag) equal(o Flag) bool {
	return f.Kind == o.Kind && f.Name.equal(o.Name)
}

// CapabilityKind enumerates the capabilities this library knows.
type CapabilityKind uint8

const (
	CapImap4Rev1 CapabilityKind = iota
	CapStartTLS
	CapLoginDisabled
	CapIdle
	CapEnable
	CapMove
	CapUnselect
	CapLiteralPlus
	CapSaslIR
	CapCompressDeflate
	CapQuota
	CapQuotaSet
	// CapAuth carries the mechanism in Atom (AUTH=<Atom>)
	CapAuth
	// CapQuotaRes carries the resource in Atom (QUOTA=RES-<Atom>)
	CapQuotaRes
	// CapOther carries the whole capability in Atom
	CapOther
)

// Capability is one entry of a CAPABILITY or ENABLED list.
type Capability struct {
	Kind CapabilityKind
	Atom Atom
}

func (c Capability) convert(m mode) Capability {
	return Capability{Kind: c.Kind, Atom: c.Atom.convert(m)}
}

func (c Capability) equal(o Capability) bool {
	return c.Kind == o.Kind && c.Atom.equal(o.Atom)
}

// Date is a calendar date as used by SEARCH.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

// DateTime is an internal date with a numeric zone.
type DateTime struct {
	Date
	Hour          uint8
	Minute        uint8
	Second        uint8
	OffsetMinutes int16
}

// StatusAttribute names a counter of the STATUS command.
type StatusAttribute uint8

const (
	StatusMessages StatusAttribute = iota
	StatusRecent
	StatusUidNext
	StatusUidValidity
	StatusUnseen
	// StatusDeleted and StatusDeletedStorage come with QUOTA
	StatusDeleted
	StatusDeletedStorage
)

// StatusItem is one attribute/value pair of a STATUS response.
type StatusItem struct {
	Attribute StatusAttribute
	Value     uint64
}
