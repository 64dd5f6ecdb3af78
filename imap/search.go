package imap

// SearchKey is one SEARCH criterion. And, Or and Not nest other keys.
type SearchKey interface {
	Node
	isSearchKey()
}

// SearchAnd matches when every key matches, the parenthesized list form.
type SearchAnd struct {
	Keys []SearchKey
}

// SearchOr matches when either key matches.
type SearchOr struct {
	Left  SearchKey
	Right SearchKey
}

// SearchNot inverts Key.
type SearchNot struct {
	Key SearchKey
}

// SearchFlagKind enumerates criteria without arguments.
type SearchFlagKind uint8

const (
	SearchAll SearchFlagKind = iota
	SearchAnswered
	SearchDeleted
	SearchDraft
	SearchFlagged
	SearchNew
	SearchOld
	SearchRecent
	SearchSeen
	SearchUnanswered
	SearchUndeleted
	SearchUndraft
	SearchUnflagged
	SearchUnseen
)

// SearchFlag is a criterion without arguments such as ALL or UNSEEN.
type SearchFlag struct {
	Kind SearchFlagKind
}

// SearchField names a string criterion.
type SearchField uint8

const (
	SearchBcc SearchField = iota
	SearchBody
	SearchCc
	SearchFrom
	SearchSubject
	SearchText
	SearchTo
)

// SearchString matches Value against a field.
type SearchString struct {
	Field SearchField
	Value AString
}

// SearchHeader is HEADER <name> <value>.
type SearchHeader struct {
	Name  AString
	Value AString
}

// SearchKeyword is KEYWORD or UNKEYWORD.
type SearchKeyword struct {
	Keyword Atom
	Un      bool
}

// SearchSize is LARGER or SMALLER.
type SearchSize struct {
	Larger bool
	Size   uint32
}

// SearchSequence is a sequence set, or UID <set> when Uid is true.
type SearchSequence struct {
	Set SequenceSet
	Uid bool
}

// SearchDateField names a date criterion.
type SearchDateField uint8

const (
	SearchBefore SearchDateField = iota
	SearchOn
	SearchSince
	SearchSentBefore
	SearchSentOn
	SearchSentSince
)

// SearchDate compares an internal or sent date against Date.
type SearchDate struct {
	Field SearchDateField
	Date  Date
}

func (*SearchAnd) isSearchKey()      {}
func (*SearchOr) isSearchKey()       {}
func (*SearchNot) isSearchKey()      {}
func (*SearchFlag) isSearchKey()     {}
func (*SearchString) isSearchKey()   {}
func (*SearchHeader) isSearchKey()   {}
func (*SearchKeyword) isSearchKey()  {}
func (*SearchSize) isSearchKey()     {}
func (*SearchSequence) isSearchKey() {}
func (*SearchDate) isSearchKey()     {}

func (s *SearchAnd) convert(m mode) Node {
	out := target(s, m)
	out.Keys = convSlice(s.Keys, m)
	return out
}

func (s *SearchAnd) equal(o Node) bool {
	x, ok := o.(*SearchAnd)
	return ok && eqSlice(s.Keys, x.Keys)
}

func (s *SearchOr) convert(m mode) Node {
	out := target(s, m)
	out.Left = conv(s.Left, m)
	out.Right = conv(s.Right, m)
	return out
}

func (s *SearchOr) equal(o Node) bool {
	x, ok := o.(*SearchOr)
	return ok && eq(s.Left, x.Left) && eq(s.Right, x.Right)
}

func (s *SearchNot) convert(m mode) Node {
	out := target(s, m)
	out.Key = conv(s.Key, m)
	return out
}

func (s *SearchNot) equal(o Node) bool {
	x, ok := o.(*SearchNot)
	return ok && eq(s.Key, x.Key)
}

func (s *SearchFlag) convert(m mode) Node {
	out := target(s, m)
	out.Kind = s.Kind
	return out
}

func (s *SearchFlag) equal(o Node) bool {
	x, ok := o.(*SearchFlag)
	return ok && s.Kind == x.Kind
}

func (s *SearchString) convert(m mode) Node {
	out := target(s, m)
	out.Field = s.Field
	out.Value = conv(s.Value, m)
	return out
}

func (s *SearchString) equal(o Node) bool {
	x, ok := o.(*SearchString)
	return ok && s.Field == x.Field && eq(s.Value, x.Value)
}

func (s *SearchHeader) convert(m mode) Node {
	out := target(s, m)
	out.Name = conv(s.Name, m)
	out.Value = conv(s.Value, m)
	return out
}

func (s *SearchHeader) equal(o Node) bool {
	x, ok := o.(*SearchHeader)
	return ok && eq(s.Name, x.Name) && eq(s.Value, x.Value)
}

func (s *SearchKeyword) convert(m mode) Node {
	out := target(s, m)
	out.Keyword = s.Keyword.convert(m)
	out.Un = s.Un
	return out
}

func (s *SearchKeyword) equal(o Node) bool {
	x, ok := o.(*SearchKeyword)
	return ok && s.Un == x.Un && s.Keyword.equal(x.Keyword)
}

func (s *SearchSize) convert(m mode) Node {
	out := target(s, m)
	*out = *s
	return out
}

func (s *SearchSize) equal(o Node) bool {
	x, ok := o.(*SearchSize)
	return ok && *s == *x
}

func (s *SearchSequence) convert(m mode) Node {
	out := target(s, m)
	out.Set = s.Set.convert(m)
	out.Uid = s.Uid
	return out
}

func (s *SearchSequence) equal(o Node) bool {
	x, ok := o.(*SearchSequence)
	return ok && s.Uid == x.Uid && s.Set.equal(x.Set)
}

func (s *SearchDate) convert(m mode) Node {
	out := target(s, m)
	*out = *s
	return out
}

func (s *SearchDate) equal(o Node) bool {
	x, ok := o.(*SearchDate)
	return ok && *s == *x
}
