package testutil

import (
	"github.com/imapwire/imapfuzz/imap"
)

// Source turns fixture text into a leaf. Arena.Borrow and imap.OwnString
// are the two usual sources.
type Source func(string) imap.Bytes

// Owned is a Source producing owned leaves.
var Owned Source = imap.OwnString

// Arena hands out borrowed views into one preallocated buffer, standing in
// for the input buffer a decoder borrows from.
type Arena struct {
	buf []byte
}

// NewArena returns an arena able to hold capacity bytes.
func NewArena(capacity int) *Arena {
	return &Arena{buf: make([]byte, 0, capacity)}
}

// Borrow copies s into the arena and returns a borrowed view of the copy.
func (a *Arena) Borrow(s string) imap.Bytes {
	if len(a.buf)+len(s) > cap(a.buf) {
		panic("testutil: arena exhausted")
	}
	start := len(a.buf)
	a.buf = append(a.buf, s...)
	return imap.Borrow(a.buf[start:len(a.buf):len(a.buf)])
}

// Buffer returns everything handed out so far.
func (a *Arena) Buffer() []byte {
	return a.buf
}

// Scribble inverts every byte handed out so far.
func (a *Arena) Scribble() {
	for i := range a.buf {
		a.buf[i] = ^a.buf[i]
	}
}

// Mixed returns a Source alternating between borrowing from a and owning.
func Mixed(a *Arena) Source {
	n := 0
	return func(s string) imap.Bytes {
		n++
		if n%2 == 0 {
			return imap.OwnString(s)
		}
		return a.Borrow(s)
	}
}

func quoted(src Source, s string) *imap.Quoted {
	return &imap.Quoted{Bytes: src(s)}
}

func literal(src Source, s string) *imap.Literal {
	return &imap.Literal{Bytes: src(s), Mode: imap.NonSync}
}

func atom(src Source, s string) imap.Atom {
	return imap.Atom{Bytes: src(s)}
}

func mailbox(src Source, s string) imap.Mailbox {
	return imap.NewMailbox(&imap.AtomExt{Bytes: src(s)})
}

func text(src Source, s string) imap.Text {
	return imap.Text{Bytes: src(s)}
}

func tag(src Source, s string) imap.Tag {
	return imap.Tag{Bytes: src(s)}
}

func command(src Source, t string, body imap.CommandBody) imap.Message {
	return &imap.Command{Tag: tag(src, t), Body: body}
}

// SampleCommands returns one command per command body variant.
func SampleCommands(src Source) map[string]imap.Message {
	initial := src("AGFsaWNlAHNlY3JldA==")
	charset := imap.Charset{Bytes: src("UTF-8")}
	date := imap.DateTime{Date: imap.Date{Year: 2021, Month: 7, Day: 17}, Hour: 2, Minute: 24, Second: 58, OffsetMinutes: -420}
	return map[string]imap.Message{
		"capability": command(src, "a1", &imap.CmdCapability{}),
		"noop":       command(src, "a2", &imap.CmdNoop{}),
		"logout":     command(src, "a3", &imap.CmdLogout{}),
		"starttls":   command(src, "a4", &imap.CmdStartTLS{}),
		"authenticate": command(src, "a5", &imap.CmdAuthenticate{
			Mechanism:       atom(src, "PLAIN"),
			InitialResponse: &initial,
		}),
		"login": command(src, "a6", &imap.CmdLogin{
			Username: &imap.AtomExt{Bytes: src("alice")},
			Password: literal(src, "pass\x7fword"),
		}),
		"select":      command(src, "a7", &imap.CmdSelect{Mailbox: mailbox(src, "inbox")}),
		"examine":     command(src, "a8", &imap.CmdExamine{Mailbox: mailbox(src, "Archive")}),
		"create":      command(src, "a9", &imap.CmdCreate{Mailbox: mailbox(src, "Drafts")}),
		"delete":      command(src, "b1", &imap.CmdDelete{Mailbox: mailbox(src, "Trash")}),
		"rename":      command(src, "b2", &imap.CmdRename{From: mailbox(src, "Old"), To: mailbox(src, "New")}),
		"subscribe":   command(src, "b3", &imap.CmdSubscribe{Mailbox: mailbox(src, "Lists")}),
		"unsubscribe": command(src, "b4", &imap.CmdUnsubscribe{Mailbox: mailbox(src, "Lists")}),
		"list": command(src, "b5", &imap.CmdList{
			Reference: mailbox(src, "Work"),
			Pattern:   quoted(src, "*"),
		}),
		"lsub": command(src, "b6", &imap.CmdList{
			Reference: mailbox(src, "Work"),
			Pattern:   quoted(src, "%"),
			Lsub:      true,
		}),
		"status": command(src, "b7", &imap.CmdStatus{
			Mailbox:    mailbox(src, "INBOX"),
			Attributes: []imap.StatusAttribute{imap.StatusMessages, imap.StatusUidNext, imap.StatusDeleted},
		}),
		"append": command(src, "b8", &imap.CmdAppend{
			Mailbox: mailbox(src, "Sent"),
			Flags:   []imap.Flag{{Kind: imap.FlagSeen}, {Kind: imap.FlagKeyword, Name: atom(src, "$Forwarded")}},
			Date:    &date,
			Message: literal(src, "Subject: hi\r\n\r\nbody\r\n"),
		}),
		"check":    command(src, "b9", &imap.CmdCheck{}),
		"close":    command(src, "c1", &imap.CmdClose{}),
		"unselect": command(src, "c2", &imap.CmdUnselect{}),
		"expunge":  command(src, "c3", &imap.CmdExpunge{}),
		"search": command(src, "c4", &imap.CmdSearch{
			Charset: &charset,
			Criteria: &imap.SearchAnd{Keys: []imap.SearchKey{
				&imap.SearchFlag{Kind: imap.SearchUnseen},
				&imap.SearchOr{
					Left:  &imap.SearchString{Field: imap.SearchFrom, Value: quoted(src, "bob@example.org")},
					Right: &imap.SearchHeader{Name: &imap.AtomExt{Bytes: src("X-Priority")}, Value: quoted(src, "1")},
				},
				&imap.SearchNot{Key: &imap.SearchKeyword{Keyword: atom(src, "Junk")}},
				&imap.SearchSize{Larger: true, Size: 1024},
				&imap.SearchSequence{Set: imap.SequenceSet{{From: 1, To: imap.Asterisk, Range: true}}, Uid: true},
				&imap.SearchDate{Field: imap.SearchSince, Date: imap.Date{Year: 2020, Month: 2, Day: 29}},
			}},
			Uid: true,
		}),
		"fetch": command(src, "c5", &imap.CmdFetch{
			Set: imap.SequenceSet{{From: 1}, {From: 4, To: 7, Range: true}},
			Attributes: []imap.FetchAttribute{
				{Kind: imap.FetchFlags},
				{
					Kind:    imap.FetchBodyExt,
					Section: &imap.Section{Kind: imap.SectionHeaderFields, Part: []uint32{1, 2}, Fields: []imap.AString{&imap.AtomExt{Bytes: src("Subject")}}},
					Partial: &imap.Partial{Offset: 0, Length: 512},
					Peek:    true,
				},
			},
		}),
		"store": command(src, "c6", &imap.CmdStore{
			Set:    imap.SequenceSet{{From: 2, To: 3, Range: true}},
			Kind:   imap.StoreAdd,
			Silent: true,
			Flags:  []imap.Flag{{Kind: imap.FlagDeleted}, {Kind: imap.FlagExtension, Name: atom(src, "Custom")}},
			Uid:    true,
		}),
		"copy": command(src, "c7", &imap.CmdCopy{Set: imap.SequenceSet{{From: imap.Asterisk}}, Mailbox: mailbox(src, "Saved")}),
		"move": command(src, "c8", &imap.CmdMove{Set: imap.SequenceSet{{From: 9}}, Mailbox: mailbox(src, "Spam"), Uid: true}),
		"idle": command(src, "c9", &imap.CmdIdle{}),
		"enable": command(src, "d1", &imap.CmdEnable{Capabilities: []imap.Capability{
			{Kind: imap.CapOther, Atom: atom(src, "CONDSTORE")},
			{Kind: imap.CapMove},
		}}),
		"compress":     command(src, "d2", &imap.CmdCompress{Algorithm: atom(src, "DEFLATE")}),
		"getquota":     command(src, "d3", &imap.CmdGetQuota{Root: quoted(src, "")}),
		"getquotaroot": command(src, "d4", &imap.CmdGetQuotaRoot{Mailbox: mailbox(src, "INBOX")}),
		"setquota": command(src, "d5", &imap.CmdSetQuota{
			Root: &imap.AtomExt{Bytes: src("#user/alice")},
			Limits: []imap.QuotaSet{
				{Resource: imap.Resource{Kind: imap.ResourceStorage}, Limit: 512},
				{Resource: imap.Resource{Kind: imap.ResourceOther, Other: atom(src, "X-BLOBS")}, Limit: 3},
			},
		}),
	}
}

// SampleResponses returns one message per response, greeting and
// client continuation variant.
func SampleResponses(src Source) map[string]imap.Message {
	okTag := tag(src, "a1")
	delimiter := byte('/')
	params := src("x y z")
	origin := uint32(42)
	return map[string]imap.Message{
		"greeting": &imap.Greeting{
			Kind: imap.GreetingOk,
			Code: &imap.CodeCapability{Capabilities: []imap.Capability{{Kind: imap.CapImap4Rev1}, {Kind: imap.CapAuth, Atom: atom(src, "PLAIN")}}},
			Text: text(src, "IMAP4rev1 server ready"),
		},
		"tagged ok": &imap.Status{
			Kind: imap.StatusOk,
			Tag:  &okTag,
			Code: &imap.CodeSimple{Kind: imap.CodeReadWrite},
			Text: text(src, "SELECT completed"),
		},
		"untagged no": &imap.Status{
			Kind: imap.StatusNo,
			Code: &imap.CodeBadCharset{Allowed: []imap.Charset{{Bytes: src("UTF-8")}, {Bytes: src("US-ASCII")}}},
			Text: text(src, "unsupported charset"),
		},
		"bad with other code": &imap.Status{
			Kind: imap.StatusBad,
			Code: &imap.CodeOther{Name: atom(src, "X-CODE"), Params: &params},
			Text: text(src, "bad"),
		},
		"preauth": &imap.Status{
			Kind: imap.StatusPreAuth,
			Code: &imap.CodePermanentFlags{Flags: []imap.Flag{{Kind: imap.FlagSeen}, {Kind: imap.FlagWildcard}}},
			Text: text(src, "logged in"),
		},
		"bye": &imap.Status{
			Kind: imap.StatusBye,
			Code: &imap.CodeNumber{Kind: imap.CodeUidValidity, Value: 3857529045},
			Text: text(src, "closing"),
		},
		"capability": &imap.CapabilityData{Capabilities: []imap.Capability{
			{Kind: imap.CapImap4Rev1},
			{Kind: imap.CapQuotaRes, Atom: atom(src, "STORAGE")},
		}},
		"list": &imap.ListData{
			Attributes: []imap.Atom{atom(src, `\HasNoChildren`)},
			Delimiter:  &delimiter,
			Mailbox:    mailbox(src, "Work/Reports"),
		},
		"lsub": &imap.ListData{Mailbox: mailbox(src, "inbox"), Lsub: true},
		"status": &imap.StatusData{
			Mailbox: mailbox(src, "Archive"),
			Items:   []imap.StatusItem{{Attribute: imap.StatusMessages, Value: 231}, {Attribute: imap.StatusUidNext, Value: 44292}},
		},
		"search":  &imap.SearchData{IDs: []uint32{2, 84, 882}},
		"flags":   &imap.FlagsData{Flags: []imap.Flag{{Kind: imap.FlagAnswered}, {Kind: imap.FlagDraft}}},
		"exists":  &imap.ExistsData{Count: 172},
		"recent":  &imap.RecentData{Count: 1},
		"expunge": &imap.ExpungeData{Seq: 22},
		"fetch": &imap.FetchData{Seq: 12, Items: []imap.MessageDataItem{
			&imap.ItemUid{Uid: 4827313},
			&imap.ItemFlags{Flags: []imap.Flag{{Kind: imap.FlagRecent}}},
			&imap.ItemSize{Size: 44827},
			&imap.ItemInternalDate{Date: imap.DateTime{Date: imap.Date{Year: 1996, Month: 7, Day: 17}, Hour: 2, Minute: 44, Second: 25, OffsetMinutes: -420}},
			&imap.ItemBody{Section: &imap.Section{Kind: imap.SectionText}, Origin: &origin, Data: literal(src, "hello")},
			&imap.ItemRfc822{Kind: imap.Rfc822Header},
			&imap.ItemBodyStructure{Extended: true, Structure: &imap.MultiBody{
				Parts: []imap.BodyStructure{&imap.SingleBody{
					Type:     quoted(src, "TEXT"),
					Subtype:  quoted(src, "PLAIN"),
					Params:   []imap.BodyParam{{Key: quoted(src, "CHARSET"), Value: quoted(src, "us-ascii")}},
					Encoding: quoted(src, "7BIT"),
					Size:     3028,
					Extensions: []imap.BodyExtension{
						&imap.ExtString{},
						&imap.ExtNumber{Value: 92},
						&imap.ExtList{Items: []imap.BodyExtension{&imap.ExtString{Value: quoted(src, "en")}}},
					},
				}},
				Subtype: quoted(src, "MIXED"),
			}},
		}},
		"enabled": &imap.EnabledData{Capabilities: []imap.Capability{{Kind: imap.CapOther, Atom: atom(src, "UTF8=ACCEPT")}}},
		"quota": &imap.QuotaData{
			Root:   quoted(src, ""),
			Quotas: []imap.QuotaGet{{Resource: imap.Resource{Kind: imap.ResourceStorage}, Usage: 10, Limit: 512}},
		},
		"quotaroot": &imap.QuotaRootData{Mailbox: mailbox(src, "INBOX"), Roots: []imap.AString{quoted(src, "")}},
		"continuation": &imap.ContinuationBasic{
			Code: &imap.CodeSimple{Kind: imap.CodeAlert},
			Text: text(src, "ready for literal"),
		},
		"continuation base64": &imap.ContinuationBase64{Data: src("\x00\x01challenge")},
		"authenticate data":   &imap.AuthenticateData{Data: src("response")},
		"authenticate cancel": &imap.AuthenticateData{Data: src(""), Cancel: true},
		"idle done":           &imap.IdleDone{},
	}
}

// SampleMessages returns SampleCommands and SampleResponses together.
func SampleMessages(src Source) map[string]imap.Message {
	out := SampleCommands(src)
	for name, msg := range SampleResponses(src) {
		out["response "+name] = msg
	}
	return out
}

// DeepExtension returns a body extension nested depth lists deep around a
// single string leaf.
func DeepExtension(src Source, depth int) imap.BodyExtension {
	var ext imap.BodyExtension = &imap.ExtString{Value: quoted(src, "leaf")}
	for i := 0; i < depth; i++ {
		ext = &imap.ExtList{Items: []imap.BodyExtension{ext}}
	}
	return ext
}

// DeepFetch returns a FETCH response whose body structure carries
// DeepExtension(src, depth).
func DeepFetch(src Source, depth int) *imap.FetchData {
	return &imap.FetchData{Seq: 1, Items: []imap.MessageDataItem{
		&imap.ItemBodyStructure{Extended: true, Structure: &imap.SingleBody{
			Type:       quoted(src, "TEXT"),
			Subtype:    quoted(src, "PLAIN"),
			Encoding:   quoted(src, "8BIT"),
			Extensions: []imap.BodyExtension{DeepExtension(src, depth)},
		}},
	}}
}

// DeepSearch returns a SEARCH command with depth nested NOT criteria.
func DeepSearch(src Source, depth int) *imap.Command {
	var key imap.SearchKey = &imap.SearchString{Field: imap.SearchSubject, Value: quoted(src, "deep")}
	for i := 0; i < depth; i++ {
		key = &imap.SearchNot{Key: key}
	}
	return &imap.Command{Tag: tag(src, "deep"), Body: &imap.CmdSearch{Criteria: key}}
}
