package arbitrary

import (
	gofuzz "github.com/google/gofuzz"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/imap"
)

// Structural builds a message by filling its fields from data with gofuzz.
// Unlike the Generator, every leaf it produces is owned, so the result never
// refers back to data.
func Structural(data []byte, opts ...Option) imap.Message {
	cfg := NewConfig(opts...)
	var msg imap.Message
	newStructural(data, cfg).Fuzz(&msg)
	return msg
}

type choice[T any] struct {
	feature imapfuzz.Feature
	new     func() T
}

func choose[T any](fs imapfuzz.Features, c gofuzz.Continue, choices []choice[T]) T {
	enabled := make([]int, 0, len(choices))
	for i, ch := range choices {
		if ch.feature == 0 || fs.Has(ch.feature) {
			enabled = append(enabled, i)
		}
	}
	return choices[enabled[c.Intn(len(enabled))]].new()
}

func enum[T ~uint8](n T) func(*T, gofuzz.Continue) {
	return func(v *T, c gofuzz.Continue) {
		*v = T(c.Intn(int(n)))
	}
}

const (
	atomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-_!#$&'+,/:;<=>?@^`|~"
	textAlphabet = atomAlphabet + " ()%*\\]\"{}[\t"
)

func randFrom(c gofuzz.Continue, alphabet string, min, max int) imap.Bytes {
	n := min + c.Intn(max-min+1)
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[c.Intn(len(alphabet))]
	}
	return imap.Own(b)
}

func newStructural(data []byte, cfg Config) *gofuzz.Fuzzer {
	fs := cfg.Features
	maxLen := cfg.MaxLength
	if maxLen > 32 {
		maxLen = 32
	}

	literal := func(c gofuzz.Continue) *imap.Literal {
		mode := imap.Sync
		if fs.Has(imapfuzz.FeatureLiteralPlus) && c.RandBool() {
			mode = imap.NonSync
		}
		b := make([]byte, c.Intn(maxLen+1))
		for i := range b {
			b[i] = byte(1 + c.Intn(255))
		}
		return &imap.Literal{Bytes: imap.Own(b), Mode: mode}
	}
	quoted := func(c gofuzz.Continue) *imap.Quoted {
		return &imap.Quoted{Bytes: randFrom(c, textAlphabet, 0, maxLen)}
	}

	messages := []choice[imap.Message]{
		{new: func() imap.Message { return &imap.Command{} }},
		{new: func() imap.Message { return &imap.Greeting{} }},
		{new: func() imap.Message { return &imap.Status{} }},
		{new: func() imap.Message { return &imap.ContinuationBasic{} }},
		{new: func() imap.Message { return &imap.ContinuationBase64{} }},
		{new: func() imap.Message { return &imap.AuthenticateData{} }},
		{feature: imapfuzz.FeatureIdle, new: func() imap.Message { return &imap.IdleDone{} }},
		{new: func() imap.Message { return &imap.CapabilityData{} }},
		{new: func() imap.Message { return &imap.ListData{} }},
		{new: func() imap.Message { return &imap.StatusData{} }},
		{new: func() imap.Message { return &imap.SearchData{} }},
		{new: func() imap.Message { return &imap.FlagsData{} }},
		{new: func() imap.Message { return &imap.ExistsData{} }},
		{new: func() imap.Message { return &imap.RecentData{} }},
		{new: func() imap.Message { return &imap.ExpungeData{} }},
		{new: func() imap.Message { return &imap.FetchData{} }},
		{feature: imapfuzz.FeatureEnable, new: func() imap.Message { return &imap.EnabledData{} }},
		{feature: imapfuzz.FeatureQuota, new: func() imap.Message { return &imap.QuotaData{} }},
		{feature: imapfuzz.FeatureQuota, new: func() imap.Message { return &imap.QuotaRootData{} }},
	}

	commands := []choice[imap.CommandBody]{
		{new: func() imap.CommandBody { return &imap.CmdCapability{} }},
		{new: func() imap.CommandBody { return &imap.CmdNoop{} }},
		{new: func() imap.CommandBody { return &imap.CmdLogout{} }},
		{new: func() imap.CommandBody { return &imap.CmdStartTLS{} }},
		{new: func() imap.CommandBody { return &imap.CmdCheck{} }},
		{new: func() imap.CommandBody { return &imap.CmdClose{} }},
		{new: func() imap.CommandBody { return &imap.CmdExpunge{} }},
		{feature: imapfuzz.FeatureUnselect, new: func() imap.CommandBody { return &imap.CmdUnselect{} }},
		{feature: imapfuzz.FeatureIdle, new: func() imap.CommandBody { return &imap.CmdIdle{} }},
		{new: func() imap.CommandBody { return &imap.CmdAuthenticate{} }},
		{new: func() imap.CommandBody { return &imap.CmdLogin{} }},
		{new: func() imap.CommandBody { return &imap.CmdSelect{} }},
		{new: func() imap.CommandBody { return &imap.CmdExamine{} }},
		{new: func() imap.CommandBody { return &imap.CmdCreate{} }},
		{new: func() imap.CommandBody { return &imap.CmdDelete{} }},
		{new: func() imap.CommandBody { return &imap.CmdRename{} }},
		{new: func() imap.CommandBody { return &imap.CmdSubscribe{} }},
		{new: func() imap.CommandBody { return &imap.CmdUnsubscribe{} }},
		{new: func() imap.CommandBody { return &imap.CmdList{} }},
		{new: func() imap.CommandBody { return &imap.CmdStatus{} }},
		{new: func() imap.CommandBody { return &imap.CmdAppend{} }},
		{new: func() imap.CommandBody { return &imap.CmdSearch{} }},
		{new: func() imap.CommandBody { return &imap.CmdFetch{} }},
		{new: func() imap.CommandBody { return &imap.CmdStore{} }},
		{new: func() imap.CommandBody { return &imap.CmdCopy{} }},
		{feature: imapfuzz.FeatureMove, new: func() imap.CommandBody { return &imap.CmdMove{} }},
		{feature: imapfuzz.FeatureEnable, new: func() imap.CommandBody { return &imap.CmdEnable{} }},
		{feature: imapfuzz.FeatureCompress, new: func() imap.CommandBody { return &imap.CmdCompress{} }},
		{feature: imapfuzz.FeatureQuota, new: func() imap.CommandBody { return &imap.CmdGetQuota{} }},
		{feature: imapfuzz.FeatureQuota, new: func() imap.CommandBody { return &imap.CmdGetQuotaRoot{} }},
		{feature: imapfuzz.FeatureQuota, new: func() imap.CommandBody { return &imap.CmdSetQuota{} }},
	}

	codes := []choice[imap.Code]{
		{new: func() imap.Code { return &imap.CodeSimple{} }},
		{new: func() imap.Code { return &imap.CodeBadCharset{} }},
		{new: func() imap.Code { return &imap.CodeCapability{} }},
		{new: func() imap.Code { return &imap.CodePermanentFlags{} }},
		{new: func() imap.Code { return &imap.CodeNumber{} }},
		{new: func() imap.Code { return &imap.CodeOther{} }},
	}

	searchKeys := []choice[imap.SearchKey]{
		{new: func() imap.SearchKey { return &imap.SearchAnd{} }},
		{new: func() imap.SearchKey { return &imap.SearchOr{} }},
		{new: func() imap.SearchKey { return &imap.SearchNot{} }},
		{new: func() imap.SearchKey { return &imap.SearchFlag{} }},
		{new: func() imap.SearchKey { return &imap.SearchString{} }},
		{new: func() imap.SearchKey { return &imap.SearchHeader{} }},
		{new: func() imap.SearchKey { return &imap.SearchKeyword{} }},
		{new: func() imap.SearchKey { return &imap.SearchSize{} }},
		{new: func() imap.SearchKey { return &imap.SearchSequence{} }},
		{new: func() imap.SearchKey { return &imap.SearchDate{} }},
	}

	items := []choice[imap.MessageDataItem]{
		{new: func() imap.MessageDataItem { return &imap.ItemUid{} }},
		{new: func() imap.MessageDataItem { return &imap.ItemFlags{} }},
		{new: func() imap.MessageDataItem { return &imap.ItemSize{} }},
		{new: func() imap.MessageDataItem { return &imap.ItemInternalDate{} }},
		{new: func() imap.MessageDataItem { return &imap.ItemBody{} }},
		{new: func() imap.MessageDataItem { return &imap.ItemRfc822{} }},
		{new: func() imap.MessageDataItem { return &imap.ItemBodyStructure{} }},
	}

	codeKinds := imap.CodeTryCreate + 1
	statusAttrs := imap.StatusUnseen + 1
	if fs.Has(imapfuzz.FeatureQuota) {
		statusAttrs = imap.StatusDeletedStorage + 1
	}

	return gofuzz.NewFromGoFuzz(data).
		NilChance(0.2).
		NumElements(1, cfg.MaxElements).
		MaxDepth(cfg.StructuralDepth).
		Funcs(
			func(b *imap.Bytes, c gofuzz.Continue) {
				*b = randFrom(c, textAlphabet, 0, maxLen)
			},
			func(a *imap.Atom, c gofuzz.Continue) {
				*a = imap.Atom{Bytes: randFrom(c, atomAlphabet, 1, maxLen)}
			},
			func(t *imap.Tag, c gofuzz.Continue) {
				*t = imap.Tag{Bytes: randFrom(c, atomAlphabet[:62], 1, maxLen)}
			},
			func(t *imap.Text, c gofuzz.Continue) {
				*t = imap.Text{Bytes: randFrom(c, textAlphabet, 1, maxLen)}
			},
			func(cs *imap.Charset, c gofuzz.Continue) {
				*cs = imap.Charset{Bytes: randFrom(c, atomAlphabet, 1, maxLen)}
			},
			func(l *imap.Literal, c gofuzz.Continue) {
				*l = *literal(c)
			},
			func(s *imap.IString, c gofuzz.Continue) {
				if c.RandBool() {
					*s = literal(c)
					return
				}
				*s = quoted(c)
			},
			func(s *imap.AString, c gofuzz.Continue) {
				switch c.Intn(3) {
				case 0:
					*s = &imap.AtomExt{Bytes: randFrom(c, atomAlphabet+"]", 1, maxLen)}
				case 1:
					*s = quoted(c)
				default:
					*s = literal(c)
				}
			},
			func(mb *imap.Mailbox, c gofuzz.Continue) {
				if c.Intn(4) == 0 {
					*mb = &imap.Inbox{}
					return
				}
				var name imap.AString
				c.Fuzz(&name)
				*mb = imap.NewMailbox(name)
			},
			func(f *imap.Flag, c gofuzz.Continue) {
				*f = imap.Flag{Kind: imap.FlagKind(c.Intn(int(imap.FlagWildcard) + 1))}
				switch f.Kind {
				case imap.FlagKeyword:
					c.Fuzz(&f.Name)
				case imap.FlagExtension:
					var name imap.Atom
					c.Fuzz(&name)
					*f = imap.NewFlagExtension(name)
				}
			},
			func(cp *imap.Capability, c gofuzz.Continue) {
				*cp = imap.Capability{Kind: imap.CapabilityKind(c.Intn(int(imap.CapOther) + 1))}
				var name imap.Atom
				switch cp.Kind {
				case imap.CapAuth:
					c.Fuzz(&cp.Atom)
				case imap.CapQuotaRes:
					c.Fuzz(&name)
					*cp = imap.NewQuotaResCapability(name)
				case imap.CapOther:
					c.Fuzz(&name)
					*cp = imap.NewCapability(name)
				}
			},
			func(r *imap.Resource, c gofuzz.Continue) {
				*r = imap.Resource{Kind: imap.ResourceKind(c.Intn(int(imap.ResourceOther) + 1))}
				if r.Kind == imap.ResourceOther {
					var name imap.Atom
					c.Fuzz(&name)
					*r = imap.NewResource(name)
				}
			},
			enum(codeKinds),
			enum(statusAttrs),
			enum(imap.StatusBye+1),
			enum(imap.GreetingBye+1),
			enum(imap.CodeUnseen+1),
			enum(imap.StoreRemove+1),
			enum(imap.SectionMime+1),
			enum(imap.FetchUid+1),
			enum(imap.Rfc822Text+1),
			enum(imap.SearchUnseen+1),
			enum(imap.SearchTo+1),
			enum(imap.SearchSentSince+1),
			func(m *imap.Message, c gofuzz.Continue) {
				v := choose(fs, c, messages)
				c.Fuzz(v)
				*m = v
			},
			func(b *imap.CommandBody, c gofuzz.Continue) {
				v := choose(fs, c, commands)
				c.Fuzz(v)
				if a, ok := v.(*imap.CmdAuthenticate); ok && !fs.Has(imapfuzz.FeatureSaslIR) {
					a.InitialResponse = nil
				}
				*b = v
			},
			func(code *imap.Code, c gofuzz.Continue) {
				v := choose(fs, c, codes)
				c.Fuzz(v)
				if s, ok := v.(*imap.CodeSimple); ok {
					extra := []imap.CodeKind{imap.CodeAlert}
					if fs.Has(imapfuzz.FeatureCompress) {
						extra = append(extra, imap.CodeCompressionActive)
					}
					if fs.Has(imapfuzz.FeatureQuota) {
						extra = append(extra, imap.CodeOverQuota)
					}
					if c.RandBool() {
						s.Kind = extra[c.Intn(len(extra))]
					}
				}
				if o, ok := v.(*imap.CodeOther); ok {
					// reserved names fall back to ALERT
					canonical, err := imap.NewCodeOther(o.Name, o.Params)
					if s, simple := canonical.(*imap.CodeSimple); err != nil || (simple && s.Kind > imap.CodeTryCreate) {
						canonical = &imap.CodeSimple{Kind: imap.CodeAlert}
					}
					v = canonical
				}
				*code = v
			},
			func(k *imap.SearchKey, c gofuzz.Continue) {
				v := choose(fs, c, searchKeys)
				c.Fuzz(v)
				*k = v
			},
			func(item *imap.MessageDataItem, c gofuzz.Continue) {
				v := choose(fs, c, items)
				c.Fuzz(v)
				*item = v
			},
			func(b *imap.BodyStructure, c gofuzz.Continue) {
				var v imap.BodyStructure = &imap.SingleBody{}
				if c.Intn(4) == 0 {
					v = &imap.MultiBody{}
				}
				c.Fuzz(v)
				*b = v
			},
			func(e *imap.BodyExtension, c gofuzz.Continue) {
				var v imap.BodyExtension
				switch c.Intn(3) {
				case 0:
					v = &imap.ExtString{}
				case 1:
					v = &imap.ExtNumber{}
				default:
					v = &imap.ExtList{}
				}
				c.Fuzz(v)
				*e = v
			},
		)
}
