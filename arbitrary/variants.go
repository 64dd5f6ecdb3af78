package arbitrary

import (
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/imap"
)

var (
	messageVariants         []variant[imap.Message]
	responseVariants        []variant[imap.Response]
	commandVariants         []variant[imap.CommandBody]
	codeVariants            []variant[imap.Code]
	searchKeyVariants       []variant[imap.SearchKey]
	messageDataItemVariants []variant[imap.MessageDataItem]
	bodyStructureVariants   []variant[imap.BodyStructure]
	bodyExtensionVariants   []variant[imap.BodyExtension]
)

// the tables refer to generators that refer back to the tables, so they are
// filled in at init rather than in their declarations
func init() {
	messageVariants = []variant[imap.Message]{
		{weight: 6, gen: (*Generator).command},
		{weight: 6, gen: (*Generator).response},
		{weight: 2, gen: (*Generator).greeting},
		{weight: 1, gen: (*Generator).authenticateData},
		{weight: 1, feature: imapfuzz.FeatureIdle, gen: func(*Generator) (imap.Message, error) { return &imap.IdleDone{}, nil }},
	}

	responseVariants = []variant[imap.Response]{
		{weight: 4, gen: (*Generator).status},
		{weight: 6, gen: (*Generator).dataResponse},
		{weight: 1, gen: (*Generator).continuationBasic},
		{weight: 1, gen: (*Generator).continuationBase64},
	}

	commandVariants = []variant[imap.CommandBody]{
		{weight: 1, gen: func(*Generator) (imap.CommandBody, error) { return &imap.CmdCapability{}, nil }},
		{weight: 1, gen: func(*Generator) (imap.CommandBody, error) { return &imap.CmdNoop{}, nil }},
		{weight: 1, gen: func(*Generator) (imap.CommandBody, error) { return &imap.CmdLogout{}, nil }},
		{weight: 1, gen: func(*Generator) (imap.CommandBody, error) { return &imap.CmdStartTLS{}, nil }},
		{weight: 1, gen: func(*Generator) (imap.CommandBody, error) { return &imap.CmdCheck{}, nil }},
		{weight: 1, gen: func(*Generator) (imap.CommandBody, error) { return &imap.CmdClose{}, nil }},
		{weight: 1, gen: func(*Generator) (imap.CommandBody, error) { return &imap.CmdExpunge{}, nil }},
		{weight: 1, feature: imapfuzz.FeatureUnselect, gen: func(*Generator) (imap.CommandBody, error) { return &imap.CmdUnselect{}, nil }},
		{weight: 1, feature: imapfuzz.FeatureIdle, gen: func(*Generator) (imap.CommandBody, error) { return &imap.CmdIdle{}, nil }},
		{weight: 3, gen: (*Generator).cmdAuthenticate},
		{weight: 4, gen: (*Generator).cmdLogin},
		{weight: 2, gen: mailboxCommand(func(mb imap.Mailbox) imap.CommandBody { return &imap.CmdSelect{Mailbox: mb} })},
		{weight: 2, gen: mailboxCommand(func(mb imap.Mailbox) imap.CommandBody { return &imap.CmdExamine{Mailbox: mb} })},
		{weight: 2, gen: mailboxCommand(func(mb imap.Mailbox) imap.CommandBody { return &imap.CmdCreate{Mailbox: mb} })},
		{weight: 2, gen: mailboxCommand(func(mb imap.Mailbox) imap.CommandBody { return &imap.CmdDelete{Mailbox: mb} })},
		{weight: 2, gen: mailboxCommand(func(mb imap.Mailbox) imap.CommandBody { return &imap.CmdSubscribe{Mailbox: mb} })},
		{weight: 2, gen: mailboxCommand(func(mb imap.Mailbox) imap.CommandBody { return &imap.CmdUnsubscribe{Mailbox: mb} })},
		{weight: 2, gen: (*Generator).cmdRename},
		{weight: 3, gen: (*Generator).cmdList},
		{weight: 2, gen: (*Generator).cmdStatus},
		{weight: 3, gen: (*Generator).cmdAppend},
		{weight: 4, gen: (*Generator).cmdSearch},
		{weight: 4, gen: (*Generator).cmdFetch},
		{weight: 3, gen: (*Generator).cmdStore},
		{weight: 2, gen: (*Generator).cmdCopy},
		{weight: 2, feature: imapfuzz.FeatureMove, gen: (*Generator).cmdMove},
		{weight: 2, feature: imapfuzz.FeatureEnable, gen: (*Generator).cmdEnable},
		{weight: 1, feature: imapfuzz.FeatureCompress, gen: (*Generator).cmdCompress},
		{weight: 2, feature: imapfuzz.FeatureQuota, gen: (*Generator).cmdGetQuota},
		{weight: 2, feature: imapfuzz.FeatureQuota, gen: mailboxCommand(func(mb imap.Mailbox) imap.CommandBody { return &imap.CmdGetQuotaRoot{Mailbox: mb} })},
		{weight: 2, feature: imapfuzz.FeatureQuota, gen: (*Generator).cmdSetQuota},
	}

	codeVariants = []variant[imap.Code]{
		{weight: 4, gen: (*Generator).codeSimple},
		{weight: 2, gen: (*Generator).codeBadCharset},
		{weight: 2, gen: (*Generator).codeCapability},
		{weight: 2, gen: (*Generator).codePermanentFlags},
		{weight: 3, gen: (*Generator).codeNumber},
		{weight: 2, gen: (*Generator).codeOther},
	}

	searchKeyVariants = []variant[imap.SearchKey]{
		{weight: 2, recursive: true, gen: (*Generator).searchAnd},
		{weight: 2, recursive: true, gen: (*Generator).searchOr},
		{weight: 2, recursive: true, gen: (*Generator).searchNot},
		{weight: 6, gen: (*Generator).searchFlag},
		{weight: 4, gen: (*Generator).searchString},
		{weight: 2, gen: (*Generator).searchHeader},
		{weight: 2, gen: (*Generator).searchKeyword},
		{weight: 2, gen: (*Generator).searchSize},
		{weight: 2, gen: (*Generator).searchSequence},
		{weight: 2, gen: (*Generator).searchDate},
	}

	messageDataItemVariants = []variant[imap.MessageDataItem]{
		{weight: 2, gen: (*Generator).itemUid},
		{weight: 2, gen: (*Generator).itemFlags},
		{weight: 1, gen: (*Generator).itemSize},
		{weight: 1, gen: (*Generator).itemInternalDate},
		{weight: 3, gen: (*Generator).itemBody},
		{weight: 2, gen: (*Generator).itemRfc822},
		{weight: 3, gen: (*Generator).itemBodyStructure},
	}

	bodyStructureVariants = []variant[imap.BodyStructure]{
		{weight: 4, gen: (*Generator).singleBody},
		{weight: 1, recursive: true, gen: (*Generator).multiBody},
	}

	bodyExtensionVariants = []variant[imap.BodyExtension]{
		{weight: 3, gen: (*Generator).extString},
		{weight: 3, gen: (*Generator).extNumber},
		{weight: 2, recursive: true, gen: (*Generator).extList},
	}
}

func (g *Generator) command() (imap.Message, error) {
	c, err := g.Command()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (g *Generator) response() (imap.Message, error) {
	r, err := g.Response()
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (g *Generator) greeting() (imap.Message, error) {
	gr, err := g.Greeting()
	if err != nil {
		return nil, err
	}
	return gr, nil
}

func mailboxCommand(build func(imap.Mailbox) imap.CommandBody) func(*Generator) (imap.CommandBody, error) {
	return func(g *Generator) (imap.CommandBody, error) {
		mb, err := g.mailbox()
		if err != nil {
			return nil, err
		}
		return build(mb), nil
	}
}

func (g *Generator) authenticateData() (imap.Message, error) {
	cancel, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	data, err := g.raw()
	if err != nil {
		return nil, err
	}
	return &imap.AuthenticateData{Data: data, Cancel: cancel}, nil
}

func (g *Generator) status() (imap.Response, error) {
	kind, err := g.u.IntN(int(imap.StatusBye) + 1)
	if err != nil {
		return nil, err
	}
	s := &imap.Status{Kind: imap.StatusKind(kind)}
	if s.Kind <= imap.StatusBad {
		tagged, err := g.u.Bool()
		if err != nil {
			return nil, err
		}
		if tagged {
			tag, err := g.tag()
			if err != nil {
				return nil, err
			}
			s.Tag = &tag
		}
	}
	if s.Code, err = g.optionalCode(); err != nil {
		return nil, err
	}
	if s.Text, err = g.text(); err != nil {
		return nil, err
	}
	return s, nil
}

func (g *Generator) continuationBasic() (imap.Response, error) {
	code, err := g.optionalCode()
	if err != nil {
		return nil, err
	}
	text, err := g.text()
	if err != nil {
		return nil, err
	}
	return &imap.ContinuationBasic{Code: code, Text: text}, nil
}

func (g *Generator) continuationBase64() (imap.Response, error) {
	data, err := g.raw()
	if err != nil {
		return nil, err
	}
	return &imap.ContinuationBase64{Data: data}, nil
}

func (g *Generator) cmdAuthenticate() (imap.CommandBody, error) {
	mechanism, err := g.atom()
	if err != nil {
		return nil, err
	}
	c := &imap.CmdAuthenticate{Mechanism: mechanism}
	if g.cfg.Features.Has(imapfuzz.FeatureSaslIR) {
		present, err := g.u.Bool()
		if err != nil {
			return nil, err
		}
		if present {
			ir, err := g.raw()
			if err != nil {
				return nil, err
			}
			c.InitialResponse = &ir
		}
	}
	return c, nil
}

func (g *Generator) cmdLogin() (imap.CommandBody, error) {
	username, err := g.astring()
	if err != nil {
		return nil, err
	}
	password, err := g.astring()
	if err != nil {
		return nil, err
	}
	return &imap.CmdLogin{Username: username, Password: password}, nil
}

func (g *Generator) cmdRename() (imap.CommandBody, error) {
	from, err := g.mailbox()
	if err != nil {
		return nil, err
	}
	to, err := g.mailbox()
	if err != nil {
		return nil, err
	}
	return &imap.CmdRename{From: from, To: to}, nil
}

func (g *Generator) cmdList() (imap.CommandBody, error) {
	lsub, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	reference, err := g.mailbox()
	if err != nil {
		return nil, err
	}
	pattern, err := g.astring()
	if err != nil {
		return nil, err
	}
	return &imap.CmdList{Reference: reference, Pattern: pattern, Lsub: lsub}, nil
}

func (g *Generator) statusAttribute() (imap.StatusAttribute, error) {
	last := imap.StatusUnseen
	if g.cfg.Features.Has(imapfuzz.FeatureQuota) {
		last = imap.StatusDeletedStorage
	}
	a, err := g.u.IntN(int(last) + 1)
	return imap.StatusAttribute(a), err
}

func (g *Generator) cmdStatus() (imap.CommandBody, error) {
	mb, err := g.mailbox()
	if err != nil {
		return nil, err
	}
	attrs, err := many(g, 1, g.statusAttribute)
	if err != nil {
		return nil, err
	}
	return &imap.CmdStatus{Mailbox: mb, Attributes: attrs}, nil
}

func (g *Generator) cmdAppend() (imap.CommandBody, error) {
	mb, err := g.mailbox()
	if err != nil {
		return nil, err
	}
	c := &imap.CmdAppend{Mailbox: mb}
	if c.Flags, err = g.flags(0, storeFlagKinds); err != nil {
		return nil, err
	}
	dated, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	if dated {
		dt, err := g.dateTime()
		if err != nil {
			return nil, err
		}
		c.Date = &dt
	}
	if c.Message, err = g.literal(); err != nil {
		return nil, err
	}
	return c, nil
}

func (g *Generator) cmdSearch() (imap.CommandBody, error) {
	c := &imap.CmdSearch{}
	hasCharset, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	if hasCharset {
		cs, err := g.charset()
		if err != nil {
			return nil, err
		}
		c.Charset = &cs
	}
	if c.Criteria, err = g.searchKey(); err != nil {
		return nil, err
	}
	c.Uid, err = g.u.Bool()
	return c, err
}

func (g *Generator) cmdFetch() (imap.CommandBody, error) {
	set, err := g.sequenceSet()
	if err != nil {
		return nil, err
	}
	attrs, err := many(g, 1, g.fetchAttribute)
	if err != nil {
		return nil, err
	}
	uid, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	return &imap.CmdFetch{Set: set, Attributes: attrs, Uid: uid}, nil
}

func (g *Generator) cmdStore() (imap.CommandBody, error) {
	set, err := g.sequenceSet()
	if err != nil {
		return nil, err
	}
	kind, err := g.u.IntN(int(imap.StoreRemove) + 1)
	if err != nil {
		return nil, err
	}
	silent, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	flags, err := g.flags(0, storeFlagKinds)
	if err != nil {
		return nil, err
	}
	uid, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	return &imap.CmdStore{Set: set, Kind: imap.StoreKind(kind), Silent: silent, Flags: flags, Uid: uid}, nil
}

func (g *Generator) setAndMailbox() (imap.SequenceSet, imap.Mailbox, bool, error) {
	set, err := g.sequenceSet()
	if err != nil {
		return nil, nil, false, err
	}
	mb, err := g.mailbox()
	if err != nil {
		return nil, nil, false, err
	}
	uid, err := g.u.Bool()
	return set, mb, uid, err
}

func (g *Generator) cmdCopy() (imap.CommandBody, error) {
	set, mb, uid, err := g.setAndMailbox()
	if err != nil {
		return nil, err
	}
	return &imap.CmdCopy{Set: set, Mailbox: mb, Uid: uid}, nil
}

func (g *Generator) cmdMove() (imap.CommandBody, error) {
	set, mb, uid, err := g.setAndMailbox()
	if err != nil {
		return nil, err
	}
	return &imap.CmdMove{Set: set, Mailbox: mb, Uid: uid}, nil
}

func (g *Generator) cmdEnable() (imap.CommandBody, error) {
	caps, err := many(g, 1, g.capability)
	if err != nil {
		return nil, err
	}
	return &imap.CmdEnable{Capabilities: caps}, nil
}

func (g *Generator) cmdCompress() (imap.CommandBody, error) {
	algorithm, err := g.atom()
	if err != nil {
		return nil, err
	}
	return &imap.CmdCompress{Algorithm: algorithm}, nil
}

func (g *Generator) cmdGetQuota() (imap.CommandBody, error) {
	root, err := g.astring()
	if err != nil {
		return nil, err
	}
	return &imap.CmdGetQuota{Root: root}, nil
}

func (g *Generator) cmdSetQuota() (imap.CommandBody, error) {
	root, err := g.astring()
	if err != nil {
		return nil, err
	}
	limits, err := many(g, 0, g.quotaSet)
	if err != nil {
		return nil, err
	}
	return &imap.CmdSetQuota{Root: root, Limits: limits}, nil
}

func (g *Generator) codeSimple() (imap.Code, error) {
	kinds := []imap.CodeKind{imap.CodeAlert, imap.CodeParse, imap.CodeReadOnly, imap.CodeReadWrite, imap.CodeTryCreate}
	if g.cfg.Features.Has(imapfuzz.FeatureCompress) {
		kinds = append(kinds, imap.CodeCompressionActive)
	}
	if g.cfg.Features.Has(imapfuzz.FeatureQuota) {
		kinds = append(kinds, imap.CodeOverQuota)
	}
	i, err := g.u.IntN(len(kinds))
	if err != nil {
		return nil, err
	}
	return &imap.CodeSimple{Kind: kinds[i]}, nil
}

func (g *Generator) codeBadCharset() (imap.Code, error) {
	allowed, err := many(g, 0, g.charset)
	if err != nil {
		return nil, err
	}
	return &imap.CodeBadCharset{Allowed: allowed}, nil
}

func (g *Generator) codeCapability() (imap.Code, error) {
	caps, err := g.capabilityList()
	if err != nil {
		return nil, err
	}
	return &imap.CodeCapability{Capabilities: caps}, nil
}

func (g *Generator) codePermanentFlags() (imap.Code, error) {
	flags, err := g.flags(0, permanentFlagKinds)
	if err != nil {
		return nil, err
	}
	return &imap.CodePermanentFlags{Flags: flags}, nil
}

func (g *Generator) codeNumber() (imap.Code, error) {
	kind, err := g.u.IntN(int(imap.CodeUnseen) + 1)
	if err != nil {
		return nil, err
	}
	value, err := g.u.Uint32()
	if err != nil {
		return nil, err
	}
	return &imap.CodeNumber{Kind: imap.NumberCodeKind(kind), Value: value}, nil
}

func (g *Generator) codeOther() (imap.Code, error) {
	name, err := g.atom()
	if err != nil {
		return nil, err
	}
	hasParams, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	var params *imap.Bytes
	if hasParams {
		p, err := g.run(func(b byte) bool { return imap.IsTextChar(b) && b != ']' })
		if err != nil {
			return nil, err
		}
		params = &p
	}
	code, err := imap.NewCodeOther(name, params)
	if err != nil {
		return nil, err
	}
	if s, ok := code.(*imap.CodeSimple); ok && !g.simpleCodeEnabled(s.Kind) {
		return nil, xerrors.Errorf("code %d needs a disabled feature: %w", s.Kind, imapfuzz.ErrIncorrectFormat)
	}
	return code, nil
}

func (g *Generator) simpleCodeEnabled(kind imap.CodeKind) bool {
	switch kind {
	case imap.CodeCompressionActive:
		return g.cfg.Features.Has(imapfuzz.FeatureCompress)
	case imap.CodeOverQuota:
		return g.cfg.Features.Has(imapfuzz.FeatureQuota)
	}
	return true
}

func (g *Generator) searchAnd() (imap.SearchKey, error) {
	if err := g.enter(); err != nil {
		return nil, err
	}
	defer g.leave()
	keys, err := many(g, 1, g.searchKey)
	if err != nil {
		return nil, err
	}
	return &imap.SearchAnd{Keys: keys}, nil
}

func (g *Generator) searchOr() (imap.SearchKey, error) {
	if err := g.enter(); err != nil {
		return nil, err
	}
	defer g.leave()
	left, err := g.searchKey()
	if err != nil {
		return nil, err
	}
	right, err := g.searchKey()
	if err != nil {
		return nil, err
	}
	return &imap.SearchOr{Left: left, Right: right}, nil
}

func (g *Generator) searchNot() (imap.SearchKey, error) {
	if err := g.enter(); err != nil {
		return nil, err
	}
	defer g.leave()
	key, err := g.searchKey()
	if err != nil {
		return nil, err
	}
	return &imap.SearchNot{Key: key}, nil
}

func (g *Generator) searchFlag() (imap.SearchKey, error) {
	kind, err := g.u.IntN(int(imap.SearchUnseen) + 1)
	if err != nil {
		return nil, err
	}
	return &imap.SearchFlag{Kind: imap.SearchFlagKind(kind)}, nil
}

func (g *Generator) searchString() (imap.SearchKey, error) {
	field, err := g.u.IntN(int(imap.SearchTo) + 1)
	if err != nil {
		return nil, err
	}
	value, err := g.astring()
	if err != nil {
		return nil, err
	}
	return &imap.SearchString{Field: imap.SearchField(field), Value: value}, nil
}

func (g *Generator) searchHeader() (imap.SearchKey, error) {
	name, err := g.astring()
	if err != nil {
		return nil, err
	}
	value, err := g.astring()
	if err != nil {
		return nil, err
	}
	return &imap.SearchHeader{Name: name, Value: value}, nil
}

func (g *Generator) searchKeyword() (imap.SearchKey, error) {
	keyword, err := g.atom()
	if err != nil {
		return nil, err
	}
	un, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	return &imap.SearchKeyword{Keyword: keyword, Un: un}, nil
}

func (g *Generator) searchSize() (imap.SearchKey, error) {
	larger, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	size, err := g.u.Uint32()
	if err != nil {
		return nil, err
	}
	return &imap.SearchSize{Larger: larger, Size: size}, nil
}

func (g *Generator) searchSequence() (imap.SearchKey, error) {
	set, err := g.sequenceSet()
	if err != nil {
		return nil, err
	}
	uid, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	return &imap.SearchSequence{Set: set, Uid: uid}, nil
}

func (g *Generator) searchDate() (imap.SearchKey, error) {
	field, err := g.u.IntN(int(imap.SearchSentSince) + 1)
	if err != nil {
		return nil, err
	}
	date, err := g.date()
	if err != nil {
		return nil, err
	}
	return &imap.SearchDate{Field: imap.SearchDateField(field), Date: date}, nil
}

func (g *Generator) dataResponse() (imap.Response, error) {
	d, err := g.data()
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (g *Generator) data() (imap.Data, error) {
	n, err := g.u.IntN(12)
	if err != nil {
		return nil, err
	}
	// Enabled and quota data fall back to EXISTS when their extension is off
	switch n {
	case 0:
		caps, err := g.capabilityList()
		if err != nil {
			return nil, err
		}
		return &imap.CapabilityData{Capabilities: caps}, nil
	case 1:
		return g.listData()
	case 2:
		mb, err := g.mailbox()
		if err != nil {
			return nil, err
		}
		items, err := many(g, 0, g.statusItem)
		if err != nil {
			return nil, err
		}
		return &imap.StatusData{Mailbox: mb, Items: items}, nil
	case 3:
		ids, err := many(g, 0, g.u.Uint32)
		if err != nil {
			return nil, err
		}
		return &imap.SearchData{IDs: ids}, nil
	case 4:
		flags, err := g.flags(0, storeFlagKinds)
		if err != nil {
			return nil, err
		}
		return &imap.FlagsData{Flags: flags}, nil
	case 5:
		count, err := g.u.Uint32()
		return &imap.ExistsData{Count: count}, err
	case 6:
		count, err := g.u.Uint32()
		return &imap.RecentData{Count: count}, err
	case 7:
		seq, err := g.u.Uint32()
		return &imap.ExpungeData{Seq: seq}, err
	case 8:
		seq, err := g.u.Uint32()
		if err != nil {
			return nil, err
		}
		items, err := many(g, 1, g.messageDataItem)
		if err != nil {
			return nil, err
		}
		return &imap.FetchData{Seq: seq, Items: items}, nil
	case 9:
		if g.cfg.Features.Has(imapfuzz.FeatureEnable) {
			caps, err := many(g, 0, g.capability)
			if err != nil {
				return nil, err
			}
			return &imap.EnabledData{Capabilities: caps}, nil
		}
	case 10:
		if g.cfg.Features.Has(imapfuzz.FeatureQuota) {
			root, err := g.astring()
			if err != nil {
				return nil, err
			}
			quotas, err := many(g, 1, g.quotaGet)
			if err != nil {
				return nil, err
			}
			return &imap.QuotaData{Root: root, Quotas: quotas}, nil
		}
	case 11:
		if g.cfg.Features.Has(imapfuzz.FeatureQuota) {
			mb, err := g.mailbox()
			if err != nil {
				return nil, err
			}
			roots, err := many(g, 0, g.astring)
			if err != nil {
				return nil, err
			}
			return &imap.QuotaRootData{Mailbox: mb, Roots: roots}, nil
		}
	}
	count, err := g.u.Uint32()
	return &imap.ExistsData{Count: count}, err
}

func (g *Generator) listData() (imap.Data, error) {
	attrs, err := many(g, 0, g.atom)
	if err != nil {
		return nil, err
	}
	d := &imap.ListData{Attributes: attrs}
	hasDelimiter, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	if hasDelimiter {
		delimiter, err := g.u.Byte()
		if err != nil {
			return nil, err
		}
		d.Delimiter = &delimiter
	}
	if d.Mailbox, err = g.mailbox(); err != nil {
		return nil, err
	}
	d.Lsub, err = g.u.Bool()
	return d, err
}

func (g *Generator) statusItem() (imap.StatusItem, error) {
	attr, err := g.statusAttribute()
	if err != nil {
		return imap.StatusItem{}, err
	}
	value, err := g.u.Uint64()
	if err != nil {
		return imap.StatusItem{}, err
	}
	return imap.StatusItem{Attribute: attr, Value: value}, nil
}

func (g *Generator) itemUid() (imap.MessageDataItem, error) {
	uid, err := g.u.Uint32()
	if err != nil {
		return nil, err
	}
	return &imap.ItemUid{Uid: uid}, nil
}

func (g *Generator) itemFlags() (imap.MessageDataItem, error) {
	flags, err := g.flags(0, fetchFlagKinds)
	if err != nil {
		return nil, err
	}
	return &imap.ItemFlags{Flags: flags}, nil
}

func (g *Generator) itemSize() (imap.MessageDataItem, error) {
	size, err := g.u.Uint32()
	if err != nil {
		return nil, err
	}
	return &imap.ItemSize{Size: size}, nil
}

func (g *Generator) itemInternalDate() (imap.MessageDataItem, error) {
	dt, err := g.dateTime()
	if err != nil {
		return nil, err
	}
	return &imap.ItemInternalDate{Date: dt}, nil
}

func (g *Generator) itemBody() (imap.MessageDataItem, error) {
	section, err := g.optionalSection()
	if err != nil {
		return nil, err
	}
	item := &imap.ItemBody{Section: section}
	hasOrigin, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	if hasOrigin {
		origin, err := g.u.Uint32()
		if err != nil {
			return nil, err
		}
		item.Origin = &origin
	}
	if item.Data, err = g.nstring(); err != nil {
		return nil, err
	}
	return item, nil
}

func (g *Generator) itemRfc822() (imap.MessageDataItem, error) {
	kind, err := g.u.IntN(int(imap.Rfc822Text) + 1)
	if err != nil {
		return nil, err
	}
	data, err := g.nstring()
	if err != nil {
		return nil, err
	}
	return &imap.ItemRfc822{Kind: imap.Rfc822Kind(kind), Data: data}, nil
}

func (g *Generator) itemBodyStructure() (imap.MessageDataItem, error) {
	extended, err := g.u.Bool()
	if err != nil {
		return nil, err
	}
	structure, err := g.bodyStructure()
	if err != nil {
		return nil, err
	}
	return &imap.ItemBodyStructure{Extended: extended, Structure: structure}, nil
}

func (g *Generator) singleBody() (imap.BodyStructure, error) {
	b := &imap.SingleBody{}
	var err error
	if b.Type, err = g.istring(); err != nil {
		return nil, err
	}
	if b.Subtype, err = g.istring(); err != nil {
		return nil, err
	}
	if b.Params, err = many(g, 0, g.bodyParam); err != nil {
		return nil, err
	}
	if b.ID, err = g.nstring(); err != nil {
		return nil, err
	}
	if b.Description, err = g.nstring(); err != nil {
		return nil, err
	}
	if b.Encoding, err = g.istring(); err != nil {
		return nil, err
	}
	if b.Size, err = g.u.Uint32(); err != nil {
		return nil, err
	}
	if b.Extensions, err = many(g, 0, g.bodyExtension); err != nil {
		return nil, err
	}
	return b, nil
}

func (g *Generator) multiBody() (imap.BodyStructure, error) {
	if err := g.enter(); err != nil {
		return nil, err
	}
	defer g.leave()
	parts, err := many(g, 1, g.bodyStructure)
	if err != nil {
		return nil, err
	}
	subtype, err := g.istring()
	if err != nil {
		return nil, err
	}
	extensions, err := many(g, 0, g.bodyExtension)
	if err != nil {
		return nil, err
	}
	return &imap.MultiBody{Parts: parts, Subtype: subtype, Extensions: extensions}, nil
}

func (g *Generator) extString() (imap.BodyExtension, error) {
	value, err := g.nstring()
	if err != nil {
		return nil, err
	}
	return &imap.ExtString{Value: value}, nil
}

func (g *Generator) extNumber() (imap.BodyExtension, error) {
	value, err := g.u.Uint32()
	if err != nil {
		return nil, err
	}
	return &imap.ExtNumber{Value: value}, nil
}

func (g *Generator) extList() (imap.BodyExtension, error) {
	if err := g.enter(); err != nil {
		return nil, err
	}
	defer g.leave()
	items, err := many(g, 1, g.bodyExtension)
	if err != nil {
		return nil, err
	}
	return &imap.ExtList{Items: items}, nil
}
