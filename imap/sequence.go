package imap

import (
	"strconv"
	"strings"
)

// SeqOrUid is a message sequence number or UID. Zero stands for "*", the
// largest number in use, since zero is never a valid number.
type SeqOrUid uint32

// Asterisk is the "*" placeholder.
const Asterisk = SeqOrUid(0)

func (s SeqOrUid) String() string {
	if s == Asterisk {
		return "*"
	}
	return strconv.FormatUint(uint64(s), 10)
}

// Sequence is a single number or an inclusive range.
type Sequence struct {
	From  SeqOrUid
	To    SeqOrUid
	Range bool
}

func (s Sequence) String() string {
	if !s.Range {
		return s.From.String()
	}
	return s.From.String() + ":" + s.To.String()
}

// SequenceSet is a non-empty list of sequences.
type SequenceSet []Sequence

func (ss SequenceSet) String() string {
	parts := make([]string, 0, len(ss))
	for _, s := range ss {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ",")
}

// Contains reports whether n is in the set, resolving "*" to largest.
func (ss SequenceSet) Contains(n uint32, largest uint32) bool {
	resolve := func(s SeqOrUid) uint32 {
		if s == Asterisk {
			return largest
		}
		return uint32(s)
	}
	for _, s := range ss {
		from := resolve(s.From)
		if !s.Range {
			if from == n {
				return true
			}
			continue
		}
		to := resolve(s.To)
		if from > to {
			from, to = to, from
		}
		if from <= n && n <= to {
			return true
		}
	}
	return false
}

func (ss SequenceSet) convert(m mode) SequenceSet {
	return copyScalars(ss, m)
}

func (ss SequenceSet) equal(o SequenceSet) bool {
	return eqScalars(ss, o)
}
