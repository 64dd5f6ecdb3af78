// Package fuzzing checks the conversion engine against generated values. The
// Check functions return errors for use from tests and the replay runner;
// the Fuzz functions follow the go-fuzz convention and panic on a defect.
package fuzzing

import (
	"sort"
	"unsafe"

	"github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/arbitrary"
	"github.com/imapwire/imapfuzz/imap"
	"github.com/imapwire/imapfuzz/snapshot"
)

// Driver names.
const (
	DriverToStatic   = "to-static"
	DriverIntoStatic = "into-static"
	DriverOwned      = "owned"
)

// Check runs one fuzz iteration over data. It returns nil when every
// property held, a *SkipError when data does not describe a value and an
// *InvariantError on a defect.
type Check func(data []byte, opts ...arbitrary.Option) error

var drivers = map[string]Check{
	DriverToStatic:   CheckToStatic,
	DriverIntoStatic: CheckIntoStatic,
	DriverOwned:      CheckOwned,
}

// Lookup returns the driver registered under name.
func Lookup(name string) (Check, error) {
	check, ok := drivers[name]
	if !ok {
		return nil, xerrors.Errorf("driver %q: %w", name, imapfuzz.ErrNotFound)
	}
	return check, nil
}

// DriverNames lists the registered drivers in order.
func DriverNames() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate builds the value the named driver checks for data. The owned
// driver fuzzes an owned value, every other driver borrows from data.
func Generate(driver string, data []byte, opts ...arbitrary.Option) (imap.Message, error) {
	if driver == DriverOwned {
		return arbitrary.Structural(data, opts...), nil
	}
	return arbitrary.Message(data, opts...)
}

// CheckToStatic generates a borrowed message and copies it with ToStatic.
func CheckToStatic(data []byte, opts ...arbitrary.Option) error {
	buf := append([]byte(nil), data...)
	v, err := arbitrary.Message(buf, opts...)
	if err != nil {
		return &SkipError{Driver: DriverToStatic, Err: err}
	}
	before, err := snapshot.Fingerprint(v)
	if err != nil {
		return err
	}

	converted := imap.ToStatic(v)
	if !imap.Equal(v, converted) {
		return violation(DriverToStatic, PropertyEqual, v, converted)
	}
	after, err := snapshot.Fingerprint(v)
	if err != nil {
		return err
	}
	if !after.Equals(before) {
		return violation(DriverToStatic, PropertyUnchanged, before, after)
	}
	if err := checkOwnership(DriverToStatic, converted, buf); err != nil {
		return err
	}
	if again := imap.ToStatic(converted); !imap.Equal(converted, again) {
		return violation(DriverToStatic, PropertyIdempotent, converted, again)
	}
	return checkIndependent(DriverToStatic, converted, buf, before)
}

// CheckIntoStatic generates a borrowed message, keeps a ToStatic copy as
// the baseline and then hands the message to IntoStatic.
func CheckIntoStatic(data []byte, opts ...arbitrary.Option) error {
	buf := append([]byte(nil), data...)
	v, err := arbitrary.Message(buf, opts...)
	if err != nil {
		return &SkipError{Driver: DriverIntoStatic, Err: err}
	}
	baseline := imap.ToStatic(v)
	before, err := snapshot.Fingerprint(baseline)
	if err != nil {
		return err
	}

	converted := imap.IntoStatic(v)
	if !imap.Equal(baseline, converted) {
		return violation(DriverIntoStatic, PropertyEqual, baseline, converted)
	}
	if err := checkOwnership(DriverIntoStatic, converted, buf); err != nil {
		return err
	}
	if again := imap.IntoStatic(imap.ToStatic(converted)); !imap.Equal(converted, again) {
		return violation(DriverIntoStatic, PropertyIdempotent, converted, again)
	}
	return checkIndependent(DriverIntoStatic, converted, buf, before)
}

// CheckOwned builds a fully owned message and checks that IntoStatic keeps
// every leaf where it was.
func CheckOwned(data []byte, opts ...arbitrary.Option) error {
	v := arbitrary.Structural(data, opts...)
	if !imap.IsStatic(v) {
		return violation(DriverOwned, PropertyStatic, nil, v)
	}
	baseline := imap.ToStatic(v)
	if imap.SharesStorage(v, baseline) {
		return violation(DriverOwned, PropertyNoAlias, v, baseline)
	}
	leaves := leafData(v)

	converted := imap.IntoStatic(v)
	if !imap.Equal(baseline, converted) {
		return violation(DriverOwned, PropertyEqual, baseline, converted)
	}
	moved := leafData(converted)
	if len(moved) != len(leaves) {
		return violation(DriverOwned, PropertyMoved, len(leaves), len(moved))
	}
	for i := range leaves {
		if leaves[i] != moved[i] {
			return violation(DriverOwned, PropertyMoved, baseline, converted)
		}
	}
	if again := imap.ToStatic(imap.ToStatic(converted)); !imap.Equal(converted, again) {
		return violation(DriverOwned, PropertyIdempotent, converted, again)
	}
	return nil
}

func checkOwnership(driver string, converted imap.Message, buf []byte) error {
	if !imap.IsStatic(converted) {
		return violation(driver, PropertyStatic, nil, converted)
	}
	if imap.Aliases(converted, buf) {
		return violation(driver, PropertyNoAlias, nil, converted)
	}
	return nil
}

// checkIndependent overwrites buf and compares converted against the
// fingerprint taken before conversion.
func checkIndependent(driver string, converted imap.Message, buf []byte, before cid.Cid) error {
	scribble(buf)
	after, err := snapshot.Fingerprint(converted)
	if err != nil {
		return err
	}
	if !after.Equals(before) {
		return violation(driver, PropertyIndependent, before, converted)
	}
	return nil
}

func leafData(v any) []*byte {
	var ptrs []*byte
	imap.Walk(v, func(b imap.Bytes) {
		if b.Len() > 0 {
			ptrs = append(ptrs, unsafe.SliceData(b.Raw()))
		}
	})
	return ptrs
}

func scribble(buf []byte) {
	for i := range buf {
		buf[i] = ^buf[i]
	}
}
