// Package snapshot turns messages into IPLD data model nodes so they can be
// encoded, fingerprinted and printed independent of leaf ownership.
package snapshot

import (
	"reflect"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/codec/dagjson"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/multiformats/go-multihash"
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/imap"
)

var (
	// Prefix is used to fingerprint encoded snapshots
	Prefix = cid.Prefix{Version: 1, Codec: cid.DagCBOR, MhType: multihash.SHA2_256, MhLength: -1}
	// InputPrefix is used to identify raw fuzzer input
	InputPrefix = cid.Prefix{Version: 1, Codec: cid.Raw, MhType: multihash.SHA2_256, MhLength: -1}
)

var bytesType = reflect.TypeOf(imap.Bytes{})

// Node builds the data model form of v. Sum type values become single entry
// maps keyed by variant name, leaves become bytes and nil becomes null.
func Node(v any) (datamodel.Node, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := assemble(nb, reflect.ValueOf(&v).Elem()); err != nil {
		return nil, err
	}
	return nb.Build(), nil
}

// Encode returns the dag-cbor encoding of v.
func Encode(v any) ([]byte, error) {
	n, err := Node(v)
	if err != nil {
		return nil, err
	}
	return ipld.Encode(n, dagcbor.Encode)
}

// Fingerprint returns a CID over the dag-cbor encoding of v. Values that are
// equal regardless of ownership have the same fingerprint.
func Fingerprint(v any) (cid.Cid, error) {
	data, err := Encode(v)
	if err != nil {
		return cid.Undef, err
	}
	return Prefix.Sum(data)
}

// InputID returns the CID identifying raw fuzzer input.
func InputID(data []byte) (cid.Cid, error) {
	return InputPrefix.Sum(data)
}

// Render returns v as dag-json.
func Render(v any) (string, error) {
	n, err := Node(v)
	if err != nil {
		return "", err
	}
	data, err := ipld.Encode(n, dagjson.Encode)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func assemble(na datamodel.NodeAssembler, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() || (rv.Elem().Kind() == reflect.Ptr && rv.Elem().IsNil()) {
			return na.AssignNull()
		}
		name := rv.Elem().Type()
		if name.Kind() == reflect.Ptr {
			name = name.Elem()
		}
		ma, err := na.BeginMap(1)
		if err != nil {
			return err
		}
		if err := ma.AssembleKey().AssignString(name.Name()); err != nil {
			return err
		}
		if err := assemble(ma.AssembleValue(), rv.Elem()); err != nil {
			return err
		}
		return ma.Finish()
	case reflect.Ptr:
		if rv.IsNil() {
			return na.AssignNull()
		}
		return assemble(na, rv.Elem())
	case reflect.Struct:
		return assembleStruct(na, rv)
	case reflect.Slice:
		la, err := na.BeginList(int64(rv.Len()))
		if err != nil {
			return err
		}
		for i := 0; i < rv.Len(); i++ {
			if err := assemble(la.AssembleValue(), rv.Index(i)); err != nil {
				return err
			}
		}
		return la.Finish()
	case reflect.Bool:
		return na.AssignBool(rv.Bool())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		// uint64 values above the int64 range wrap but stay distinct
		return na.AssignInt(int64(rv.Uint()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return na.AssignInt(rv.Int())
	default:
		return xerrors.Errorf("cannot snapshot %s: %w", rv.Type(), imapfuzz.ErrIncorrectFormat)
	}
}

func assembleStruct(na datamodel.NodeAssembler, rv reflect.Value) error {
	t := rv.Type()
	if t == bytesType {
		return na.AssignBytes(rv.Interface().(imap.Bytes).Raw())
	}
	var fields []int
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			fields = append(fields, i)
		}
	}
	// leaf wrappers such as Atom are written as their bytes
	if len(fields) == 1 && t.Field(fields[0]).Anonymous && t.Field(fields[0]).Type == bytesType {
		return assembleStruct(na, rv.Field(fields[0]))
	}
	ma, err := na.BeginMap(int64(len(fields)))
	if err != nil {
		return err
	}
	for _, i := range fields {
		if err := ma.AssembleKey().AssignString(t.Field(i).Name); err != nil {
			return err
		}
		if err := assemble(ma.AssembleValue(), rv.Field(i)); err != nil {
			return err
		}
	}
	return ma.Finish()
}
