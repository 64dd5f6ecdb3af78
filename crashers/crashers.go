// Package crashers keeps inputs that broke a fuzz driver, keyed by the CID
// of the input.
package crashers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	"github.com/ipfs/go-datastore/query"
	badgerds "github.com/ipfs/go-ds-badger"
	logging "github.com/ipfs/go-log/v2"
	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/snapshot"
)

var log = logging.Logger("imapfuzz/crashers")

var (
	inputsKey  = datastore.NewKey("inputs")
	reportsKey = datastore.NewKey("reports")
)

// Report describes one driver failing on an input.
type Report struct {
	Driver   string
	Property string
	Detail   string
	Features string
}

// Crasher is a stored input with every report filed against it.
type Crasher struct {
	ID      cid.Cid
	Input   []byte
	Reports []Report
}

// Store persists crashers in a datastore.
type Store struct {
	lk      sync.Mutex
	inputs  datastore.Datastore
	reports datastore.Datastore
	closer  func() error
}

// New returns a store writing to ds.
func New(ds datastore.Batching) *Store {
	return &Store{
		inputs:  namespace.Wrap(ds, inputsKey),
		reports: namespace.Wrap(ds, reportsKey),
		closer:  func() error { return nil },
	}
}

// Open returns a store backed by a badger datastore in dir.
func Open(dir string) (*Store, error) {
	defopts := badgerds.DefaultOptions
	defopts.SyncWrites = false
	defopts.Truncate = true
	ds, err := badgerds.NewDatastore(dir, &defopts)
	if err != nil {
		return nil, xerrors.Errorf("opening crasher store at %s: %w", dir, err)
	}
	s := New(ds)
	s.closer = ds.Close
	return s, nil
}

// Close releases the underlying datastore.
func (s *Store) Close() error {
	return s.closer()
}

// Put records that input broke a driver and returns the input's CID.
func (s *Store) Put(ctx context.Context, input []byte, report Report) (cid.Cid, error) {
	id, err := snapshot.InputID(input)
	if err != nil {
		return cid.Undef, err
	}
	data, err := encodeReport(report)
	if err != nil {
		return cid.Undef, err
	}

	s.lk.Lock()
	defer s.lk.Unlock()
	key := datastore.NewKey(id.String())
	has, err := s.inputs.Has(ctx, key)
	if err != nil {
		return cid.Undef, err
	}
	if !has {
		if err := s.inputs.Put(ctx, key, input); err != nil {
			return cid.Undef, err
		}
	}
	if err := s.reports.Put(ctx, key.ChildString(report.Driver), data); err != nil {
		return cid.Undef, err
	}
	log.Debugw("recorded crasher", "input", id, "driver", report.Driver, "property", report.Property)
	return id, nil
}

// Has reports whether an input is stored.
func (s *Store) Has(ctx context.Context, id cid.Cid) (bool, error) {
	return s.inputs.Has(ctx, datastore.NewKey(id.String()))
}

// Get returns the stored input and its reports, ordered by driver.
func (s *Store) Get(ctx context.Context, id cid.Cid) (Crasher, error) {
	key := datastore.NewKey(id.String())
	input, err := s.inputs.Get(ctx, key)
	if xerrors.Is(err, datastore.ErrNotFound) {
		return Crasher{}, xerrors.Errorf("crasher %s: %w", id, imapfuzz.ErrNotFound)
	}
	if err != nil {
		return Crasher{}, err
	}

	res, err := s.reports.Query(ctx, query.Query{Prefix: key.String()})
	if err != nil {
		return Crasher{}, err
	}
	entries, err := res.Rest()
	if err != nil {
		return Crasher{}, err
	}
	c := Crasher{ID: id, Input: input}
	for _, entry := range entries {
		report, err := decodeReport(entry.Value)
		if err != nil {
			return Crasher{}, xerrors.Errorf("report %s: %w", entry.Key, err)
		}
		c.Reports = append(c.Reports, report)
	}
	sort.Slice(c.Reports, func(i, j int) bool { return c.Reports[i].Driver < c.Reports[j].Driver })
	return c, nil
}

// List returns the CIDs of every stored input in key order.
func (s *Store) List(ctx context.Context) ([]cid.Cid, error) {
	res, err := s.inputs.Query(ctx, query.Query{KeysOnly: true})
	if err != nil {
		return nil, err
	}
	entries, err := res.Rest()
	if err != nil {
		return nil, err
	}
	ids := make([]cid.Cid, 0, len(entries))
	for _, entry := range entries {
		id, err := cid.Decode(strings.TrimPrefix(entry.Key, "/"))
		if err != nil {
			log.Warnf("skipping malformed crasher key %s: %s", entry.Key, err)
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// Delete removes an input and its reports.
func (s *Store) Delete(ctx context.Context, id cid.Cid) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	key := datastore.NewKey(id.String())
	res, err := s.reports.Query(ctx, query.Query{Prefix: key.String(), KeysOnly: true})
	if err != nil {
		return err
	}
	entries, err := res.Rest()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := s.reports.Delete(ctx, datastore.NewKey(entry.Key)); err != nil {
			return err
		}
	}
	return s.inputs.Delete(ctx, key)
}

func encodeReport(r Report) ([]byte, error) {
	n, err := qp.BuildMap(basicnode.Prototype.Any, 4, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "driver", qp.String(r.Driver))
		qp.MapEntry(ma, "property", qp.String(r.Property))
		qp.MapEntry(ma, "detail", qp.String(r.Detail))
		qp.MapEntry(ma, "features", qp.String(r.Features))
	})
	if err != nil {
		return nil, err
	}
	return ipld.Encode(n, dagcbor.Encode)
}

func decodeReport(data []byte) (Report, error) {
	n, err := ipld.Decode(data, dagcbor.Decode)
	if err != nil {
		return Report{}, err
	}
	var r Report
	for _, field := range []struct {
		key string
		dst *string
	}{
		{"driver", &r.Driver},
		{"property", &r.Property},
		{"detail", &r.Detail},
		{"features", &r.Features},
	} {
		v, err := n.LookupByString(field.key)
		if err != nil {
			return Report{}, err
		}
		if *field.dst, err = v.AsString(); err != nil {
			return Report{}, err
		}
	}
	return r, nil
}
