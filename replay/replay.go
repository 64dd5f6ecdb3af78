// Package replay runs a corpus of fuzz inputs through the drivers outside of
// a fuzzing engine, recording every failure as a crasher.
package replay

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/arbitrary"
	"github.com/imapwire/imapfuzz/crashers"
	"github.com/imapwire/imapfuzz/fuzzing"
	"github.com/imapwire/imapfuzz/panics"
	"github.com/imapwire/imapfuzz/pubsub"
	"github.com/imapwire/imapfuzz/snapshot"
)

var log = logging.Logger("imapfuzz/replay")

type driver struct {
	name  string
	check fuzzing.Check
}

// Summary counts the outcomes of a run. Every input is counted once per
// driver.
type Summary struct {
	Inputs   int64
	Oversize int64
	Passed   int64
	Skipped  int64
	Failed   int64
	Panicked int64
	Crashers []cid.Cid
}

// Defects returns how many driver runs failed or panicked.
func (s Summary) Defects() int64 {
	return s.Failed + s.Panicked
}

type stats struct {
	inputs   atomic.Int64
	oversize atomic.Int64
	passed   atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
	panicked atomic.Int64

	lk       sync.Mutex
	crashers map[cid.Cid]struct{}
}

func (s *stats) summary() Summary {
	s.lk.Lock()
	defer s.lk.Unlock()
	ids := make([]cid.Cid, 0, len(s.crashers))
	for id := range s.crashers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].KeyString() < ids[j].KeyString() })
	return Summary{
		Inputs:   s.inputs.Load(),
		Oversize: s.oversize.Load(),
		Passed:   s.passed.Load(),
		Skipped:  s.skipped.Load(),
		Failed:   s.failed.Load(),
		Panicked: s.panicked.Load(),
		Crashers: ids,
	}
}

// Runner replays inputs through a set of drivers.
type Runner struct {
	cfg     Config
	drivers []driver
	store   *crashers.Store
	events  *pubsub.PubSub
}

// New returns a runner recording crashers in store. store may be nil, in
// which case failures are only counted and published.
func New(store *crashers.Store, opts ...Option) (*Runner, error) {
	cfg := newConfig(opts...)
	r := &Runner{cfg: cfg, store: store, events: pubsub.New()}
	for _, name := range cfg.Drivers {
		check, ok := cfg.checks[name]
		if !ok {
			var err error
			if check, err = fuzzing.Lookup(name); err != nil {
				return nil, err
			}
		}
		r.drivers = append(r.drivers, driver{name: name, check: check})
	}
	if len(r.drivers) == 0 {
		return nil, xerrors.Errorf("no drivers selected: %w", imapfuzz.ErrNotFound)
	}
	return r, nil
}

// Subscribe registers a listener for every driver run. Listeners are called
// from the worker goroutines and may run concurrently.
func (r *Runner) Subscribe(listener pubsub.Listener) pubsub.Unsubscribe {
	return r.events.Subscribe(listener)
}

// Run replays inputs. It returns an error only when the run itself could not
// complete; defects are reported in the summary.
func (r *Runner) Run(ctx context.Context, inputs [][]byte) (Summary, error) {
	ctx, span := otel.Tracer("imapfuzz").Start(ctx, "replay.Run", trace.WithAttributes(
		attribute.Int("inputs", len(inputs)),
		attribute.Int("workers", r.cfg.Workers),
		attribute.String("features", r.cfg.Features.String()),
	))
	defer span.End()

	st := &stats{crashers: make(map[cid.Cid]struct{})}
	sem := semaphore.NewWeighted(int64(r.cfg.Workers))
	g, gctx := errgroup.WithContext(ctx)
	for _, input := range inputs {
		input := input
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			return r.runInput(gctx, input, st)
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	summary := st.summary()
	span.SetAttributes(
		attribute.Int64("passed", summary.Passed),
		attribute.Int64("defects", summary.Defects()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return summary, err
	}
	log.Infow("replay finished", "inputs", summary.Inputs, "passed", summary.Passed,
		"skipped", summary.Skipped, "failed", summary.Failed, "panicked", summary.Panicked)
	return summary, nil
}

// RunDir replays every regular file in dir.
func (r *Runner) RunDir(ctx context.Context, dir string) (Summary, error) {
	inputs, err := ReadCorpus(dir)
	if err != nil {
		return Summary{}, err
	}
	return r.Run(ctx, inputs)
}

// ReadCorpus reads every regular file in dir, in name order.
func ReadCorpus(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerrors.Errorf("reading corpus %s: %w", dir, err)
	}
	var inputs [][]byte
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, xerrors.Errorf("reading corpus %s: %w", dir, err)
		}
		inputs = append(inputs, data)
	}
	return inputs, nil
}

func (r *Runner) runInput(ctx context.Context, input []byte, st *stats) error {
	st.inputs.Inc()
	id, err := snapshot.InputID(input)
	if err != nil {
		return err
	}
	if len(input) > r.cfg.MaxInputSize {
		st.oversize.Inc()
		log.Debugw("skipping oversize input", "input", id, "size", len(input))
		return nil
	}
	for _, d := range r.drivers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runDriver(ctx, d, id, input, st); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runDriver(ctx context.Context, d driver, id cid.Cid, input []byte, st *stats) error {
	_, span := otel.Tracer("imapfuzz").Start(ctx, "replay.input", trace.WithAttributes(
		attribute.String("driver", d.name),
		attribute.String("input.cid", id.String()),
	))
	defer span.End()

	err := panics.Capture(func() error {
		return d.check(input, arbitrary.WithFeatures(r.cfg.Features))
	})
	evt := pubsub.Event{Driver: d.name, Input: id, Err: err}
	report := crashers.Report{Driver: d.name, Features: r.cfg.Features.String()}

	var invariant *fuzzing.InvariantError
	var panicked *panics.Error
	switch {
	case err == nil:
		evt.Code = pubsub.Passed
		st.passed.Inc()
	case xerrors.As(err, &panicked):
		evt.Code = pubsub.Panicked
		st.panicked.Inc()
		report.Property = "panic"
		report.Detail = err.Error() + "\n" + panicked.Stack
	case xerrors.Is(err, imapfuzz.ErrSkip):
		evt.Code = pubsub.Skipped
		st.skipped.Inc()
	case xerrors.As(err, &invariant):
		evt.Code = pubsub.Failed
		st.failed.Inc()
		report.Property = invariant.Property
		report.Detail = invariant.Detail
	default:
		evt.Code = pubsub.Failed
		st.failed.Inc()
		report.Property = "error"
		report.Detail = err.Error()
	}
	span.SetAttributes(attribute.String("outcome", evt.Code.String()))

	if evt.Code == pubsub.Failed || evt.Code == pubsub.Panicked {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warnw("driver failed", "driver", d.name, "input", id, "err", err)
		st.lk.Lock()
		st.crashers[id] = struct{}{}
		st.lk.Unlock()
		if r.store != nil {
			if _, err := r.store.Put(ctx, input, report); err != nil {
				return xerrors.Errorf("recording crasher %s: %w", id, err)
			}
		}
	}
	r.events.Publish(evt)
	return nil
}
