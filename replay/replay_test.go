package replay_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ipfs/go-datastore"
	dss "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/arbitrary"
	"github.com/imapwire/imapfuzz/crashers"
	"github.com/imapwire/imapfuzz/fuzzing"
	"github.com/imapwire/imapfuzz/pubsub"
	"github.com/imapwire/imapfuzz/replay"
	"github.com/imapwire/imapfuzz/snapshot"
	"github.com/imapwire/imapfuzz/testutil"
)

func newStore() *crashers.Store {
	return crashers.New(dss.MutexWrap(datastore.NewMapDatastore()))
}

func failOn(marker byte) fuzzing.Check {
	return func(data []byte, opts ...arbitrary.Option) error {
		if len(data) > 0 && data[0] == marker {
			return &fuzzing.InvariantError{Driver: "marker", Property: fuzzing.PropertyEqual, Detail: "marked input"}
		}
		return nil
	}
}

func panicOn(marker byte) fuzzing.Check {
	return func(data []byte, opts ...arbitrary.Option) error {
		if len(data) > 0 && data[0] == marker {
			panic("marked input")
		}
		return nil
	}
}

type recorder struct {
	lk     sync.Mutex
	events []pubsub.Event
}

func (r *recorder) listen(evt pubsub.Event) {
	r.lk.Lock()
	defer r.lk.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) count(code pubsub.EventCode) int {
	r.lk.Lock()
	defer r.lk.Unlock()
	n := 0
	for _, evt := range r.events {
		if evt.Code == code {
			n++
		}
	}
	return n
}

func TestRunDrivers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inputs := append(testutil.RandomInputs(50, 256),
		testutil.LiteralInput("DATA"),
		testutil.IdleDoneInput(),
		testutil.NestedNotInput(1500),
		nil,
	)
	runner, err := replay.New(newStore(), replay.WithWorkers(4), replay.WithFeatures(imapfuzz.AllFeatures))
	require.NoError(t, err)
	rec := &recorder{}
	runner.Subscribe(rec.listen)

	summary, err := runner.Run(ctx, inputs)
	require.NoError(t, err)
	require.Equal(t, int64(len(inputs)), summary.Inputs)
	require.Zero(t, summary.Defects(), "%+v", rec.events)
	require.Empty(t, summary.Crashers)
	require.Equal(t, int64(len(inputs)*len(fuzzing.DriverNames())), summary.Passed+summary.Skipped)
	// the three constructed inputs pass every driver
	require.GreaterOrEqual(t, summary.Passed, int64(3*len(fuzzing.DriverNames())))
	require.Equal(t, int(summary.Passed), rec.count(pubsub.Passed))
	require.Equal(t, int(summary.Skipped), rec.count(pubsub.Skipped))
}

func TestRunRecordsCrashers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	collectTracing := testutil.SetupTracing()

	store := newStore()
	runner, err := replay.New(store,
		replay.WithDrivers(),
		replay.WithCheck("fail", failOn(0xAA)),
		replay.WithCheck("panic", panicOn(0xBB)),
	)
	require.NoError(t, err)
	rec := &recorder{}
	runner.Subscribe(rec.listen)

	failing := []byte{0xAA, 1, 2, 3}
	panicking := []byte{0xBB, 4, 5, 6}
	inputs := [][]byte{failing, panicking, {0x01}, {0x02}}
	summary, err := runner.Run(ctx, inputs)
	require.NoError(t, err)
	require.Equal(t, int64(4), summary.Inputs)
	require.Equal(t, int64(1), summary.Failed)
	require.Equal(t, int64(1), summary.Panicked)
	require.Equal(t, int64(6), summary.Passed)
	require.Len(t, summary.Crashers, 2)
	require.Equal(t, 1, rec.count(pubsub.Failed))
	require.Equal(t, 1, rec.count(pubsub.Panicked))

	failingID, err := snapshot.InputID(failing)
	require.NoError(t, err)
	crasher, err := store.Get(ctx, failingID)
	require.NoError(t, err)
	require.Equal(t, failing, crasher.Input)
	require.Equal(t, []crashers.Report{{Driver: "fail", Property: fuzzing.PropertyEqual, Detail: "marked input", Features: imapfuzz.FeaturesFromEnv().String()}}, crasher.Reports)

	panickingID, err := snapshot.InputID(panicking)
	require.NoError(t, err)
	crasher, err = store.Get(ctx, panickingID)
	require.NoError(t, err)
	require.Len(t, crasher.Reports, 1)
	require.Equal(t, "panic", crasher.Reports[0].Property)
	require.Contains(t, crasher.Reports[0].Detail, "marked input")

	traces := collectTracing(t)
	runs := traces.FindSpans("replay.Run")
	require.Len(t, runs, 1)
	require.Len(t, traces.FindSpansWithParent(runs[0]), 8)
	outcomes := traces.Outcomes(t, "replay.input")
	require.ElementsMatch(t, []string{"Failed", "Passed", "Passed", "Passed"}, outcomes["fail"])
	require.ElementsMatch(t, []string{"Panicked", "Passed", "Passed", "Passed"}, outcomes["panic"])

	spans := traces.FindSpansWithAttribute("input.cid", panickingID.String())
	require.Len(t, spans, 2)
	for _, span := range spans {
		if testutil.AttributeValueInTraceSpan(t, span, "driver").AsString() == "panic" {
			require.Equal(t, codes.Error, span.Status.Code)
			require.Equal(t, "panic: marked input", testutil.RecordedError(t, span))
		} else {
			require.Equal(t, codes.Unset, span.Status.Code)
		}
	}
}

func TestRunOversizeInputs(t *testing.T) {
	runner, err := replay.New(nil, replay.WithDrivers(), replay.WithCheck("fail", failOn(0xAA)), replay.WithMaxInputSize(4))
	require.NoError(t, err)
	summary, err := runner.Run(context.Background(), [][]byte{{0xAA, 0, 0, 0, 0}, {0xAA}})
	require.NoError(t, err)
	require.Equal(t, int64(1), summary.Oversize)
	require.Equal(t, int64(1), summary.Failed)
}

func TestCheckSurvivesDriverSelection(t *testing.T) {
	inputs := [][]byte{{0xAA}, testutil.LiteralInput("DATA")}
	testCases := map[string][]replay.Option{
		"check first": {replay.WithCheck("fail", failOn(0xAA)), replay.WithDrivers(fuzzing.DriverToStatic)},
		"check last":  {replay.WithDrivers(fuzzing.DriverToStatic), replay.WithCheck("fail", failOn(0xAA))},
		"named twice": {replay.WithDrivers(fuzzing.DriverToStatic, "fail"), replay.WithCheck("fail", failOn(0xAA))},
	}
	for name, opts := range testCases {
		t.Run(name, func(t *testing.T) {
			runner, err := replay.New(nil, opts...)
			require.NoError(t, err)
			rec := &recorder{}
			runner.Subscribe(rec.listen)
			summary, err := runner.Run(context.Background(), inputs)
			require.NoError(t, err)
			require.Equal(t, int64(1), summary.Failed)
			require.Equal(t, 2*len(inputs), len(rec.events))
			drivers := make(map[string]int)
			for _, evt := range rec.events {
				drivers[evt.Driver]++
			}
			require.Equal(t, map[string]int{fuzzing.DriverToStatic: len(inputs), "fail": len(inputs)}, drivers)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	runner, err := replay.New(nil, replay.WithWorkers(1))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Run(ctx, testutil.RandomInputs(10, 64))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := replay.New(nil, replay.WithDrivers("parse"))
	require.ErrorIs(t, err, imapfuzz.ErrNotFound)
	_, err = replay.New(nil, replay.WithDrivers())
	require.ErrorIs(t, err, imapfuzz.ErrNotFound)
}

func TestRunDir(t *testing.T) {
	inputs := [][]byte{testutil.LiteralInput("DATA"), testutil.IdleDoneInput()}
	dir := testutil.WriteCorpus(t, inputs)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	read, err := replay.ReadCorpus(dir)
	require.NoError(t, err)
	require.ElementsMatch(t, inputs, read)

	runner, err := replay.New(nil, replay.WithDrivers(fuzzing.DriverToStatic))
	require.NoError(t, err)
	summary, err := runner.RunDir(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.Passed)

	_, err = replay.ReadCorpus(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
