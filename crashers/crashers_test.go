package crashers_test

import (
	"context"
	"sort"
	"testing"

	"github.com/ipfs/go-datastore"
	dss "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/crashers"
	"github.com/imapwire/imapfuzz/snapshot"
	"github.com/imapwire/imapfuzz/testutil"
)

func newStore() *crashers.Store {
	return crashers.New(dss.MutexWrap(datastore.NewMapDatastore()))
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	input := testutil.RandomBytes(128)

	toStatic := crashers.Report{Driver: "to-static", Property: "equal", Detail: "expected Command, got Status", Features: "all"}
	intoStatic := crashers.Report{Driver: "into-static", Property: "no alias", Features: "quota,idle"}

	id, err := store.Put(ctx, input, toStatic)
	require.NoError(t, err)
	expectedID, err := snapshot.InputID(input)
	require.NoError(t, err)
	require.Equal(t, expectedID, id)

	again, err := store.Put(ctx, input, intoStatic)
	require.NoError(t, err)
	require.Equal(t, id, again)

	has, err := store.Has(ctx, id)
	require.NoError(t, err)
	require.True(t, has)

	crasher, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, crasher.ID)
	require.Equal(t, input, crasher.Input)
	require.ElementsMatch(t, []crashers.Report{toStatic, intoStatic}, crasher.Reports)
}

func TestPutReplacesReportForSameDriver(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	input := testutil.RandomBytes(32)

	_, err := store.Put(ctx, input, crashers.Report{Driver: "owned", Property: "equal"})
	require.NoError(t, err)
	id, err := store.Put(ctx, input, crashers.Report{Driver: "owned", Property: "idempotent"})
	require.NoError(t, err)

	crasher, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []crashers.Report{{Driver: "owned", Property: "idempotent"}}, crasher.Reports)
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	id, err := snapshot.InputID([]byte("never stored"))
	require.NoError(t, err)

	_, err = store.Get(ctx, id)
	require.ErrorIs(t, err, imapfuzz.ErrNotFound)
	has, err := store.Has(ctx, id)
	require.NoError(t, err)
	require.False(t, has)
}

func TestListDelete(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	inputs := testutil.RandomInputs(16, 64)
	var expected []string
	for _, input := range inputs {
		id, err := store.Put(ctx, input, crashers.Report{Driver: "to-static", Property: "equal"})
		require.NoError(t, err)
		expected = append(expected, id.String())
	}
	sort.Strings(expected)
	for i := 0; i < 5; i++ {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		listed := make([]string, 0, len(ids))
		for _, id := range ids {
			listed = append(listed, id.String())
		}
		require.Equal(t, expected, listed)
	}
	ids, err := store.List(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ids[0]))
	_, err = store.Get(ctx, ids[0])
	require.ErrorIs(t, err, imapfuzz.ErrNotFound)
	remaining, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, len(inputs)-1)
	require.NotContains(t, remaining, ids[0])
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := crashers.Open(dir)
	require.NoError(t, err)
	input := []byte("persisted input")
	id, err := store.Put(ctx, input, crashers.Report{Driver: "into-static", Property: "panic", Detail: "boom"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := crashers.Open(dir)
	require.NoError(t, err)
	defer reopened.Close()
	crasher, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, input, crasher.Input)
	require.Len(t, crasher.Reports, 1)
	require.Equal(t, "boom", crasher.Reports[0].Detail)
}
