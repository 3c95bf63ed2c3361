package memo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/value-algebra/resolve"
	"github.com/warp/value-algebra/resolve/memo"
	"github.com/warp/value-algebra/values"
)

func TestMemory_GetPut(t *testing.T) {
	ctx := context.Background()
	m := memo.NewMemory()
	key := resolve.Key{Fingerprint: "abc", Reference: time.Unix(0, 0).UTC(), Location: "UTC"}

	_, ok, err := m.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	out := resolve.Output{Dimension: values.KindOrdinal, Text: "3.", Ordinal: &resolve.OrdinalOutput{Value: 3}}
	require.NoError(t, m.Put(ctx, key, out))

	got, ok, err := m.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, out, got)

	key.Location = "Europe/Berlin"
	_, ok, err = m.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_AppendOnly(t *testing.T) {
	ctx := context.Background()
	m := memo.NewMemory()
	first := resolve.Record{ID: uuid.New(), Outcome: resolve.OutcomeResolved}
	second := resolve.Record{ID: uuid.New(), Outcome: resolve.OutcomeRejected}

	require.NoError(t, m.Append(ctx, first))
	require.NoError(t, m.Append(ctx, second))
	assert.ErrorIs(t, m.Append(ctx, first), resolve.ErrDuplicateRecord)

	recent, err := m.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].ID)

	recent, err = m.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestMemory_FirstPutWins(t *testing.T) {
	// GIVEN: an output already stored for a key
	ctx := context.Background()
	m := memo.NewMemory()
	key := resolve.Key{Fingerprint: "abc", Reference: time.Unix(0, 0).UTC(), Location: "UTC"}
	first := resolve.Output{Dimension: values.KindOrdinal, Text: "first", Ordinal: &resolve.OrdinalOutput{Value: 1}}
	second := resolve.Output{Dimension: values.KindOrdinal, Text: "second", Ordinal: &resolve.OrdinalOutput{Value: 2}}
	require.NoError(t, m.Put(ctx, key, first))

	// WHEN: storing a different output under the same key
	require.NoError(t, m.Put(ctx, key, second))

	// THEN: the first output is kept
	got, ok, err := m.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", got.Text)
}

func TestMemory_OutputsEvictLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := memo.NewMemory(memo.WithCapacity(2, 0))
	key := func(fp string) resolve.Key {
		return resolve.Key{Fingerprint: fp, Reference: time.Unix(0, 0).UTC(), Location: "UTC"}
	}
	out := resolve.Output{Dimension: values.KindOrdinal, Ordinal: &resolve.OrdinalOutput{Value: 1}}

	require.NoError(t, m.Put(ctx, key("a"), out))
	require.NoError(t, m.Put(ctx, key("b"), out))
	_, ok, _ := m.Get(ctx, key("a"))
	require.True(t, ok)
	require.NoError(t, m.Put(ctx, key("c"), out))

	_, ok, _ = m.Get(ctx, key("b"))
	assert.False(t, ok, "b was least recently used")
	_, ok, _ = m.Get(ctx, key("a"))
	assert.True(t, ok)
	_, ok, _ = m.Get(ctx, key("c"))
	assert.True(t, ok)

	outputs, _ := m.Len()
	assert.Equal(t, 2, outputs)
}

func TestMemory_RecordsStayBounded(t *testing.T) {
	// GIVEN: a log capped at three records
	ctx := context.Background()
	m := memo.NewMemory(memo.WithCapacity(0, 3))
	ids := make([]uuid.UUID, 10)

	// WHEN: appending ten
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, m.Append(ctx, resolve.Record{ID: ids[i], Outcome: resolve.OutcomeResolved}))
	}

	// THEN: only the newest three remain
	_, records := m.Len()
	assert.Equal(t, 3, records)

	recent, err := m.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, ids[9], recent[0].ID)
	assert.Equal(t, ids[7], recent[2].ID)

	assert.ErrorIs(t, m.Append(ctx, resolve.Record{ID: ids[9]}), resolve.ErrDuplicateRecord)
	assert.NoError(t, m.Append(ctx, resolve.Record{ID: ids[0]}), "evicted IDs are forgotten")
}
