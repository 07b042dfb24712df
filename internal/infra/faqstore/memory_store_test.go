package faqstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.GetVector(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	vec := []float32{0.1, 0.2, 0.3}
	require.NoError(t, store.SaveVector(ctx, "k", vec, 0))
	vec[0] = 9

	got, ok, err := store.GetVector(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, got)

	got[1] = 9
	again, _, _ := store.GetVector(ctx, "k")
	require.Equal(t, float32(0.2), again[1])
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.SaveVector(ctx, "short", []float32{1}, time.Minute))
	require.NoError(t, store.SaveVector(ctx, "forever", []float32{2}, 0))

	now = now.Add(2 * time.Minute)

	_, ok, err := store.GetVector(ctx, "short")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, store.Len())

	_, ok, err = store.GetVector(ctx, "forever")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryStoreSweepsExpiredOnSave(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.SaveVector(ctx, fmt.Sprintf("old-%d", i), []float32{1}, time.Hour))
	}
	require.NoError(t, store.SaveVector(ctx, "pinned", []float32{2}, 0))
	require.Equal(t, 1001, store.Len())

	now = now.Add(2 * time.Hour)
	for i := 0; i < 10; i++ {
		require.NoError(t, store.SaveVector(ctx, fmt.Sprintf("new-%d", i), []float32{3}, time.Hour))
	}
	require.Equal(t, 11, store.Len())

	_, ok, err := store.GetVector(ctx, "pinned")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryStoreEvictsOldestBeyondLimit(t *testing.T) {
	store := NewMemoryStoreWithLimit(3)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, store.SaveVector(ctx, key, []float32{1}, time.Hour))
	}
	// refreshing a moves it behind b and c
	require.NoError(t, store.SaveVector(ctx, "a", []float32{2}, time.Hour))
	require.NoError(t, store.SaveVector(ctx, "d", []float32{3}, time.Hour))

	require.Equal(t, 3, store.Len())
	_, ok, _ := store.GetVector(ctx, "b")
	require.False(t, ok)
	for _, key := range []string{"a", "c", "d"} {
		_, ok, _ := store.GetVector(ctx, key)
		require.True(t, ok, key)
	}
}

func TestValkeyKeyLayout(t *testing.T) {
	require.Equal(t, "faqemb:vec:abc", NewValkeyStore(nil, "").vectorKey("abc"))
	require.Equal(t, "demo:vec:abc", NewValkeyStore(nil, "demo").vectorKey("abc"))
}

func TestParseVector(t *testing.T) {
	got, err := parseVector("[0.5,-1,2.25]")
	require.NoError(t, err)
	require.Equal(t, []float32{0.5, -1, 2.25}, got)

	got, err = parseVector("[]")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = parseVector("[1,abc]")
	require.Error(t, err)
}
