package staging

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/backend/internal/domain/cart"
)

func testOp(productID int64) cart.PendingCartOperation {
	return cart.PendingCartOperation{ProductID: productID}
}

func TestInMemoryStagingStore_PutPeekTake(t *testing.T) {
	store := NewInMemoryStagingStore()
	ctx := context.Background()

	_, ok, err := store.Peek(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "s1", testOp(1)))

	op, ok, err := store.Peek(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), op.ProductID)
	assert.Equal(t, 1, store.Size(), "peek does not consume")

	op, ok, err = store.Take(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), op.ProductID)

	_, ok, err = store.Take(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok, "take consumes the slot")
}

func TestInMemoryStagingStore_PutReplaces(t *testing.T) {
	store := NewInMemoryStagingStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", testOp(1)))
	require.NoError(t, store.Put(ctx, "s1", testOp(2)))

	op, ok, err := store.Take(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), op.ProductID)
	assert.Equal(t, 0, store.Size())
}

func TestInMemoryStagingStore_Clear(t *testing.T) {
	store := NewInMemoryStagingStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", testOp(1)))
	require.NoError(t, store.Clear(ctx, "s1"))

	_, ok, err := store.Peek(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryStagingStore_SessionsAreIsolated(t *testing.T) {
	store := NewInMemoryStagingStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", testOp(1)))
	require.NoError(t, store.Put(ctx, "s2", testOp(2)))

	_, ok, err := store.Take(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	op, ok, err := store.Peek(ctx, "s2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), op.ProductID)
}

func TestInMemoryStagingStore_ConcurrentTakeYieldsOneWinner(t *testing.T) {
	store := NewInMemoryStagingStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "s1", testOp(1)))

	var wins atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := store.Take(ctx, "s1"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins.Load())
}
