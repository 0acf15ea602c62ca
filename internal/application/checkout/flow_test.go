package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/infrastructure/auth"
	"github.com/printworks/backend/internal/infrastructure/event"
	"github.com/printworks/backend/internal/infrastructure/staging"
)

// End-to-end deferred commit: an unauthenticated buyer configures and
// commits, signs in, and the staged operation replays exactly once even
// though every trigger fires.
func TestDeferredCommitFlow(t *testing.T) {
	ctx := context.Background()

	store := staging.NewInMemoryStagingStore()
	tokens := auth.NewInMemoryTokenStore("")
	carts := newFakeCartService()
	bus := event.NewInMemoryEventBus(testLogger())

	quoter := NewQuoter(newFakeProductRepo(paperPrintProduct(t)))
	processor := NewProcessor(store, carts, bus, testLogger())
	stager := NewStager(quoter, processor, store, tokens, bus, testLogger())
	triggers := NewTriggers(processor, store, tokens, testLogger())
	reconciler := NewReconciler(testLogger())

	bus.Subscribe(triggers)
	bus.Subscribe(reconciler)
	require.NoError(t, bus.Start(ctx))
	defer func() { _ = bus.Stop(ctx) }()

	// Unauthenticated commit attempt: staged, cart untouched.
	result, err := stager.Commit(ctx, "s1", paperPrintRequest())
	require.NoError(t, err)
	assert.Equal(t, CommitStatusStaged, result.Status)
	assert.Zero(t, carts.appendCount())

	// Sign-in completes; the token-acquired event replays the staged
	// operation through the subscribed trigger.
	require.NoError(t, tokens.Save(ctx, "s1", "token"))
	require.NoError(t, bus.Publish(ctx, cart.NewTokenAcquiredEvent("s1")))

	assert.Equal(t, 1, carts.appendCount())
	assert.Equal(t, 1, carts.lineCount("s1"))
	assert.Equal(t, 0, store.Size())

	// The reconciler saw exactly one committed line.
	assert.Equal(t, 1, reconciler.View("s1").Count)

	// Redundant triggers after the replay find an empty slot.
	mount, err := triggers.CheckOnMount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, mount.Outcome)
	require.NoError(t, bus.Publish(ctx, cart.NewTokenAcquiredEvent("s1")))
	assert.Equal(t, 1, carts.appendCount())

	// A repeat of the same configuration while authenticated dedups
	// against the fresh snapshot instead of appending a twin line.
	repeat, err := stager.Commit(ctx, "s1", paperPrintRequest())
	require.NoError(t, err)
	assert.Equal(t, CommitStatusCommitted, repeat.Status)
	assert.Equal(t, 1, carts.lineCount("s1"))
}
