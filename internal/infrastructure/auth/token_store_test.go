package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/backend/internal/domain/shared"
)

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "buyer-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	const secret = "test-secret"

	assert.NoError(t, ValidateToken(signedToken(t, secret), secret))

	err := ValidateToken(signedToken(t, "other-secret"), secret)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)

	assert.Error(t, ValidateToken("", secret))
	assert.Error(t, ValidateToken("not.a.jwt", secret))
}

func TestInMemoryTokenStore_SavePresentDelete(t *testing.T) {
	store := NewInMemoryTokenStore("")
	ctx := context.Background()

	present, err := store.Present(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, present)

	require.NoError(t, store.Save(ctx, "s1", "token"))

	present, err = store.Present(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, present)

	require.NoError(t, store.Delete(ctx, "s1"))
	present, err = store.Present(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestInMemoryTokenStore_SaveValidatesWhenSecretSet(t *testing.T) {
	const secret = "test-secret"
	store := NewInMemoryTokenStore(secret)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "s1", "garbage"))
	assert.NoError(t, store.Save(ctx, "s1", signedToken(t, secret)))
}

func TestInMemoryTokenStore_WatchNotifiesOnAbsentToPresent(t *testing.T) {
	store := NewInMemoryTokenStore("")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "s1", "token-a"))

	select {
	case ev := <-events:
		assert.Equal(t, "s1", ev.SessionID)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a token event")
	}

	// Refreshing an existing token is not a transition.
	require.NoError(t, store.Save(ctx, "s1", "token-b"))
	select {
	case ev := <-events:
		t.Fatalf("unexpected event for refresh: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInMemoryTokenStore_SaveRacesWatchCancellation(t *testing.T) {
	store := NewInMemoryTokenStore("")

	var drained sync.WaitGroup
	cancels := make([]context.CancelFunc, 0, 64)
	for i := 0; i < 64; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancels = append(cancels, cancel)

		events, err := store.Watch(ctx)
		require.NoError(t, err)

		drained.Add(1)
		go func() {
			defer drained.Done()
			for range events {
			}
		}()
	}

	var saves sync.WaitGroup
	for i := 0; i < 8; i++ {
		saves.Add(1)
		go func(n int) {
			defer saves.Done()
			_ = store.Save(context.Background(), fmt.Sprintf("s%d", n), "token")
		}(i)
	}
	for _, cancel := range cancels {
		go cancel()
	}

	saves.Wait()
	drained.Wait()
}

func TestInMemoryTokenStore_WatchClosesOnCancel(t *testing.T) {
	store := NewInMemoryTokenStore("")
	ctx, cancel := context.WithCancel(context.Background())

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancellation")
	}
}
