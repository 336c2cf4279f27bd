package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	store := NewMemoryStore()
	t.Cleanup(store.Close)
	return NewManager(store, ttl)
}

func TestStartAndResolve(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t, time.Minute)

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)
	require.Len(t, sess.Token, 64)
	assert.False(t, sess.LoggedIn())

	resolved, err := mgr.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, resolved.Token)
	assert.False(t, resolved.LoggedIn())
}

func TestResolveUnknownToken(t *testing.T) {
	mgr := newTestManager(t, time.Minute)

	_, err := mgr.Resolve(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = mgr.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionExpires(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t, 40*time.Millisecond)

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)

	_, err = mgr.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSlidingWindow(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t, 120*time.Millisecond)

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)

	// keep touching the session within the window; each Resolve renews it
	for i := 0; i < 3; i++ {
		time.Sleep(70 * time.Millisecond)
		_, err := mgr.Resolve(ctx, sess.Token)
		require.NoError(t, err, "resolve %d should stay inside the sliding window", i)
	}

	time.Sleep(200 * time.Millisecond)
	_, err = mgr.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDestroy(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t, time.Minute)

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, mgr.Destroy(ctx, sess.Token))

	_, err = mgr.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoginLogout(t *testing.T) {
	sess := &Session{}
	assert.False(t, sess.LoggedIn())
	assert.False(t, sess.IsAdmin())

	sess.AddToCart("p1", 2)
	sess.Login("user-1", models.RoleShopper)
	assert.True(t, sess.LoggedIn())
	assert.False(t, sess.IsAdmin())
	// the anonymous cart survives login
	assert.Len(t, sess.Cart, 1)

	sess.Logout()
	assert.False(t, sess.LoggedIn())
	assert.Empty(t, sess.Cart)

	sess.Login("admin-1", models.RoleAdmin)
	assert.True(t, sess.IsAdmin())
}

func TestCartOperations(t *testing.T) {
	sess := &Session{}

	sess.AddToCart("p1", 2)
	sess.AddToCart("p2", 1)
	sess.AddToCart("p1", 3)
	require.Len(t, sess.Cart, 2)
	assert.Equal(t, 5, sess.Cart[0].Quantity)

	// non-positive quantities count as one
	sess.AddToCart("p3", 0)
	require.Len(t, sess.Cart, 3)
	assert.Equal(t, 1, sess.Cart[2].Quantity)

	sess.RemoveFromCart("p1")
	require.Len(t, sess.Cart, 2)
	assert.Equal(t, "p2", sess.Cart[0].ProductID)

	sess.RemoveFromCart("missing")
	assert.Len(t, sess.Cart, 2)
}

func TestStoreIsolatesSavedSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	t.Cleanup(store.Close)
	mgr := NewManager(store, time.Minute)

	sess, err := mgr.Start(ctx)
	require.NoError(t, err)
	sess.AddToCart("p1", 1)
	require.NoError(t, mgr.Save(ctx, sess))

	// mutating the handler-side copy must not leak into the store
	sess.AddToCart("p2", 1)

	resolved, err := mgr.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Len(t, resolved.Cart, 1)
}
