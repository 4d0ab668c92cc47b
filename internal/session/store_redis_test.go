package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus/pkg/sentinel"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, WithTTL(time.Hour)), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	require.NoError(t, store.Set(ctx, KeyAdminToken, "tok"))
	value, err := store.Get(ctx, KeyAdminToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", value)

	require.NoError(t, store.Remove(ctx, KeyAdminToken))
	_, err = store.Get(ctx, KeyAdminToken)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRedisStoreMissingKey(t *testing.T) {
	store, _ := newRedisStore(t)
	_, err := store.Get(context.Background(), KeyActiveTenant)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRedisStoreAppliesTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Set(ctx, KeyMemberToken, "tok"))
	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, KeyMemberToken)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestSessionsOverRedis(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)
	sessions := NewSessions(store)

	require.NoError(t, sessions.SetCredentials(ctx, KindMember, Credentials{
		Token:     "m-tok",
		Principal: Record{ID: "u2", Email: "s@acme.test"},
	}))

	snap := sessions.Snapshot(ctx)
	assert.True(t, snap.Member)
	assert.False(t, snap.Admin)
}
