package session

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminCreds() Credentials {
	return Credentials{
		Token:     "admin-token",
		Principal: Record{ID: "a1", Email: "owner@acme.test"},
	}
}

func TestSnapshotRequiresBothTokenAndRecord(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	sessions := NewSessions(store)

	require.NoError(t, sessions.SetCredentials(ctx, KindAdmin, adminCreds()))

	snap := sessions.Snapshot(ctx)
	assert.True(t, snap.Admin)
	assert.False(t, snap.Member)

	// Removing only the record half invalidates the admin session.
	require.NoError(t, store.Remove(ctx, KeyAdminRecord))
	snap = sessions.Snapshot(ctx)
	assert.False(t, snap.Admin)
}

func TestCredentialsRoundTrip(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(NewInMemoryStore())

	want := Credentials{
		Token:     "member-token",
		Principal: Record{ID: "u9", Email: "student@acme.test", TenantID: "t1", DeviceLabel: "Chrome on Linux"},
	}
	require.NoError(t, sessions.SetCredentials(ctx, KindMember, want))

	got, err := sessions.Credentials(ctx, KindMember)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestLogoutFiresInvalidationHook(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(NewInMemoryStore())
	require.NoError(t, sessions.SetCredentials(ctx, KindAdmin, adminCreds()))

	fired := 0
	sessions.OnInvalidate(func() { fired++ })

	require.NoError(t, sessions.Logout(ctx, KindAdmin))
	assert.Equal(t, 1, fired)
	assert.False(t, sessions.Snapshot(ctx).Admin)
}

func TestTenantSwitchFiresInvalidationHook(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(NewInMemoryStore())

	fired := 0
	sessions.OnInvalidate(func() { fired++ })

	require.NoError(t, sessions.SetActiveTenant(ctx, "t1"))
	assert.Equal(t, 0, fired, "first tenant assignment is not a switch")

	require.NoError(t, sessions.SetActiveTenant(ctx, "t1"))
	assert.Equal(t, 0, fired, "re-assigning the same tenant is not a switch")

	require.NoError(t, sessions.SetActiveTenant(ctx, "t2"))
	assert.Equal(t, 1, fired)
}

func TestLogoutAllClearsKeySpace(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(NewInMemoryStore())
	require.NoError(t, sessions.SetCredentials(ctx, KindAdmin, adminCreds()))
	require.NoError(t, sessions.SetCredentials(ctx, KindMember, Credentials{Token: "m", Principal: Record{ID: "u1"}}))
	require.NoError(t, sessions.SetActiveTenant(ctx, "t1"))

	require.NoError(t, sessions.LogoutAll(ctx))

	snap := sessions.Snapshot(ctx)
	assert.False(t, snap.Any())
	_, err := sessions.ActiveTenant(ctx)
	assert.Error(t, err)
}

func TestKindFromToken(t *testing.T) {
	mint := func(kind string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"kind": kind, "sub": "u1"})
		signed, err := token.SignedString([]byte("dev-secret"))
		require.NoError(t, err)
		return signed
	}

	kind, ok := KindFromToken(mint("admin"))
	assert.True(t, ok)
	assert.Equal(t, KindAdmin, kind)

	_, ok = KindFromToken(mint("superuser"))
	assert.False(t, ok, "unknown kinds are rejected")

	_, ok = KindFromToken("not-a-jwt")
	assert.False(t, ok)
}
