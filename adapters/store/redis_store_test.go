package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/facegate/core"
)

func newRedisFixture(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStoreRoundtrip(t *testing.T) {
	s, _ := newRedisFixture(t)
	ctx := context.Background()

	rec := core.TokenRecord{
		Value:  "tok1",
		Expiry: time.Now().Add(30 * time.Minute).UnixMilli(),
		SetAt:  time.Now().UnixMilli(),
	}
	require.NoError(t, s.Write(ctx, rec))

	got, ok, err := s.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestRedisStoreRecordExpiresWithToken(t *testing.T) {
	s, mr := newRedisFixture(t)
	ctx := context.Background()

	rec := core.TokenRecord{
		Value:  "tok1",
		Expiry: time.Now().Add(time.Minute).UnixMilli(),
		SetAt:  time.Now().UnixMilli(),
	}
	require.NoError(t, s.Write(ctx, rec))

	mr.FastForward(2 * time.Minute)

	_, ok, err := s.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "redis should expire the record with the token")
}

func TestRedisStoreClear(t *testing.T) {
	s, _ := newRedisFixture(t)
	ctx := context.Background()

	rec := core.TokenRecord{Value: "tok1", Expiry: time.Now().Add(time.Minute).UnixMilli(), SetAt: 1}
	require.NoError(t, s.Write(ctx, rec))
	require.NoError(t, s.Clear(ctx))

	_, ok, err := s.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreRevocations(t *testing.T) {
	s, mr := newRedisFixture(t)
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The revocation entry expires with the token it shadows
	mr.FastForward(2 * time.Minute)

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
