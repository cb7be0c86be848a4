package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/facegate/core"
)

func TestFileStoreRoundtrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
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

func TestFileStoreMissingRecordIsAbsent(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, ok, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreUndecodableRecordIsAbsent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RecordName+".json"), []byte("{corrupt"), 0o600))

	s := NewFileStore(dir)
	_, ok, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreClearIdempotent(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, core.TokenRecord{Value: "tok1", Expiry: 1, SetAt: 1}))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	_, ok, err := s.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheSingleSlot(t *testing.T) {
	c := NewMemoryCache()

	_, _, ok := c.Get()
	assert.False(t, ok)

	setAt := time.Now()
	c.Put("tok1", setAt)

	value, gotSetAt, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, "tok1", value)
	assert.Equal(t, setAt, gotSetAt)

	c.Put("tok2", setAt.Add(time.Second))
	value, _, _ = c.Get()
	assert.Equal(t, "tok2", value)

	c.Clear()
	_, _, ok = c.Get()
	assert.False(t, ok)
}

func TestMemoryRevocations(t *testing.T) {
	r := NewMemoryRevocations()
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
