package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/facegate/ports"
)

// MemoryCache is the in-process mirror of the committed credential. It
// implements the CacheLayer interface with a single slot guarded by a
// read-write mutex.
type MemoryCache struct {
	mu    sync.RWMutex
	value string
	setAt time.Time
	full  bool
}

// NewMemoryCache creates a new empty cache mirror.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Put mirrors a credential value and its commit instant.
func (c *MemoryCache) Put(value string, setAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.setAt = setAt
	c.full = true
}

// Get returns the mirrored value and commit instant.
func (c *MemoryCache) Get() (string, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.full {
		return "", time.Time{}, false
	}
	return c.value, c.setAt, true
}

// Clear drops the mirrored value.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = ""
	c.setAt = time.Time{}
	c.full = false
}

// MemoryRevocations is an in-memory implementation of the RevocationList
// interface, intended for tests and single-instance development runs.
type MemoryRevocations struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewMemoryRevocations creates a new in-memory revocation list.
func NewMemoryRevocations() ports.RevocationList {
	return &MemoryRevocations{
		revoked: make(map[string]time.Time),
	}
}

// Revoke marks a token ID as invalidated until its natural expiry.
func (s *MemoryRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks whether a token ID has been invalidated.
func (s *MemoryRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiry, exists := s.revoked[tokenID]
	if !exists {
		return false, nil
	}

	// Entries past the token's own expiry no longer matter
	if time.Now().After(expiry) {
		return false, nil
	}

	return true, nil
}
