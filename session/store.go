package session

import (
	"context"
	"fmt"
	"time"

	"github.com/layer-3/facegate/core"
	"github.com/layer-3/facegate/ports"
)

// Store is the two-tier credential store: a fast in-memory mirror in
// front of a durable record. Reads prefer the mirror so protected calls
// avoid a durable round trip; the mirror re-derives its own expiry from
// the commit instant so it can never outlive the durable record's TTL.
//
// All mutation of the credential goes through this type. The cache and
// durable layers are process-wide singletons shared by the requester,
// the bootstrap and the watchdog.
type Store struct {
	cache   ports.CacheLayer
	durable ports.DurableLayer
	ttl     time.Duration

	now func() time.Time
}

// NewStore composes a cache mirror and a durable layer into one store.
func NewStore(cache ports.CacheLayer, durable ports.DurableLayer, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Store{
		cache:   cache,
		durable: durable,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set commits a credential: the durable record is written with a fresh
// expiry one TTL from now, and the value is mirrored for same-process
// reads. An empty value is rejected with ErrInvalidToken and leaves any
// previously stored credential untouched. A durable write failure is
// reported as ErrStoreOperationFailed; the mirror is not updated in that
// case, so readers keep seeing the previous state.
func (s *Store) Set(ctx context.Context, value string) error {
	if value == "" {
		return core.ErrInvalidToken
	}

	now := s.now()
	rec := core.TokenRecord{
		Value:  value,
		Expiry: now.Add(s.ttl).UnixMilli(),
		SetAt:  now.UnixMilli(),
	}

	if err := s.durable.Write(ctx, rec); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStoreOperationFailed, err)
	}

	s.cache.Put(value, now)
	return nil
}

// Get returns the current credential, or ok=false when none is valid.
// The mirror is consulted first; a miss falls back to the durable record,
// which is validated structurally and against its expiry. Expired or
// malformed records are cleared as a side effect (fail closed), and a
// valid durable read repopulates the mirror.
func (s *Store) Get(ctx context.Context) (string, bool) {
	now := s.now()

	if value, setAt, ok := s.cache.Get(); ok {
		if now.Before(setAt.Add(s.ttl)) {
			return value, true
		}
		s.cache.Clear()
	}

	rec, ok, err := s.durable.Read(ctx)
	if err != nil || !ok {
		return "", false
	}

	if rec.Malformed() || rec.Expired(now) {
		s.clear(ctx)
		return "", false
	}

	s.cache.Put(rec.Value, time.UnixMilli(rec.SetAt))
	return rec.Value, true
}

// Remove tears the credential down in both tiers. It is idempotent and
// never fails observably; a durable clear failure still drops the mirror
// so the process stops using the credential.
func (s *Store) Remove(ctx context.Context) {
	s.clear(ctx)
}

// RefreshExpiry re-issues the current credential with a full TTL from
// now (sliding expiration). It reports whether a credential was present
// to refresh.
func (s *Store) RefreshExpiry(ctx context.Context) bool {
	value, ok := s.Get(ctx)
	if !ok {
		return false
	}
	return s.Set(ctx, value) == nil
}

// Valid reports whether a usable credential is currently stored.
func (s *Store) Valid(ctx context.Context) bool {
	_, ok := s.Get(ctx)
	return ok
}

// Credential returns the full durable credential with its issue and
// expiry instants. Unlike Get it always consults the durable layer, so
// it doubles as the proof that a commit actually persisted.
func (s *Store) Credential(ctx context.Context) (core.Credential, bool) {
	rec, ok, err := s.durable.Read(ctx)
	if err != nil || !ok || rec.Malformed() || rec.Expired(s.now()) {
		return core.Credential{}, false
	}
	return core.Credential{
		Value:     rec.Value,
		IssuedAt:  time.UnixMilli(rec.SetAt),
		ExpiresAt: time.UnixMilli(rec.Expiry),
	}, true
}

func (s *Store) clear(ctx context.Context) {
	s.cache.Clear()
	_ = s.durable.Clear(ctx)
}
