package ports

import (
	"context"
	"time"

	"github.com/layer-3/facegate/core"
)

// CacheLayer is the fast same-process mirror of the committed credential.
// It holds at most one value and never outlives the durable record's TTL;
// the composing store re-checks expiry against SetAt on every read.
type CacheLayer interface {
	// Put mirrors a credential value and the instant it was committed
	Put(value string, setAt time.Time)

	// Get returns the mirrored value and its commit instant
	Get() (value string, setAt time.Time, ok bool)

	// Clear drops the mirrored value
	Clear()
}

// DurableLayer persists the single credential record across process
// restarts. Implementations store one record under a fixed key.
type DurableLayer interface {
	// Write persists the record, replacing any previous one
	Write(ctx context.Context, rec core.TokenRecord) error

	// Read returns the current record. A missing or structurally invalid
	// record is reported as ok=false without error; err is reserved for
	// backend failures.
	Read(ctx context.Context) (rec core.TokenRecord, ok bool, err error)

	// Clear removes the record. Clearing an absent record is not an error.
	Clear(ctx context.Context) error
}

// RevocationList tracks invalidated token IDs until their natural expiry.
type RevocationList interface {
	// Revoke marks a token ID as invalidated for the remaining lifetime
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked checks whether a token ID has been invalidated
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
