package session

import (
	"context"
	"time"

	"github.com/layer-3/facegate/core"
	"github.com/layer-3/facegate/ports"
)

// Bootstrap establishes a session from a freshly issued credential. The
// commit is only trusted once the written record can be read back; a
// session the process cannot prove to exist is never navigated into.
type Bootstrap struct {
	store  *Store
	cfg    Config
	nav    ports.Navigator
	events ports.EventPublisher
}

// NewBootstrap creates a bootstrap over the given store. nav and events
// may be nil.
func NewBootstrap(store *Store, cfg Config, nav ports.Navigator, events ports.EventPublisher) *Bootstrap {
	return &Bootstrap{
		store:  store,
		cfg:    cfg,
		nav:    nav,
		events: events,
	}
}

// Commit writes the credential, confirms it is durably readable, then
// navigates to the protected destination. The navigation is a full
// reload so every component reinitializes against the committed token.
// A write that cannot be read back fails with ErrTokenPersistenceFailed
// and performs no navigation.
func (b *Bootstrap) Commit(ctx context.Context, token string) error {
	if err := b.store.Set(ctx, token); err != nil {
		return err
	}

	// Confirm against the durable layer, not the mirror: a write the
	// backing store silently dropped must not be navigated into.
	if _, ok := b.store.Credential(ctx); !ok {
		return core.ErrTokenPersistenceFailed
	}

	if b.events != nil {
		_ = b.events.SessionStarted(ctx)
	}
	if b.nav != nil {
		b.nav.Navigate(b.cfg.DashboardPath)
	}

	return nil
}

// Watchdog is the process-wide revalidation loop. Every interval it
// re-reads the token; the read itself clears an expired or malformed
// record, which downstream protected views observe by finding no valid
// token. A valid-to-absent transition additionally publishes a session
// teardown event and navigates to the login page.
type Watchdog struct {
	store  *Store
	cfg    Config
	nav    ports.Navigator
	events ports.EventPublisher
}

// NewWatchdog creates a watchdog over the given store.
func NewWatchdog(store *Store, cfg Config, nav ports.Navigator, events ports.EventPublisher) *Watchdog {
	return &Watchdog{
		store:  store,
		cfg:    cfg,
		nav:    nav,
		events: events,
	}
}

// Run blocks, ticking until ctx is done. Call it on its own goroutine.
func (w *Watchdog) Run(ctx context.Context) {
	interval := w.cfg.WatchdogInterval
	if interval <= 0 {
		interval = DefaultWatchdogInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	hadToken := w.store.Valid(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hadToken = w.check(ctx, hadToken)
		}
	}
}

// check performs one revalidation pass and returns the new validity state.
func (w *Watchdog) check(ctx context.Context, hadToken bool) bool {
	_, ok := w.store.Get(ctx)

	if hadToken && !ok {
		if w.events != nil {
			_ = w.events.SessionEnded(ctx, "expired")
		}
		if w.nav != nil {
			w.nav.Navigate(w.cfg.LoginPath + "?session=expired")
		}
	}

	return ok
}
