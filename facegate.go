// Package facegate is the client-side session core of a facial-recognition
// augmented authentication flow: token lifecycle (two-tier store, sliding
// expiration, background revalidation), authenticated outbound calls, and
// the capture-and-exchange state machine that turns collected credentials
// plus one biometric sample into an established session.
//
// Page rendering, camera preview and form handling are collaborators that
// call into this package through the interfaces under ports.
package facegate

import (
	"context"

	"github.com/layer-3/facegate/capture"
	"github.com/layer-3/facegate/core"
	"github.com/layer-3/facegate/ports"
	"github.com/layer-3/facegate/session"
)

// Client bundles the session core against one verification service.
type Client struct {
	// Store holds the committed credential.
	Store *session.Store

	// Requester issues authenticated calls against protected endpoints.
	Requester *session.Requester

	// Bootstrap commits freshly issued credentials.
	Bootstrap *session.Bootstrap

	cfg        session.Config
	httpClient session.Doer
	nav        ports.Navigator
	events     ports.EventPublisher
}

// New assembles a client from its layers. httpClient, nav and events may
// be nil; nil httpClient falls back to http.DefaultClient.
func New(cfg session.Config, cache ports.CacheLayer, durable ports.DurableLayer, httpClient session.Doer, nav ports.Navigator, events ports.EventPublisher) *Client {
	store := session.NewStore(cache, durable, cfg.TokenTTL)
	bootstrap := session.NewBootstrap(store, cfg, nav, events)

	return &Client{
		Store:      store,
		Requester:  session.NewRequester(store, httpClient, cfg, nav, events),
		Bootstrap:  bootstrap,
		cfg:        cfg,
		httpClient: httpClient,
		nav:        nav,
		events:     events,
	}
}

// Challenge starts a new authentication attempt for the given mode and
// collected credentials. One coordinator serves one mounted capture page.
func (c *Client) Challenge(mode core.Mode, principal *core.Principal) *capture.Coordinator {
	return capture.NewCoordinator(mode, principal, c.httpClient, c.cfg, c.Bootstrap, c.nav)
}

// RunWatchdog starts the background revalidation loop and blocks until
// ctx is done. Call it on its own goroutine at process start.
func (c *Client) RunWatchdog(ctx context.Context) {
	session.NewWatchdog(c.Store, c.cfg, c.nav, c.events).Run(ctx)
}
