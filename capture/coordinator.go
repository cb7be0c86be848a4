package capture

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/layer-3/facegate/core"
	"github.com/layer-3/facegate/ports"
	"github.com/layer-3/facegate/session"
)

// State is the coordinator's position in one authentication attempt.
type State int32

const (
	// StateIdle means no attempt is underway.
	StateIdle State = iota

	// StateAwaitingSample means a capture event fired and the sample is
	// being decoded.
	StateAwaitingSample

	// StateExchanging means the multipart exchange is in flight.
	StateExchanging

	// StateSucceeded, StateRejected, StateFailed and StateTimedOut are the
	// terminal states of an attempt.
	StateSucceeded
	StateRejected
	StateFailed
	StateTimedOut
)

// Coordinator drives one biometric capture through exactly one exchange
// with the verification service. A latch keeps rapid repeated capture
// events from producing more than one in-flight exchange; the exchange is
// raced against a deadline through its context, so a call that outlives
// the bound is aborted and a late response can never supersede the
// timeout outcome.
//
// A coordinator instance serves one mounted capture page at a time; the
// latch is not a substitute for sharing one instance across pages.
type Coordinator struct {
	mode      core.Mode
	principal *core.Principal
	client    session.Doer
	cfg       session.Config
	bootstrap *session.Bootstrap
	nav       ports.Navigator

	inFlight atomic.Bool
	state    atomic.Int32
}

// NewCoordinator creates a coordinator for one authentication attempt.
// principal is the collected-credentials value owned by the page
// controller; it may be nil when the user reached the capture step with
// stale state, which Submit reports rather than exchanging.
func NewCoordinator(mode core.Mode, principal *core.Principal, client session.Doer, cfg session.Config, bootstrap *session.Bootstrap, nav ports.Navigator) *Coordinator {
	if client == nil {
		client = http.DefaultClient
	}
	if !mode.Valid() {
		mode = core.ModeLogin
	}
	return &Coordinator{
		mode:      mode,
		principal: principal,
		client:    client,
		cfg:       cfg,
		bootstrap: bootstrap,
		nav:       nav,
	}
}

// State returns the coordinator's current state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Reset returns a terminal coordinator to idle so a fresh capture event
// can start a new attempt. Failure outcomes release the latch on their
// own; Reset is only needed after a success.
func (c *Coordinator) Reset() {
	c.state.Store(int32(StateIdle))
	c.inFlight.Store(false)
}

// Submit runs one capture event through the state machine: decode the
// sample, perform the single multipart exchange, classify the outcome,
// and on success hand the credential to the session bootstrap.
//
// A second capture event while an attempt is in flight returns
// ErrExchangeInFlight without touching the network. A missing principal
// returns ErrCredentialsExpired and routes back to the collection page.
func (c *Coordinator) Submit(ctx context.Context, image string) (core.Outcome, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return core.Outcome{}, core.ErrExchangeInFlight
	}

	c.state.Store(int32(StateAwaitingSample))

	if c.principal == nil {
		c.Reset()
		if c.nav != nil {
			c.nav.Navigate(c.collectionPath())
		}
		return core.Outcome{}, core.ErrCredentialsExpired
	}

	sample, err := ParseImage(image)
	if err != nil {
		return c.finish(core.Failed(err)), nil
	}

	c.state.Store(int32(StateExchanging))
	outcome := c.exchange(ctx, sample)

	if outcome.Kind == core.OutcomeSucceeded {
		outcome = c.establish(ctx, outcome)
	}

	return c.finish(outcome), nil
}

// exchange performs the one network exchange of the attempt under the
// configured deadline and classifies the result.
func (c *Coordinator) exchange(ctx context.Context, sample core.Sample) core.Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ExchangeTimeout)
	defer cancel()

	body, contentType, err := encodeChallenge(c.mode, c.principal, sample)
	if err != nil {
		return core.Failed(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+c.mode.Endpoint(), body)
	if err != nil {
		return core.Failed(err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return core.TimedOut()
		}
		return core.Failed(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return core.TimedOut()
		}
		return core.Failed(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.Rejected(rejectionReason(payload))
	}

	token := extractToken(payload)
	if token == "" {
		// A success status without a credential is not a success
		return core.Rejected("no credential issued")
	}

	return core.Succeeded(token)
}

// establish turns a successful exchange into an established session. A
// registration without auto-login keeps its credential uncommitted and
// routes to the login page instead.
func (c *Coordinator) establish(ctx context.Context, outcome core.Outcome) core.Outcome {
	if c.mode == core.ModeRegistration && !c.cfg.AutoLoginOnRegister {
		if c.nav != nil {
			c.nav.Navigate(c.cfg.LoginPath + "?registered=1")
		}
		return outcome
	}

	if c.bootstrap != nil {
		if err := c.bootstrap.Commit(ctx, outcome.Token); err != nil {
			return core.Failed(err)
		}
	}

	return outcome
}

// finish records the terminal state, releases the latch on failure, and
// discards the attempt's transient state.
func (c *Coordinator) finish(outcome core.Outcome) core.Outcome {
	switch outcome.Kind {
	case core.OutcomeSucceeded:
		c.state.Store(int32(StateSucceeded))
	case core.OutcomeRejected:
		c.state.Store(int32(StateRejected))
		c.inFlight.Store(false)
	case core.OutcomeFailed:
		c.state.Store(int32(StateFailed))
		c.inFlight.Store(false)
	case core.OutcomeTimedOut:
		c.state.Store(int32(StateTimedOut))
		c.inFlight.Store(false)
	}
	return outcome
}

// collectionPath is the page that owns credential collection for the mode.
func (c *Coordinator) collectionPath() string {
	if c.mode == core.ModeRegistration {
		return c.cfg.RegisterPath
	}
	return c.cfg.LoginPath
}
