package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/layer-3/facegate/core"
	"github.com/layer-3/facegate/ports"
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Requester wraps outbound calls to protected endpoints. Every call
// requires a stored credential, slides its expiry, and carries it as a
// bearer header. A 401 from the server tears the session down and forces
// navigation back to the unauthenticated entry point; every other
// failure is the caller's to handle.
type Requester struct {
	store  *Store
	client Doer
	cfg    Config
	nav    ports.Navigator
	events ports.EventPublisher
}

// NewRequester creates a requester over the given store. nav and events
// may be nil when no UI or event plumbing is attached.
func NewRequester(store *Store, client Doer, cfg Config, nav ports.Navigator, events ports.EventPublisher) *Requester {
	if client == nil {
		client = http.DefaultClient
	}
	return &Requester{
		store:  store,
		client: client,
		cfg:    cfg,
		nav:    nav,
		events: events,
	}
}

// Do performs an authenticated call against path (relative to the
// configured base URL). It fails with ErrMissingToken before any network
// activity when no credential is stored, and with ErrSessionExpired on a
// 401 after clearing the credential and navigating to the login page.
func (r *Requester) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	token, ok := r.store.Get(ctx)
	if !ok {
		return nil, core.ErrMissingToken
	}

	// Sliding session: every authenticated call restarts the TTL
	r.store.RefreshExpiry(ctx)

	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		r.teardown(ctx, "revoked")
		return nil, core.ErrSessionExpired
	}

	return resp, nil
}

// UserInfo is the authenticated identity returned by the verification
// service's /me endpoint.
type UserInfo struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Me fetches the authenticated user's identity.
func (r *Requester) Me(ctx context.Context) (*UserInfo, error) {
	resp, err := r.Do(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from /me", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode /me response: %w", err)
	}

	return &info, nil
}

// Logout tears the session down. The server call is best effort: the
// bearer header is attached when a credential is still present, and any
// failure is ignored. The local credential is always cleared.
func (r *Requester) Logout(ctx context.Context) {
	token, ok := r.store.Get(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/logout", nil)
	if err == nil {
		if ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if resp, err := r.client.Do(req); err == nil {
			resp.Body.Close()
		}
	}

	r.store.Remove(ctx)
	if r.events != nil {
		_ = r.events.SessionEnded(ctx, "logout")
	}
	if r.nav != nil {
		r.nav.Navigate(r.cfg.LoginPath)
	}
}

// VerifyCaptcha submits a captcha response token to the external
// verifier and reports whether it passed. The call is unauthenticated.
func (r *Requester) VerifyCaptcha(ctx context.Context, captchaToken string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"token": captchaToken})
	if err != nil {
		return false, fmt.Errorf("failed to encode captcha request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/verify-captcha", bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode captcha response: %w", err)
	}

	return result.Success, nil
}

// teardown clears the credential and forces navigation to the login page.
func (r *Requester) teardown(ctx context.Context, reason string) {
	r.store.Remove(ctx)
	if r.events != nil {
		_ = r.events.SessionEnded(ctx, reason)
	}
	if r.nav != nil {
		r.nav.Navigate(r.cfg.LoginPath + "?session=expired")
	}
}
