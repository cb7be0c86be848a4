package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/facegate/adapters/store"
	"github.com/layer-3/facegate/core"
)

// recordingNav remembers every navigation the core forces.
type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNav) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

// recordingEvents remembers published session events.
type recordingEvents struct {
	mu      sync.Mutex
	started int
	ended   []string
}

func (e *recordingEvents) SessionStarted(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started++
	return nil
}

func (e *recordingEvents) SessionEnded(ctx context.Context, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ended = append(e.ended, reason)
	return nil
}

func (e *recordingEvents) endedReasons() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.ended...)
}

func newRequesterFixture(t *testing.T, handler http.Handler) (*Requester, *Store, *recordingNav, *recordingEvents, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewStore(store.NewMemoryCache(), store.NewFileStore(t.TempDir()), 30*time.Minute)
	nav := &recordingNav{}
	events := &recordingEvents{}
	cfg := DefaultConfig(srv.URL)

	return NewRequester(s, srv.Client(), cfg, nav, events), s, nav, events, srv
}

func TestRequesterMissingTokenNoCall(t *testing.T) {
	called := false
	r, _, _, _, _ := newRequesterFixture(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		called = true
	}))

	_, err := r.Do(context.Background(), http.MethodGet, "/me", nil)
	require.ErrorIs(t, err, core.ErrMissingToken)
	assert.False(t, called, "no network call may be issued without a token")
}

func TestRequesterAttachesBearerAndSlidesExpiry(t *testing.T) {
	var gotAuth string
	r, s, _, _, _ := newRequesterFixture(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "tok1"))
	before, ok := s.Credential(ctx)
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)

	resp, err := r.Do(ctx, http.MethodGet, "/data", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok1", gotAuth)

	after, ok := s.Credential(ctx)
	require.True(t, ok)
	assert.True(t, after.ExpiresAt.After(before.ExpiresAt), "expiry must slide forward on use")
}

func TestRequesterUnauthorizedTearsDownSession(t *testing.T) {
	r, s, nav, events, _ := newRequesterFixture(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "tok1"))

	_, err := r.Do(ctx, http.MethodGet, "/data", nil)
	require.ErrorIs(t, err, core.ErrSessionExpired)

	assert.False(t, s.Valid(ctx), "credential must be cleared on 401")
	assert.Equal(t, "/login?session=expired", nav.last())
	assert.Equal(t, []string{"revoked"}, events.endedReasons())
}

func TestRequesterMe(t *testing.T) {
	r, s, _, _, _ := newRequesterFixture(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username":"ada","email":"ada@example.com"}`))
	}))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "tok1"))

	info, err := r.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada", info.Username)
	assert.Equal(t, "ada@example.com", info.Email)
}

func TestRequesterLogoutBestEffort(t *testing.T) {
	r, s, nav, events, srv := newRequesterFixture(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "tok1"))

	// Server failure is ignored; teardown happens regardless
	r.Logout(ctx)

	assert.False(t, s.Valid(ctx))
	assert.Equal(t, "/login", nav.last())
	assert.Equal(t, []string{"logout"}, events.endedReasons())

	// Logout without a token still works, omitting the bearer header
	srv.Close()
	r.Logout(ctx)
	assert.False(t, s.Valid(ctx))
}

func TestRequesterVerifyCaptcha(t *testing.T) {
	r, _, _, _, _ := newRequesterFixture(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))

	ok, err := r.VerifyCaptcha(context.Background(), "captcha-response")
	require.NoError(t, err)
	assert.True(t, ok)
}
