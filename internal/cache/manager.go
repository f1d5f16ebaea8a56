package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	clierrors "github.com/vizual-ai/vizdash/internal/errors"
)

// State is the lifecycle phase of a Manager.
type State string

// Manager lifecycle states. A manager only serves from cache while
// active; installing and superseded managers pass requests through.
const (
	StateInstalling State = "installing"
	StateActive     State = "active"
	StateSuperseded State = "superseded"
)

// Policy tells the manager which hosts and paths get which handling.
type Policy struct {
	// APIHost is matched exactly; its requests are network-first and
	// never cached.
	APIHost string
	// CDNHost is matched exactly; its requests are cache-first.
	CDNHost string
	// SnapshotMarker is a path substring selecting the
	// stale-while-revalidate snapshot route.
	SnapshotMarker string
}

// Manager is an http.RoundTripper that serves the dashboard offline.
// It starts installing, becomes active after an Install + Activate
// cycle, and superseded when a newer generation takes over.
type Manager struct {
	store    Store
	inner    http.RoundTripper
	policy   Policy
	shellGen string
	apiGen   string

	mu    sync.RWMutex
	state State

	revalidations sync.WaitGroup
}

// NewManager creates a manager in the installing state. shellGen and
// apiGen name this release's generations; everything else on disk is
// considered stale and removed on Activate.
func NewManager(store Store, inner http.RoundTripper, policy Policy, shellGen, apiGen string) *Manager {
	if inner == nil {
		inner = http.DefaultTransport
	}

	return &Manager{
		store:    store,
		inner:    inner,
		policy:   policy,
		shellGen: shellGen,
		apiGen:   apiGen,
		state:    StateInstalling,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

// Install precaches every shell URL into the shell generation. The
// install is all-or-nothing: the first fetch failure or non-2xx aborts
// it and the manager stays installing. Entries written before the
// failure are harmless; they live in an unactivated generation.
func (m *Manager) Install(ctx context.Context, manifest Manifest) error {
	for _, url := range manifest.Shell {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return clierrors.CacheFailed("precache "+url, err)
		}

		resp, err := m.inner.RoundTrip(req)
		if err != nil {
			return clierrors.CacheFailed("precache "+url, err)
		}

		entry, err := drainResponse(resp)
		if err != nil {
			return clierrors.CacheFailed("precache "+url, err)
		}

		if entry.Status < 200 || entry.Status >= 300 {
			return clierrors.CacheFailed("precache "+url, fmt.Errorf("unexpected status %d", entry.Status))
		}

		if err := m.store.Put(m.shellGen, Key(http.MethodGet, url), entry); err != nil {
			return clierrors.CacheFailed("precache "+url, err)
		}
	}

	return nil
}

// Activate deletes every generation that is neither the shell nor the
// api generation, then switches the manager to active. All subsequent
// requests are served under the cache policy immediately.
func (m *Manager) Activate() error {
	gens, err := m.store.Generations()
	if err != nil {
		return clierrors.CacheFailed("activate", err)
	}

	for _, gen := range gens {
		if gen == m.shellGen || gen == m.apiGen {
			continue
		}

		if err := m.store.DeleteGeneration(gen); err != nil {
			return clierrors.CacheFailed("activate", err)
		}
	}

	m.mu.Lock()
	m.state = StateActive
	m.mu.Unlock()

	return nil
}

// Supersede retires this manager. A superseded manager passes every
// request through untouched.
func (m *Manager) Supersede() {
	m.mu.Lock()
	m.state = StateSuperseded
	m.mu.Unlock()
}

// RoundTrip classifies the request and applies the matching strategy.
// First match wins: non-GET passes through, API-host requests are
// network-first, snapshot paths are stale-while-revalidate, CDN and
// everything else are cache-first.
func (m *Manager) RoundTrip(req *http.Request) (*http.Response, error) {
	if m.State() != StateActive {
		return m.inner.RoundTrip(req)
	}

	if req.Method != http.MethodGet {
		return m.inner.RoundTrip(req)
	}

	switch {
	case req.URL.Host == m.policy.APIHost:
		return m.networkFirst(req)
	case m.policy.SnapshotMarker != "" && strings.Contains(req.URL.Path, m.policy.SnapshotMarker):
		return m.staleWhileRevalidate(req)
	default:
		// CDN and shell share the cache-first strategy; the CDN case is
		// listed separately in the policy for doctor reporting only.
		return m.cacheFirst(req)
	}
}

// networkFirst always hits the network and never caches. A transport
// failure synthesizes a 503 so API consumers see a well-formed JSON
// error instead of a transport error.
func (m *Manager) networkFirst(req *http.Request) (*http.Response, error) {
	resp, err := m.inner.RoundTrip(req)
	if err != nil {
		return synthesize(req, http.StatusServiceUnavailable, "application/json",
			[]byte(`{"error":"offline","message":"network unavailable"}`)), nil
	}

	return resp, nil
}

// staleWhileRevalidate serves the cached snapshot immediately and
// refreshes it in the background. With no cached copy the network
// response is used (and cached); if that also fails the caller gets an
// empty JSON object so snapshot consumers render empty rather than
// erroring.
func (m *Manager) staleWhileRevalidate(req *http.Request) (*http.Response, error) {
	key := Key(req.Method, req.URL.String())

	entry, ok, err := m.store.Get(m.apiGen, key)
	if err == nil && ok {
		m.revalidations.Go(func() {
			m.revalidate(req)
		})

		return restore(req, entry), nil
	}

	resp, err := m.inner.RoundTrip(req)
	if err != nil {
		return synthesize(req, http.StatusOK, "application/json", []byte(`{}`)), nil
	}

	fresh, err := drainResponse(resp)
	if err != nil {
		return synthesize(req, http.StatusOK, "application/json", []byte(`{}`)), nil
	}

	if fresh.Status >= 200 && fresh.Status < 300 {
		// Best effort; a failed write still serves the live response.
		_ = m.store.Put(m.apiGen, key, fresh)
	}

	return restore(req, fresh), nil
}

// revalidate refreshes one snapshot entry. It runs detached from the
// originating request so its cancellation does not abort the refresh.
func (m *Manager) revalidate(req *http.Request) {
	clone := req.Clone(context.WithoutCancel(req.Context()))

	resp, err := m.inner.RoundTrip(clone)
	if err != nil {
		return
	}

	fresh, err := drainResponse(resp)
	if err != nil || fresh.Status < 200 || fresh.Status >= 300 {
		return
	}

	_ = m.store.Put(m.apiGen, Key(req.Method, req.URL.String()), fresh)
}

// cacheFirst serves from the shell generation, falling back to the
// network on a miss. Only 2xx responses are cached; a miss with no
// network synthesizes a 503.
func (m *Manager) cacheFirst(req *http.Request) (*http.Response, error) {
	key := Key(req.Method, req.URL.String())

	entry, ok, err := m.store.Get(m.shellGen, key)
	if err == nil && ok {
		return restore(req, entry), nil
	}

	resp, err := m.inner.RoundTrip(req)
	if err != nil {
		return synthesize(req, http.StatusServiceUnavailable, "text/plain",
			[]byte("offline and not cached")), nil
	}

	fresh, err := drainResponse(resp)
	if err != nil {
		return synthesize(req, http.StatusServiceUnavailable, "text/plain",
			[]byte("offline and not cached")), nil
	}

	if fresh.Status >= 200 && fresh.Status < 300 {
		_ = m.store.Put(m.shellGen, key, fresh)
	}

	return restore(req, fresh), nil
}

// drainResponse reads a live response into an Entry, closing the body.
func drainResponse(resp *http.Response) (Entry, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("read response body: %w", err)
	}

	return Entry{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}

// restore turns a cached entry back into a servable response.
func restore(req *http.Request, entry Entry) *http.Response {
	header := entry.Header
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		StatusCode:    entry.Status,
		Status:        http.StatusText(entry.Status),
		Header:        header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(entry.Body)),
		ContentLength: int64(len(entry.Body)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Request:       req,
	}
}

func synthesize(req *http.Request, status int, contentType string, body []byte) *http.Response {
	resp := restore(req, Entry{Status: status, Body: body})
	resp.Header.Set("Content-Type", contentType)

	return resp
}
