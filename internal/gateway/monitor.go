package gateway

import (
	"context"
	"sync"

	"github.com/vizual-ai/vizdash/internal/settings"
)

// Monitor merges the configured endpoint set and probes it as one
// batch. The gateway panel and the vault panel both consume the
// resulting Report, so a refresh probes each endpoint exactly once.
type Monitor struct {
	prober Prober
	store  settings.Store

	// tunnel and ai default to the built-in sets; tests inject their own.
	tunnel []Endpoint
	ai     []Endpoint
}

// Report is the settled outcome of one probe batch.
type Report struct {
	// Endpoints is the merged set that was probed, in render order.
	Endpoints []Endpoint
	// Statuses maps endpoint id to its settled status; after a batch
	// every entry is online or offline, never checking.
	Statuses map[string]Status
	// TunnelOnline is true when at least one tunnel-group endpoint is
	// online. It drives the shared sidebar indicator.
	TunnelOnline bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithBuiltins replaces the built-in endpoint sets (used by tests).
func WithBuiltins(tunnel, ai []Endpoint) Option {
	return func(m *Monitor) {
		m.tunnel = tunnel
		m.ai = ai
	}
}

// NewMonitor creates a Monitor over the given prober and settings store.
func NewMonitor(prober Prober, store settings.Store, opts ...Option) *Monitor {
	m := &Monitor{
		prober: prober,
		store:  store,
		tunnel: BuiltinTunnel(),
		ai:     BuiltinAI(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// List returns the merged endpoint set in fixed order: built-in tunnel
// endpoints with any saved URL override applied, built-in AI endpoints,
// then persisted custom endpoints.
func (m *Monitor) List() []Endpoint {
	merged := make([]Endpoint, 0, len(m.tunnel)+len(m.ai))

	for _, ep := range m.tunnel {
		if override := m.store.Get(settings.TunnelOverrideKey(ep.ID)); override != "" {
			ep.URL = override
		}

		merged = append(merged, ep)
	}

	merged = append(merged, m.ai...)
	merged = append(merged, Customs(m.store)...)

	return merged
}

// RefreshAll probes every endpoint concurrently and returns the settled
// report. All probes are dispatched before any is awaited; each probe
// resolves independently to online or offline, so a slow or failing
// endpoint never aborts the batch. Overlapping calls are not
// serialized — the caller's last completed render wins.
func (m *Monitor) RefreshAll(ctx context.Context) Report {
	endpoints := m.List()

	statuses := make(map[string]Status, len(endpoints))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, ep := range endpoints {
		wg.Go(func() {
			status := m.prober.Probe(ctx, ep.URL)

			mu.Lock()
			statuses[ep.ID] = status
			mu.Unlock()
		})
	}

	wg.Wait()

	tunnelOnline := false

	for _, ep := range endpoints {
		if ep.Group == GroupTunnel && statuses[ep.ID] == StatusOnline {
			tunnelOnline = true
			break
		}
	}

	return Report{
		Endpoints:    endpoints,
		Statuses:     statuses,
		TunnelOnline: tunnelOnline,
	}
}

// AddCustom validates and appends a custom endpoint to the persisted
// list. Validation failures leave the list untouched. The caller is
// expected to trigger a RefreshAll afterwards.
func (m *Monitor) AddCustom(label, rawURL string) (Endpoint, error) {
	if err := validateEndpointInput(label, rawURL); err != nil {
		return Endpoint{}, err
	}

	ep := Endpoint{
		ID:     newCustomID(),
		Label:  label,
		URL:    rawURL,
		Icon:   "◇",
		Group:  GroupAI,
		Custom: true,
	}

	customs := append(Customs(m.store), ep)
	if err := saveCustoms(m.store, customs); err != nil {
		return Endpoint{}, err
	}

	return ep, nil
}

// ClearCustom removes every custom endpoint.
func (m *Monitor) ClearCustom() error {
	return m.store.Clear(settings.KeyCustomEndpoints)
}

// SetTunnelOverride saves a URL override for a built-in tunnel
// endpoint, or clears it when rawURL is empty.
func (m *Monitor) SetTunnelOverride(id, rawURL string) error {
	if rawURL == "" {
		return m.store.Clear(settings.TunnelOverrideKey(id))
	}

	if err := validateEndpointInput(id, rawURL); err != nil {
		return err
	}

	return m.store.Set(settings.TunnelOverrideKey(id), rawURL)
}
