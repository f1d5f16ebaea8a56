package gateway

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/vizual-ai/vizdash/internal/settings"
)

// fakeProber records every probed URL and answers from a fixed map.
type fakeProber struct {
	mu       sync.Mutex
	probed   []string
	statuses map[string]Status
}

func (f *fakeProber) Probe(_ context.Context, url string) Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.probed = append(f.probed, url)

	if status, ok := f.statuses[url]; ok {
		return status
	}

	return StatusOffline
}

func (f *fakeProber) probeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.probed)
}

func testBuiltins() ([]Endpoint, []Endpoint) {
	tunnel := []Endpoint{
		{ID: "vizual-x", Label: "Vizual X Gateway", URL: "https://vizual-x.com", Group: GroupTunnel},
	}
	ai := []Endpoint{
		{ID: "openai", Label: "OpenAI API", URL: "https://api.openai.com", Group: GroupAI},
	}

	return tunnel, ai
}

func TestMonitor_List_MergeOrder(t *testing.T) {
	store := settings.NewMemory()
	tunnel, ai := testBuiltins()
	m := NewMonitor(&fakeProber{}, store, WithBuiltins(tunnel, ai))

	if _, err := m.AddCustom("My Runner", "https://runner.example"); err != nil {
		t.Fatalf("AddCustom() error = %v", err)
	}

	got := m.List()
	if len(got) != 3 {
		t.Fatalf("List() returned %d endpoints, want 3", len(got))
	}

	if got[0].ID != "vizual-x" || got[1].ID != "openai" {
		t.Errorf("merge order = [%s %s ...], want tunnel then ai", got[0].ID, got[1].ID)
	}

	if !got[2].Custom || got[2].Label != "My Runner" {
		t.Errorf("customs should come last, got %+v", got[2])
	}
}

func TestMonitor_List_AppliesTunnelOverride(t *testing.T) {
	store := settings.NewMemory()
	tunnel, ai := testBuiltins()
	m := NewMonitor(&fakeProber{}, store, WithBuiltins(tunnel, ai))

	if err := store.Set(settings.TunnelOverrideKey("vizual-x"), "https://custom.example"); err != nil {
		t.Fatal(err)
	}

	got := m.List()

	if got[0].ID != "vizual-x" || got[0].URL != "https://custom.example" {
		t.Errorf("override not applied: got id=%s url=%s", got[0].ID, got[0].URL)
	}

	// Without an override the built-in default is used.
	if err := store.Clear(settings.TunnelOverrideKey("vizual-x")); err != nil {
		t.Fatal(err)
	}

	got = m.List()
	if got[0].URL != "https://vizual-x.com" {
		t.Errorf("default URL = %q, want built-in", got[0].URL)
	}
}

func TestMonitor_RefreshAll_SettlesEveryEndpoint(t *testing.T) {
	store := settings.NewMemory()
	tunnel, ai := testBuiltins()

	prober := &fakeProber{statuses: map[string]Status{
		"https://vizual-x.com":   StatusOnline,
		"https://api.openai.com": StatusOffline,
	}}

	m := NewMonitor(prober, store, WithBuiltins(tunnel, ai))

	if _, err := m.AddCustom("Runner", "https://runner.example"); err != nil {
		t.Fatal(err)
	}

	report := m.RefreshAll(context.Background())

	if len(report.Statuses) != len(report.Endpoints) {
		t.Fatalf("status count %d != endpoint count %d", len(report.Statuses), len(report.Endpoints))
	}

	for id, status := range report.Statuses {
		if status != StatusOnline && status != StatusOffline {
			t.Errorf("endpoint %s settled as %q, want online or offline", id, status)
		}
	}

	if report.Statuses["vizual-x"] != StatusOnline {
		t.Errorf("vizual-x = %q, want online", report.Statuses["vizual-x"])
	}

	if report.Statuses["openai"] != StatusOffline {
		t.Errorf("openai = %q, want offline", report.Statuses["openai"])
	}
}

func TestMonitor_RefreshAll_ProbesEachEndpointOnce(t *testing.T) {
	// Both panels render from one report; a refresh must not probe an
	// endpoint once per panel.
	store := settings.NewMemory()
	tunnel, ai := testBuiltins()
	prober := &fakeProber{}
	m := NewMonitor(prober, store, WithBuiltins(tunnel, ai))

	report := m.RefreshAll(context.Background())

	if got, want := prober.probeCount(), len(report.Endpoints); got != want {
		t.Errorf("probe count = %d, want %d", got, want)
	}
}

func TestMonitor_RefreshAll_TunnelIndicator(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]Status
		want     bool
	}{
		{
			name:     "tunnel online",
			statuses: map[string]Status{"https://vizual-x.com": StatusOnline},
			want:     true,
		},
		{
			name:     "tunnel offline ai online",
			statuses: map[string]Status{"https://api.openai.com": StatusOnline},
			want:     false,
		},
		{
			name:     "all offline",
			statuses: map[string]Status{},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tunnel, ai := testBuiltins()
			m := NewMonitor(&fakeProber{statuses: tt.statuses}, settings.NewMemory(), WithBuiltins(tunnel, ai))

			report := m.RefreshAll(context.Background())

			if report.TunnelOnline != tt.want {
				t.Errorf("TunnelOnline = %v, want %v", report.TunnelOnline, tt.want)
			}
		})
	}
}

func TestMonitor_RefreshAll_UsesOverrideURLForProbe(t *testing.T) {
	store := settings.NewMemory()
	tunnel, ai := testBuiltins()

	if err := store.Set(settings.TunnelOverrideKey("vizual-x"), "https://custom.example"); err != nil {
		t.Fatal(err)
	}

	prober := &fakeProber{statuses: map[string]Status{"https://custom.example": StatusOnline}}
	m := NewMonitor(prober, store, WithBuiltins(tunnel, ai))

	report := m.RefreshAll(context.Background())

	if report.Statuses["vizual-x"] != StatusOnline {
		t.Error("probe should hit the override URL, not the built-in default")
	}

	for _, url := range prober.probed {
		if url == "https://vizual-x.com" {
			t.Error("built-in URL probed despite an override being set")
		}
	}
}

func TestMonitor_AddCustom_Validation(t *testing.T) {
	tests := []struct {
		name  string
		label string
		url   string
	}{
		{"empty label", "", "https://x.com"},
		{"whitespace label", "   ", "https://x.com"},
		{"empty url", "X", ""},
		{"relative url", "X", "not-a-url"},
		{"missing host", "X", "https://"},
		{"wrong scheme", "X", "ftp://x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := settings.NewMemory()
			m := NewMonitor(&fakeProber{}, store)

			if _, err := m.AddCustom(tt.label, tt.url); err == nil {
				t.Fatal("AddCustom() should reject invalid input")
			}

			if got := len(Customs(store)); got != 0 {
				t.Errorf("custom list mutated on validation failure: %d entries", got)
			}
		})
	}
}

func TestMonitor_AddCustom_AppendsWithFreshID(t *testing.T) {
	store := settings.NewMemory()
	m := NewMonitor(&fakeProber{}, store)

	first, err := m.AddCustom("X", "https://x.com")
	if err != nil {
		t.Fatalf("AddCustom() error = %v", err)
	}

	second, err := m.AddCustom("Y", "https://y.com")
	if err != nil {
		t.Fatalf("AddCustom() error = %v", err)
	}

	if first.ID == "" || !strings.HasPrefix(first.ID, "custom-") {
		t.Errorf("generated id = %q, want custom- prefix", first.ID)
	}

	if first.ID == second.ID {
		t.Errorf("ids should differ, both = %q", first.ID)
	}

	customs := Customs(store)
	if len(customs) != 2 {
		t.Fatalf("custom list has %d entries, want 2", len(customs))
	}

	if customs[0].Label != "X" || customs[1].Label != "Y" {
		t.Errorf("customs out of order: %+v", customs)
	}
}

func TestMonitor_ClearCustom(t *testing.T) {
	store := settings.NewMemory()
	m := NewMonitor(&fakeProber{}, store)

	if _, err := m.AddCustom("X", "https://x.com"); err != nil {
		t.Fatal(err)
	}

	if err := m.ClearCustom(); err != nil {
		t.Fatalf("ClearCustom() error = %v", err)
	}

	if got := len(Customs(store)); got != 0 {
		t.Errorf("custom list has %d entries after clear, want 0", got)
	}
}

func TestCustoms_MalformedJSONIsEmpty(t *testing.T) {
	store := settings.NewMemory()
	if err := store.Set(settings.KeyCustomEndpoints, "{broken"); err != nil {
		t.Fatal(err)
	}

	if got := Customs(store); got != nil {
		t.Errorf("Customs() on malformed JSON = %v, want nil", got)
	}
}

func TestMonitor_SetTunnelOverride(t *testing.T) {
	store := settings.NewMemory()
	m := NewMonitor(&fakeProber{}, store)

	if err := m.SetTunnelOverride("vizual-x", "https://custom.example"); err != nil {
		t.Fatalf("SetTunnelOverride() error = %v", err)
	}

	if got := store.Get(settings.TunnelOverrideKey("vizual-x")); got != "https://custom.example" {
		t.Errorf("override = %q", got)
	}

	if err := m.SetTunnelOverride("vizual-x", "not-a-url"); err == nil {
		t.Error("SetTunnelOverride() should reject malformed URLs")
	}

	if err := m.SetTunnelOverride("vizual-x", ""); err != nil {
		t.Fatalf("clearing override error = %v", err)
	}

	if got := store.Get(settings.TunnelOverrideKey("vizual-x")); got != "" {
		t.Errorf("override after clear = %q, want empty", got)
	}
}
