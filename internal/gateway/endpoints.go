// Package gateway monitors the reachability of the tunnel and AI
// endpoints shown in the dashboard's gateway and vault panels.
//
// Endpoints come from three sources, merged in fixed order: built-in
// tunnel endpoints (each possibly overridden by a saved URL), built-in
// AI provider endpoints, and user-added custom endpoints persisted in
// the settings store. One probe batch produces one status report; every
// panel renders from that same report.
package gateway

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	clierrors "github.com/vizual-ai/vizdash/internal/errors"
	"github.com/vizual-ai/vizdash/internal/settings"
)

// Status is the probe outcome for a single endpoint.
type Status string

// Probe status values. Checking is the transient pre-probe state; a
// settled batch contains only online and offline.
const (
	StatusChecking Status = "checking"
	StatusOnline   Status = "online"
	StatusOffline  Status = "offline"
)

// Group partitions endpoints across the two dashboard panels.
type Group string

// Endpoint groups. Tunnel endpoints render in the gateway panel,
// everything else in the AI panel.
const (
	GroupTunnel Group = "cf"
	GroupAI     Group = "ai"
)

// Endpoint is a named, addressable HTTP(S) service monitored for
// reachability.
type Endpoint struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	URL    string `json:"url"`
	Icon   string `json:"icon"`
	Group  Group  `json:"group"`
	Custom bool   `json:"custom,omitempty"`
}

// builtinTunnel are the code-defined tunnel/gateway endpoints. Their
// ids are reserved; a saved settings override replaces the URL only.
var builtinTunnel = []Endpoint{
	{ID: "vizual-x", Label: "Vizual X Gateway", URL: "https://vizual-x.com", Icon: "⛩", Group: GroupTunnel},
	{ID: "vizual-relay", Label: "Vizual Relay", URL: "https://relay.vizual-x.com", Icon: "⇄", Group: GroupTunnel},
}

// builtinAI are the code-defined AI provider endpoints.
var builtinAI = []Endpoint{
	{ID: "openai", Label: "OpenAI API", URL: "https://api.openai.com", Icon: "◎", Group: GroupAI},
	{ID: "anthropic", Label: "Anthropic API", URL: "https://api.anthropic.com", Icon: "✳", Group: GroupAI},
	{ID: "openrouter", Label: "OpenRouter", URL: "https://openrouter.ai", Icon: "⌁", Group: GroupAI},
	{ID: "ollama", Label: "Ollama (local)", URL: "http://localhost:11434", Icon: "⬡", Group: GroupAI},
}

// BuiltinTunnel returns a copy of the built-in tunnel endpoints.
func BuiltinTunnel() []Endpoint {
	return append([]Endpoint(nil), builtinTunnel...)
}

// BuiltinAI returns a copy of the built-in AI endpoints.
func BuiltinAI() []Endpoint {
	return append([]Endpoint(nil), builtinAI...)
}

// Customs decodes the persisted custom endpoint list. A missing or
// malformed value is an empty list, never an error.
func Customs(store settings.Store) []Endpoint {
	raw := store.Get(settings.KeyCustomEndpoints)
	if raw == "" {
		return nil
	}

	var customs []Endpoint
	if err := json.Unmarshal([]byte(raw), &customs); err != nil {
		return nil
	}

	for i := range customs {
		customs[i].Custom = true
		if customs[i].Group == "" {
			customs[i].Group = GroupAI
		}
	}

	return customs
}

func saveCustoms(store settings.Store, customs []Endpoint) error {
	data, err := json.Marshal(customs)
	if err != nil {
		return fmt.Errorf("marshal custom endpoints: %w", err)
	}

	if err := store.Set(settings.KeyCustomEndpoints, string(data)); err != nil {
		return fmt.Errorf("save custom endpoints: %w", err)
	}

	return nil
}

// newCustomID generates a best-effort unique id for a custom endpoint.
// Collisions are not checked; built-in ids are reserved by the
// "custom-" prefix.
func newCustomID() string {
	return fmt.Sprintf("custom-%d-%04x", time.Now().UnixMilli(), rand.Uint32N(0x10000))
}

// validateEndpointInput rejects empty labels and non-absolute URLs
// before any state is touched.
func validateEndpointInput(label, rawURL string) error {
	if strings.TrimSpace(label) == "" {
		return clierrors.EndpointInvalid("label is required")
	}

	if strings.TrimSpace(rawURL) == "" {
		return clierrors.EndpointInvalid("url is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return clierrors.EndpointInvalid(fmt.Sprintf("url %q does not parse", rawURL))
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return clierrors.EndpointInvalid(fmt.Sprintf("url %q is not an absolute http(s) URL", rawURL))
	}

	return nil
}
