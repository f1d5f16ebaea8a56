package gateway

import (
	"context"
	"net/http"
	"time"
)

// DefaultProbeTimeout bounds a single probe.
const DefaultProbeTimeout = 5 * time.Second

// Prober checks whether a single endpoint is reachable.
type Prober interface {
	Probe(ctx context.Context, url string) Status
}

// HTTPProber probes endpoints with a HEAD request under a bounded
// timeout. Receipt of any response — regardless of status code —
// classifies the endpoint online: most monitored services (local model
// runtimes, tunnel gateways) reject or redirect HEAD requests, and a
// rejection still proves the server is up. Transport errors, DNS
// failures, and timeouts all classify offline; the distinction is not
// surfaced.
type HTTPProber struct {
	// Client defaults to a redirect-suppressing http.Client.
	Client *http.Client
	// Timeout defaults to DefaultProbeTimeout.
	Timeout time.Duration
}

// NewHTTPProber returns a prober with the default client and timeout.
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{}
}

// Probe issues a HEAD request to url and classifies the outcome.
func (p *HTTPProber) Probe(ctx context.Context, url string) Status {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		return StatusOffline
	}

	resp, err := p.client().Do(req)
	if err != nil {
		return StatusOffline
	}

	// Any response is proof of reachability; the body is irrelevant.
	resp.Body.Close()

	return StatusOnline
}

func (p *HTTPProber) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}

	return defaultProbeClient
}

// defaultProbeClient does not follow redirects: a 3xx from the origin
// already answers the reachability question, and following it could
// charge a second host's latency against the first's probe budget.
var defaultProbeClient = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
}
