package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProber_AnyResponseIsOnline(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"ok", http.StatusOK},
		{"no content", http.StatusNoContent},
		{"redirect", http.StatusFound},
		{"method not allowed", http.StatusMethodNotAllowed},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("method = %q, want HEAD", r.Method)
				}

				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			p := NewHTTPProber()

			if got := p.Probe(context.Background(), server.URL); got != StatusOnline {
				t.Errorf("Probe() = %q, want %q (status %d still proves reachability)", got, StatusOnline, tt.statusCode)
			}
		})
	}
}

func TestHTTPProber_UnreachableIsOffline(t *testing.T) {
	// Grab a port that nothing is listening on.
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p := NewHTTPProber()

	if got := p.Probe(context.Background(), url); got != StatusOffline {
		t.Errorf("Probe() = %q, want %q", got, StatusOffline)
	}
}

func TestHTTPProber_TimeoutIsOffline(t *testing.T) {
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	p := &HTTPProber{Timeout: 50 * time.Millisecond}

	start := time.Now()
	got := p.Probe(context.Background(), server.URL)
	elapsed := time.Since(start)

	if got != StatusOffline {
		t.Errorf("Probe() = %q, want %q", got, StatusOffline)
	}

	if elapsed > 2*time.Second {
		t.Errorf("Probe() took %v, timeout did not bound the probe", elapsed)
	}
}

func TestHTTPProber_InvalidURLIsOffline(t *testing.T) {
	p := NewHTTPProber()

	if got := p.Probe(context.Background(), "http://invalid url with spaces"); got != StatusOffline {
		t.Errorf("Probe() = %q, want %q", got, StatusOffline)
	}
}

func TestHTTPProber_DoesNotFollowRedirects(t *testing.T) {
	var followed bool

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		followed = true
	}))
	defer target.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusMovedPermanently)
	}))
	defer server.Close()

	p := NewHTTPProber()

	if got := p.Probe(context.Background(), server.URL); got != StatusOnline {
		t.Errorf("Probe() = %q, want %q", got, StatusOnline)
	}

	if followed {
		t.Error("probe should not follow redirects")
	}
}
