package main

import (
	"net/http"
	"net/url"

	"github.com/vizual-ai/vizdash/internal/auth"
	"github.com/vizual-ai/vizdash/internal/cache"
	"github.com/vizual-ai/vizdash/internal/config"
	"github.com/vizual-ai/vizdash/internal/dash"
	clierrors "github.com/vizual-ai/vizdash/internal/errors"
	"github.com/vizual-ai/vizdash/internal/gateway"
	"github.com/vizual-ai/vizdash/internal/github"
	"github.com/vizual-ai/vizdash/internal/paths"
	"github.com/vizual-ai/vizdash/internal/settings"
	"github.com/vizual-ai/vizdash/internal/state"
)

// newGitHubClient creates a GitHub client from stored credentials and
// the configured API URLs. A missing token is not an error: the client
// degrades to unauthenticated requests and the dashboard renders what
// it can.
func newGitHubClient(cfg *config.Config) (auth.TokenSource, *github.Client) {
	source, token := auth.GetToken()
	return source, github.New(cfg.APIURL(), cfg.GraphQLURL(), token)
}

// newValidationClient creates a client for a token that is not stored
// yet (the login flow validates before persisting).
func newValidationClient(cfg *config.Config, token string) *github.Client {
	return github.New(cfg.APIURL(), cfg.GraphQLURL(), token)
}

// newMonitor builds the endpoint monitor over the persisted settings.
func newMonitor(cfg *config.Config) (*gateway.Monitor, settings.Store, error) {
	store, err := settings.Open()
	if err != nil {
		return nil, nil, clierrors.ConfigFailed("open settings", err)
	}

	prober := &gateway.HTTPProber{Timeout: cfg.ProbeTimeout()}

	return gateway.NewMonitor(prober, store), store, nil
}

// newSource assembles the full dashboard data source: snapshot loader,
// GitHub client, endpoint monitor, and settings, all sharing one
// offline-cache transport when a cache generation is active.
func newSource(cfg *config.Config) (*dash.Source, error) {
	monitor, store, err := newMonitor(cfg)
	if err != nil {
		return nil, err
	}

	transport := newCacheTransport(cfg)

	httpClient := &http.Client{Transport: transport, Timeout: github.DefaultTimeout}

	_, token := auth.GetToken()
	client := github.NewWithHTTPClient(cfg.APIURL(), cfg.GraphQLURL(), token, httpClient)

	org := cfg.Org()
	if override := store.Get(settings.KeyOrg); override != "" {
		org = override
	}

	theme := cfg.Theme()
	if override := store.Get(settings.KeyTheme); override != "" {
		theme = override
	}

	return &dash.Source{
		Org:      org,
		Theme:    theme,
		Monitor:  monitor,
		Loader:   state.NewLoader(cfg.SnapshotBase(), httpClient),
		GitHub:   client,
		Settings: store,
	}, nil
}

// newCacheTransport builds the offline cache manager as an HTTP
// transport. If the shell generation for this release is already on
// disk the manager activates immediately; otherwise it stays in the
// installing state and passes requests through until 'vizdash sync'
// installs it. Any setup failure degrades to the default transport.
func newCacheTransport(cfg *config.Config) http.RoundTripper {
	dir, err := paths.OfflineCacheDir()
	if err != nil {
		return http.DefaultTransport
	}

	store, err := cache.NewDiskStore(dir)
	if err != nil {
		return http.DefaultTransport
	}

	manager := newCacheManager(cfg, store)

	gens, err := store.Generations()
	if err != nil {
		return manager
	}

	for _, gen := range gens {
		if gen == shellGeneration() {
			_ = manager.Activate()
			break
		}
	}

	return manager
}

func newCacheManager(cfg *config.Config, store cache.Store) *cache.Manager {
	policy := cache.Policy{
		APIHost:        hostOf(cfg.APIURL()),
		CDNHost:        cfg.CDNHost(),
		SnapshotMarker: "/state/",
	}

	return cache.NewManager(store, nil, policy, shellGeneration(), apiGeneration())
}

// Generation names are tied to the release so an upgrade supersedes the
// previous install's cache on Activate.
func shellGeneration() string {
	return "shell-" + version
}

func apiGeneration() string {
	return "api-" + version
}

func hostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}

	return rawURL
}
