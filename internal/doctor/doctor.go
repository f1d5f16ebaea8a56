// Package doctor provides diagnostic checks for vizdash CLI health.
//
// This package implements a check framework that validates:
//   - GitHub API connectivity and response time
//   - Authentication status and credential source
//   - Snapshot state availability
//   - Gateway tunnel reachability
//   - Offline cache generations
//   - CLI version against latest release
package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vizual-ai/vizdash/internal/auth"
	"github.com/vizual-ai/vizdash/internal/buildinfo"
	"github.com/vizual-ai/vizdash/internal/cache"
	"github.com/vizual-ai/vizdash/internal/config"
	"github.com/vizual-ai/vizdash/internal/gateway"
	"github.com/vizual-ai/vizdash/internal/github"
	"github.com/vizual-ai/vizdash/internal/paths"
	"github.com/vizual-ai/vizdash/internal/settings"
	"github.com/vizual-ai/vizdash/internal/state"
	"github.com/vizual-ai/vizdash/internal/update"
)

// Status represents the result of a diagnostic check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical failure.
	StatusFail
)

// Result holds the outcome of a single check.
type Result struct {
	Name    string
	Status  Status
	Message string
	Detail  string // Optional additional detail
}

// Check is a diagnostic check function.
type Check func(ctx context.Context) Result

// Runner executes diagnostic checks.
type Runner struct {
	checks []namedCheck
}

type namedCheck struct {
	name  string
	check Check
}

// New creates a new diagnostic runner.
func New() *Runner {
	r := &Runner{}

	// Register default checks
	r.AddCheck("GitHub API", checkAPIConnectivity)
	r.AddCheck("Authentication", checkAuthentication)
	r.AddCheck("Snapshot State", checkSnapshotState)
	r.AddCheck("Gateway", checkGateway)
	r.AddCheck("Offline Cache", checkOfflineCache)
	r.AddCheck("CLI Version", checkCLIVersion)

	return r
}

// AddCheck registers a diagnostic check.
func (r *Runner) AddCheck(name string, check Check) {
	r.checks = append(r.checks, namedCheck{name: name, check: check})
}

// Run executes all registered checks and returns the results.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.checks))

	for _, nc := range r.checks {
		result := nc.check(ctx)
		result.Name = nc.name
		results = append(results, result)
	}

	return results
}

// Summary returns counts of passed, failed, and warning checks.
func Summary(results []Result) (passed, failed, warnings int) {
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusWarn:
			warnings++
		}
	}

	return passed, failed, warnings
}

// checkAPIConnectivity tests connection to the GitHub API. The rate
// limit endpoint answers unauthenticated requests, so this check works
// before any token is stored.
func checkAPIConnectivity(ctx context.Context) Result {
	cfg := config.Load()
	apiURL := cfg.APIURL()

	_, token := auth.GetToken()
	c := github.New(apiURL, cfg.GraphQLURL(), token)

	start := time.Now()

	limit, err := c.RateLimit(ctx)
	elapsed := time.Since(start)

	if err != nil {
		return Result{
			Status:  StatusFail,
			Message: apiURL,
			Detail:  err.Error(),
		}
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s (%dms, %d/%d requests remaining)", apiURL, elapsed.Milliseconds(), limit.Remaining, limit.Limit),
	}
}

// checkAuthentication validates the stored GitHub token.
func checkAuthentication(ctx context.Context) Result {
	source, token := auth.GetToken()

	if token == "" {
		return Result{
			Status:  StatusWarn,
			Message: "No token configured (unauthenticated mode)",
			Detail:  "Run 'vizdash auth login' to raise rate limits and enable security panels",
		}
	}

	cfg := config.Load()
	c := github.New(cfg.APIURL(), cfg.GraphQLURL(), token)

	user, err := c.ValidateToken(ctx)
	if err != nil {
		return Result{
			Status:  StatusFail,
			Message: fmt.Sprintf("Invalid token (via %s)", source),
			Detail:  err.Error(),
		}
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s (via %s)", user.Login, source),
	}
}

// checkSnapshotState verifies the published org index is reachable.
func checkSnapshotState(ctx context.Context) Result {
	cfg := config.Load()
	loader := state.NewLoader(cfg.SnapshotBase(), nil)

	index := loader.OrgIndex(ctx)
	if index.GeneratedAt.IsZero() {
		return Result{
			Status:  StatusWarn,
			Message: "Org index not reachable",
			Detail:  cfg.SnapshotBase() + "/state/org-index.json",
		}
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("%d repos, generated %s", len(index.Repos), index.GeneratedAt.Format("2006-01-02 15:04 MST")),
	}
}

// checkGateway probes the merged endpoint set once and reports tunnel
// reachability.
func checkGateway(ctx context.Context) Result {
	store, err := settings.Open()
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: "Could not open settings",
			Detail:  err.Error(),
		}
	}

	monitor := gateway.NewMonitor(gateway.NewHTTPProber(), store)
	report := monitor.RefreshAll(ctx)

	online := 0
	for _, status := range report.Statuses {
		if status == gateway.StatusOnline {
			online++
		}
	}

	message := fmt.Sprintf("%d/%d endpoints online", online, len(report.Endpoints))

	if !report.TunnelOnline {
		return Result{
			Status:  StatusWarn,
			Message: message,
			Detail:  "No tunnel endpoint reachable; the gateway panel will show degraded",
		}
	}

	return Result{
		Status:  StatusPass,
		Message: message,
	}
}

// checkOfflineCache inspects the on-disk cache generations.
func checkOfflineCache(ctx context.Context) Result {
	dir, err := paths.OfflineCacheDir()
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: "Could not resolve cache directory",
			Detail:  err.Error(),
		}
	}

	store, err := cache.NewDiskStore(dir)
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: "Could not open cache directory",
			Detail:  err.Error(),
		}
	}

	gens, err := store.Generations()
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: "Could not list cache generations",
			Detail:  err.Error(),
		}
	}

	if len(gens) == 0 {
		return Result{
			Status:  StatusWarn,
			Message: "No cached generations",
			Detail:  "Run 'vizdash sync' to precache the dashboard shell",
		}
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("%d generation(s): %s", len(gens), strings.Join(gens, ", ")),
	}
}

// checkCLIVersion checks the CLI version against the latest release.
func checkCLIVersion(ctx context.Context) Result {
	current := buildinfo.Version

	if current == "dev" {
		return Result{
			Status:  StatusWarn,
			Message: "Development build (version check skipped)",
		}
	}

	if update.IsDisabled() {
		return Result{
			Status:  StatusPass,
			Message: fmt.Sprintf("v%s (update checks disabled)", current),
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	updater, err := update.NewUpdater()
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("v%s (could not check for updates)", current),
			Detail:  err.Error(),
		}
	}

	info, err := updater.CheckLatest(checkCtx, current)
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("v%s (could not check for updates)", current),
			Detail:  err.Error(),
		}
	}

	if info.UpdateAvailable {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("v%s (v%s available)", current, info.LatestVersion),
			Detail:  "Run 'vizdash update' to update",
		}
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("v%s (latest)", current),
	}
}

// Symbol returns the status symbol for display.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return checkMark
	case StatusWarn:
		return warningMark
	case StatusFail:
		return xMark
	default:
		return "?"
	}
}

const (
	checkMark   = "✓" // ✓
	xMark       = "✗" // ✗
	warningMark = "⚠" // ⚠
)
