// Package update keeps the installed vizdash binary current. Releases
// are published to GitHub Releases with a checksums.txt; the updater
// detects the latest matching release for this platform, verifies the
// checksum, and swaps the binary in place.
package update

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	selfupdate "github.com/creativeprojects/go-selfupdate"
)

const repoSlug = "vizual-ai/vizdash"

// IsDisabled reports whether update checks are turned off via
// VIZDASH_UPDATE_DISABLED.
func IsDisabled() bool {
	v := os.Getenv("VIZDASH_UPDATE_DISABLED")
	return v == "1" || strings.EqualFold(v, "true")
}

// Info is the result of a release check.
type Info struct {
	CurrentVersion  string `json:"currentVersion"`
	LatestVersion   string `json:"latestVersion"`
	UpdateAvailable bool   `json:"updateAvailable"`
	ReleaseURL      string `json:"releaseURL,omitempty"`

	// Release carries the underlying release metadata for Apply. Nil
	// when no release matched this platform.
	Release *selfupdate.Release `json:"-"`
}

// Updater checks for and applies releases.
type Updater struct {
	updater *selfupdate.Updater
}

// NewUpdater creates an Updater bound to the vizdash release repo.
// GITHUB_TOKEN, when set, lifts the unauthenticated rate limit.
func NewUpdater() (*Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{
		APIToken: os.Getenv("GITHUB_TOKEN"),
	})
	if err != nil {
		return nil, fmt.Errorf("create github source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:    source,
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	})
	if err != nil {
		return nil, fmt.Errorf("create updater: %w", err)
	}

	return &Updater{updater: updater}, nil
}

// CheckLatest looks up the newest release for this platform and
// compares it against currentVersion.
func (u *Updater) CheckLatest(ctx context.Context, currentVersion string) (*Info, error) {
	latest, found, err := u.updater.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return nil, fmt.Errorf("detect latest release: %w", err)
	}

	if !found {
		return &Info{CurrentVersion: currentVersion, LatestVersion: currentVersion}, nil
	}

	return &Info{
		CurrentVersion:  currentVersion,
		LatestVersion:   latest.Version(),
		ReleaseURL:      latest.URL,
		Release:         latest,
		UpdateAvailable: newerThan(currentVersion, latest.Version()),
	}, nil
}

// newerThan reports whether latest is strictly newer semver than
// current. An unparseable current version counts as outdated so a
// stray dev build still offers the update; an unparseable latest
// never does.
func newerThan(current, latest string) bool {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return true
	}

	lat, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}

	return lat.GreaterThan(cur)
}

// Apply downloads and installs the release over the current binary.
func (u *Updater) Apply(ctx context.Context, release *selfupdate.Release) error {
	execPath, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("find executable path: %w", err)
	}

	if err := u.updater.UpdateTo(ctx, release, execPath); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	return nil
}

// ApplyVersion installs one specific version, for pinning or
// rollback.
func (u *Updater) ApplyVersion(ctx context.Context, version string) (*selfupdate.Release, error) {
	release, found, err := u.updater.DetectVersion(ctx, selfupdate.ParseSlug(repoSlug), version)
	if err != nil {
		return nil, fmt.Errorf("detect version %s: %w", version, err)
	}

	if !found {
		return nil, fmt.Errorf("version %s not found", version)
	}

	if err := u.Apply(ctx, release); err != nil {
		return nil, err
	}

	return release, nil
}
