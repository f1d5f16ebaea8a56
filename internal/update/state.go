package update

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/vizual-ai/vizdash/internal/paths"
)

// Release checks hit the GitHub API unauthenticated, so one per day
// is plenty for a dashboard CLI.
const checkInterval = 24 * time.Hour

// State is the cached outcome of the last release check. It lives in
// the user state directory so background checks carry across runs.
type State struct {
	LastCheckedAt  time.Time `json:"lastCheckedAt"`
	LatestVersion  string    `json:"latestVersion,omitempty"`
	CurrentVersion string    `json:"currentVersion,omitempty"`
	ReleaseURL     string    `json:"releaseURL,omitempty"`
}

// LoadState reads the cached check state. A missing, unreadable path
// or corrupted file reads as a zero state; the caller just checks
// again.
func LoadState() (*State, error) {
	path, err := paths.UpdateStateFile()
	if err != nil {
		return &State{}, nil //nolint:nilerr // graceful: unresolvable path reads as empty state
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from controlled state directory
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}

		return nil, fmt.Errorf("read update state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return &State{}, nil //nolint:nilerr // graceful: corrupted state file reads as empty state
	}

	return &state, nil
}

// SaveState persists the check state.
func SaveState(state *State) error {
	path, err := paths.UpdateStateFile()
	if err != nil {
		return fmt.Errorf("resolve update state path: %w", err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal update state: %w", err)
	}

	return writeFileAtomic(path, data)
}

// RecordCheck caches the outcome of a release check keyed to the
// version that ran it. Both the foreground update command and the
// background check write through here.
func RecordCheck(currentVersion string, info *Info) error {
	return SaveState(&State{
		LastCheckedAt:  time.Now(),
		LatestVersion:  info.LatestVersion,
		CurrentVersion: currentVersion,
		ReleaseURL:     info.ReleaseURL,
	})
}

// writeFileAtomic stages data in a unique temp file and renames it
// over path, creating the parent directory as needed. Rename is
// atomic on Unix; on Windows the destination may still exist, so a
// failed rename removes it and retries once.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tmp := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmp)

		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmp, path); err == nil {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		_ = os.Remove(tmp)
		return fmt.Errorf("remove existing state file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

// ShouldCheck reports whether the last check is old enough to repeat.
func (s *State) ShouldCheck() bool {
	if s.LastCheckedAt.IsZero() {
		return true
	}

	return time.Since(s.LastCheckedAt) >= checkInterval
}

// HasUpdate reports whether the cached latest version is strictly
// newer than current. Unparseable versions on either side read as no
// update; the notice must never fire on a dev build.
func (s *State) HasUpdate(currentVersion string) bool {
	if s.LatestVersion == "" || currentVersion == "" {
		return false
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return false
	}

	latest, err := semver.NewVersion(s.LatestVersion)
	if err != nil {
		return false
	}

	return latest.GreaterThan(current)
}
