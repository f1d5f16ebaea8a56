// Package testutil provides testing utilities for the vizdash CLI.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// LoadFixture reads a file from the package's testdata directory.
func LoadFixture(t *testing.T, filename string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", filename, err)
	}

	return data
}

// LoadFixtureString reads a testdata file as a string.
func LoadFixtureString(t *testing.T, filename string) string {
	t.Helper()

	return string(LoadFixture(t, filename))
}

// WriteFixture writes content to a file under dir, creating parents.
// Useful for assembling temp config and cache trees in tests.
func WriteFixture(t *testing.T, dir, filename, content string) string {
	t.Helper()

	path := filepath.Join(dir, filename)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", filename, err)
	}

	return path
}
