// Package settings persists client-local dashboard state under fixed keys.
//
// The store holds the user's org override, theme, tunnel URL overrides,
// and the custom endpoint list. Values are plain strings; structured
// values (the custom endpoint list) are stored as JSON strings and
// decoded by their owners. Readers tolerate a missing or corrupt file
// by treating every key as absent — settings are never fatal.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vizual-ai/vizdash/internal/paths"
)

// Fixed keys used by the dashboard.
const (
	KeyOrg             = "org"
	KeyTheme           = "theme"
	KeyCustomEndpoints = "gateway.custom"
)

// TunnelOverrideKey returns the settings key holding the saved URL
// override for a built-in tunnel endpoint.
func TunnelOverrideKey(id string) string {
	return "tunnel." + id + ".url"
}

// Store is a client-local key-value settings store.
type Store interface {
	// Get returns the value for key, or "" when absent.
	Get(key string) string
	// Set stores value under key.
	Set(key, value string) error
	// Clear removes key from the store.
	Clear(key string) error
}

// FileStore persists settings as a flat YAML map.
//
// Writes are read-modify-write with no cross-process locking; two
// concurrent vizdash processes can overwrite each other's saves.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// Open loads the settings file at the default path.
func Open() (*FileStore, error) {
	path, err := paths.SettingsFile()
	if err != nil {
		return nil, fmt.Errorf("resolve settings path: %w", err)
	}

	return OpenPath(path), nil
}

// OpenPath loads the settings file at path. A missing or unparsable
// file yields an empty store.
func OpenPath(path string) *FileStore {
	s := &FileStore{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		// Corrupt settings are treated as empty, not fatal.
		return s
	}

	if values != nil {
		s.values = values
	}

	return s
}

// Get returns the value for key, or "" when absent.
func (s *FileStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.values[key]
}

// Set stores value under key and persists the file.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	return s.flushLocked()
}

// Clear removes key and persists the file.
func (s *FileStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}

	delete(s.values, key)

	return s.flushLocked()
}

// Keys returns all stored keys in sorted order.
func (s *FileStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func (s *FileStore) flushLocked() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// Memory is an in-memory Store for tests and ephemeral sessions.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

// Get returns the value for key, or "" when absent.
func (m *Memory) Get(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.values[key]
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

// Clear removes key.
func (m *Memory) Clear(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}
