// Package cache implements the offline response cache behind the
// dashboard's snapshot and shell fetches.
//
// Responses are stored in named generations, one directory per
// generation under the user cache root. A Manager owns a shell and an
// api generation, precaches the application shell as one all-or-nothing
// install, and classifies requests into network-first, cache-first, or
// stale-while-revalidate handling.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// Entry is one cached HTTP response.
type Entry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header,omitempty"`
	Body   []byte      `json:"body,omitempty"`
}

// Store persists response entries in named generations.
type Store interface {
	Get(gen, key string) (Entry, bool, error)
	Put(gen, key string, entry Entry) error
	Generations() ([]string, error)
	DeleteGeneration(gen string) error
}

// Key derives the store key for a request: a digest of the method and
// full URL. Two requests map to the same entry iff both match.
func Key(method, url string) string {
	sum := sha256.Sum256([]byte(method + " " + url))
	return hex.EncodeToString(sum[:])
}

// DiskStore keeps one directory per generation and one JSON envelope
// file per entry. Writes go through a temp file and rename so a
// crashed write never leaves a truncated entry behind.
type DiskStore struct {
	root string
	mu   sync.Mutex
}

// NewDiskStore creates a store rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}

	return &DiskStore{root: dir}, nil
}

// Get loads the entry for key from gen.
func (s *DiskStore) Get(gen, key string) (Entry, bool, error) {
	data, err := os.ReadFile(s.entryPath(gen, key))
	if os.IsNotExist(err) {
		return Entry{}, false, nil
	}

	if err != nil {
		return Entry{}, false, fmt.Errorf("read cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt envelope counts as a miss; the next Put overwrites it.
		return Entry{}, false, nil
	}

	return entry, true, nil
}

// Put stores the entry for key in gen, creating the generation
// directory on first use.
func (s *DiskStore) Put(gen, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	genDir := filepath.Join(s.root, gen)
	if err := os.MkdirAll(genDir, 0o755); err != nil {
		return fmt.Errorf("create generation %s: %w", gen, err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(genDir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("stage cache entry: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("write cache entry: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache entry: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.entryPath(gen, key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit cache entry: %w", err)
	}

	return nil
}

// Generations lists the generation names present on disk.
func (s *DiskStore) Generations() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}

	var gens []string

	for _, e := range entries {
		if e.IsDir() {
			gens = append(gens, e.Name())
		}
	}

	return gens, nil
}

// DeleteGeneration removes a generation and every entry in it.
func (s *DiskStore) DeleteGeneration(gen string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(s.root, gen)); err != nil {
		return fmt.Errorf("delete generation %s: %w", gen, err)
	}

	return nil
}

func (s *DiskStore) entryPath(gen, key string) string {
	return filepath.Join(s.root, gen, key+".json")
}
