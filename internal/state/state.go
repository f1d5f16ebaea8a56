// Package state loads the published dashboard snapshots: the org
// repository index, the project map, and the shared memory snapshot.
//
// Snapshots are static JSON published alongside the dashboard. The
// loader is deliberately tolerant: a missing, unreachable, or malformed
// snapshot yields a zero value so every section still renders, just
// empty. The HTTP client is injected so the offline cache manager can
// sit underneath it.
package state

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// OrgIndex is the published repository index for the org.
type OrgIndex struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	Org         string      `json:"org"`
	Repos       []RepoEntry `json:"repos"`
}

// RepoEntry is one repository in the published index, flattened for
// rendering. The wire document keeps the GraphQL nesting the snapshot
// producer emits (stargazerCount, primaryLanguage.name, nested
// totalCount objects); UnmarshalJSON flattens it.
type RepoEntry struct {
	Name        string
	Description string
	URL         string
	Private     bool
	Archived    bool
	Fork        bool
	Stars       int
	PushedAt    time.Time
	Language    string
	Topics      []string
	OpenPRs     int
	OpenIssues  int
}

func (r *RepoEntry) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name            string    `json:"name"`
		Description     string    `json:"description"`
		URL             string    `json:"url"`
		IsPrivate       bool      `json:"isPrivate"`
		IsArchived      bool      `json:"isArchived"`
		IsFork          bool      `json:"isFork"`
		StargazerCount  int       `json:"stargazerCount"`
		PushedAt        time.Time `json:"pushedAt"`
		PrimaryLanguage *struct {
			Name string `json:"name"`
		} `json:"primaryLanguage"`
		RepositoryTopics []string `json:"repositoryTopics"`
		OpenPullRequests struct {
			TotalCount int `json:"totalCount"`
		} `json:"openPullRequests"`
		OpenIssues struct {
			TotalCount int `json:"totalCount"`
		} `json:"openIssues"`
	}

	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*r = RepoEntry{
		Name:        wire.Name,
		Description: wire.Description,
		URL:         wire.URL,
		Private:     wire.IsPrivate,
		Archived:    wire.IsArchived,
		Fork:        wire.IsFork,
		Stars:       wire.StargazerCount,
		PushedAt:    wire.PushedAt,
		Topics:      wire.RepositoryTopics,
		OpenPRs:     wire.OpenPullRequests.TotalCount,
		OpenIssues:  wire.OpenIssues.TotalCount,
	}

	if wire.PrimaryLanguage != nil {
		r.Language = wire.PrimaryLanguage.Name
	}

	return nil
}

// ProjectMap is the published project board snapshot.
type ProjectMap struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Columns     []Column  `json:"columns"`
}

// Column is one project board column.
type Column struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Color string     `json:"color"`
	Items []WorkItem `json:"items"`
}

// WorkItem is one card on the project board.
type WorkItem struct {
	Title string `json:"title"`
	Repo  string `json:"repo"`
	Type  string `json:"type"`
}

// MemorySnapshot is the published shared-memory snapshot.
type MemorySnapshot struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Entries     []MemoryEntry `json:"entries"`
}

// MemoryEntry is one entry in the shared memory snapshot.
type MemoryEntry struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
}

// Snapshot file names under <base>/state/.
const (
	orgIndexFile   = "org-index.json"
	projectMapFile = "project-map.json"
	memoryFile     = "memory.json"
)

// Loader fetches snapshots from a published dashboard base URL.
type Loader struct {
	base   string
	client *http.Client
}

// NewLoader creates a loader for base (e.g. the dashboard's pages URL).
// A nil client falls back to http.DefaultClient.
func NewLoader(base string, client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}

	return &Loader{base: base, client: client}
}

// OrgIndex loads the repository index snapshot.
func (l *Loader) OrgIndex(ctx context.Context) OrgIndex {
	var index OrgIndex
	if !l.fetch(ctx, orgIndexFile, &index) {
		return OrgIndex{}
	}

	return index
}

// ProjectMap loads the project board snapshot.
func (l *Loader) ProjectMap(ctx context.Context) ProjectMap {
	var pm ProjectMap
	if !l.fetch(ctx, projectMapFile, &pm) {
		return ProjectMap{}
	}

	return pm
}

// Memory loads the shared memory snapshot.
func (l *Loader) Memory(ctx context.Context) MemorySnapshot {
	var mem MemorySnapshot
	if !l.fetch(ctx, memoryFile, &mem) {
		return MemorySnapshot{}
	}

	return mem
}

// fetch loads one snapshot into out. It reports false on any failure
// so the caller can discard a partially decoded value.
func (l *Loader) fetch(ctx context.Context, file string, out any) bool {
	url := l.base + "/state/" + file

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		slog.Debug("snapshot request failed", "url", url, "error", err)
		return false
	}

	resp, err := l.client.Do(req)
	if err != nil {
		slog.Debug("snapshot fetch failed", "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("snapshot fetch returned non-200", "url", url, "status", resp.StatusCode)
		io.Copy(io.Discard, resp.Body)

		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Debug("snapshot parse failed", "url", url, "error", err)
		return false
	}

	return true
}
