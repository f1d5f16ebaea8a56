package dash

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vizual-ai/vizdash/internal/gateway"
	"github.com/vizual-ai/vizdash/internal/github"
	"github.com/vizual-ai/vizdash/internal/settings"
	"github.com/vizual-ai/vizdash/internal/state"
)

// Source assembles dashboard Data from the snapshot loader, the GitHub
// API, and the endpoint monitor. Every fetch is best-effort: a failed
// call logs at debug level and leaves its slice of the Data zero.
type Source struct {
	Org      string
	Theme    string
	Monitor  *gateway.Monitor
	Loader   *state.Loader
	GitHub   *github.Client
	Settings settings.Store
}

// Load fetches everything except probe results. Snapshots and API
// calls run concurrently; the slowest call bounds the load.
func (s *Source) Load(ctx context.Context) Data {
	data := Data{
		Org:             s.Org,
		Theme:           s.Theme,
		TokenPresent:    s.GitHub.HasToken(),
		CustomEndpoints: len(gateway.Customs(s.Settings)),
		LoadedAt:        time.Now(),
	}

	var wg sync.WaitGroup

	wg.Go(func() {
		data.Index = s.Loader.OrgIndex(ctx)
	})

	wg.Go(func() {
		data.Projects = s.Loader.ProjectMap(ctx)
	})

	wg.Go(func() {
		data.Memory = s.Loader.Memory(ctx)
	})

	if s.GitHub.HasToken() {
		wg.Go(func() {
			user, err := s.GitHub.ValidateToken(ctx)
			if err != nil {
				slog.Debug("token validation failed", "error", err)
				return
			}

			data.TokenUser = user.Login
		})

		wg.Go(func() {
			alerts, err := s.GitHub.SecretScanningAlerts(ctx, s.Org)
			if err != nil {
				slog.Debug("secret scanning fetch failed", "error", err)
				return
			}

			data.SecretAlerts = len(alerts)
		})

		wg.Go(func() {
			alerts, err := s.GitHub.CodeScanningAlerts(ctx, s.Org)
			if err != nil {
				slog.Debug("code scanning fetch failed", "error", err)
				return
			}

			data.CodeAlerts = len(alerts)
		})
	}

	wg.Wait()

	if s.GitHub.HasToken() {
		s.loadLive(ctx, &data)
	}

	return data
}

// loadLive augments snapshot data with live API reads: boards, org
// webhooks and members, and per-repo pull requests and workflow runs
// for the lead repository. When no snapshot index loaded at all, the
// index itself is rebuilt from the repository listing first so the
// dashboard is not empty between snapshot publishes.
func (s *Source) loadLive(ctx context.Context, data *Data) {
	if len(data.Index.Repos) == 0 {
		repos, err := s.GitHub.OrgRepos(ctx, s.Org)
		if err != nil {
			slog.Debug("live repo listing failed", "error", err)
		} else if len(repos) > 0 {
			data.Index = state.OrgIndex{Org: s.Org, Repos: liveIndex(repos)}
			data.LiveIndex = true
		}
	}

	var wg sync.WaitGroup

	wg.Go(func() {
		boards, err := s.GitHub.OrgProjects(ctx, s.Org)
		if err != nil {
			slog.Debug("project board listing failed", "error", err)
			return
		}

		data.Boards = boards
	})

	wg.Go(func() {
		hooks, err := s.GitHub.OrgWebhooks(ctx, s.Org)
		if err != nil {
			slog.Debug("webhook listing failed", "error", err)
			return
		}

		data.Webhooks = hooks
	})

	wg.Go(func() {
		members, err := s.GitHub.OrgMembers(ctx, s.Org)
		if err != nil {
			slog.Debug("member listing failed", "error", err)
			return
		}

		data.Members = members
	})

	if len(data.Index.Repos) > 0 {
		lead := data.Index.Repos[0].Name

		wg.Go(func() {
			prs, err := s.GitHub.PullRequests(ctx, s.Org, lead)
			if err != nil {
				slog.Debug("pull request listing failed", "repo", lead, "error", err)
				return
			}

			data.PRs = prs
		})

		wg.Go(func() {
			runs, err := s.GitHub.WorkflowRuns(ctx, s.Org, lead)
			if err != nil {
				slog.Debug("workflow run listing failed", "repo", lead, "error", err)
				return
			}

			data.Runs = runs
		})
	}

	wg.Wait()
}

// liveIndex converts API repository listings into index entries so the
// renderers never care where the index came from.
func liveIndex(repos []github.Repo) []state.RepoEntry {
	entries := make([]state.RepoEntry, 0, len(repos))

	for _, repo := range repos {
		entries = append(entries, state.RepoEntry{
			Name:        repo.Name,
			Description: repo.Description,
			URL:         repo.URL,
			Private:     repo.IsPrivate,
			Archived:    repo.IsArchived,
			Fork:        repo.IsFork,
			Stars:       repo.Stars,
			PushedAt:    repo.PushedAt,
			Language:    repo.Language,
			Topics:      repo.Topics,
			OpenPRs:     repo.OpenPRs,
			OpenIssues:  repo.OpenIssues,
		})
	}

	return entries
}

// Refresh runs one probe batch.
func (s *Source) Refresh(ctx context.Context) gateway.Report {
	return s.Monitor.RefreshAll(ctx)
}
