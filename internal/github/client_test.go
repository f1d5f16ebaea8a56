package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, token string, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewWithHTTPClient(server.URL, server.URL+"/graphql", token, server.Client())
}

func TestValidateToken(t *testing.T) {
	c := testClient(t, "ghp_testtoken", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("path = %q, want /user", r.URL.Path)
		}

		if got := r.Header.Get("Authorization"); got != "Bearer ghp_testtoken" {
			t.Errorf("Authorization = %q", got)
		}

		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"login":"octocat","name":"The Octocat"}`)
	}))

	user, err := c.ValidateToken(context.Background())
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if user.Login != "octocat" {
		t.Errorf("Login = %q, want octocat", user.Login)
	}
}

func TestValidateToken_Unauthorized(t *testing.T) {
	c := testClient(t, "ghp_expired", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"Bad credentials"}`)
	}))

	_, err := c.ValidateToken(context.Background())
	if err == nil {
		t.Fatal("ValidateToken() expected error for 401")
	}

	if !strings.Contains(err.Error(), "invalid or expired") {
		t.Errorf("error = %v, want invalid-token message", err)
	}
}

func TestNoBearerHeaderWithoutToken(t *testing.T) {
	c := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("Authorization header sent without a configured token")
		}

		io.WriteString(w, `{"resources":{"core":{"limit":60,"remaining":42,"reset":1700000000}}}`)
	}))

	if c.HasToken() {
		t.Error("HasToken() = true for empty token")
	}

	info, err := c.RateLimit(context.Background())
	if err != nil {
		t.Fatalf("RateLimit() error = %v", err)
	}

	if info.Remaining != 42 {
		t.Errorf("Remaining = %d, want 42", info.Remaining)
	}

	if info.Reset.Unix() != 1700000000 {
		t.Errorf("Reset = %v", info.Reset)
	}
}

func TestUnexpectedStatusTruncatesBody(t *testing.T) {
	c := testClient(t, "t", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, strings.Repeat("x", 4096))
	}))

	_, err := c.OrgMembers(context.Background(), "vizual-ai")
	if err == nil {
		t.Fatal("expected error for 502")
	}

	if len(err.Error()) > 700 {
		t.Errorf("error length = %d, diagnostic body should be truncated", len(err.Error()))
	}

	if !strings.Contains(err.Error(), "status 502") {
		t.Errorf("error = %v, want status code in message", err)
	}
}

func TestOrgRepos_Paginates(t *testing.T) {
	var pages int

	c := testClient(t, "t", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql" {
			t.Errorf("path = %q, want /graphql", r.URL.Path)
		}

		var req struct {
			Variables struct {
				Org   string `json:"org"`
				First int    `json:"first"`
				After any    `json:"after"`
			} `json:"variables"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}

		if req.Variables.Org != "vizual-ai" {
			t.Errorf("org = %q", req.Variables.Org)
		}

		if req.Variables.First != 50 {
			t.Errorf("first = %d, want 50", req.Variables.First)
		}

		pages++

		switch pages {
		case 1:
			if req.Variables.After != nil {
				t.Errorf("first page cursor = %v, want null", req.Variables.After)
			}

			io.WriteString(w, `{"data":{"organization":{"repositories":{
				"pageInfo":{"hasNextPage":true,"endCursor":"CUR1"},
				"nodes":[{"name":"dashboard","stargazerCount":12,
					"primaryLanguage":{"name":"TypeScript"},
					"repositoryTopics":{"nodes":[{"topic":{"name":"infra"}}]},
					"pullRequests":{"totalCount":3},"issues":{"totalCount":7}}]}}}}`)
		case 2:
			if req.Variables.After != "CUR1" {
				t.Errorf("second page cursor = %v, want CUR1", req.Variables.After)
			}

			io.WriteString(w, `{"data":{"organization":{"repositories":{
				"pageInfo":{"hasNextPage":false,"endCursor":""},
				"nodes":[{"name":"relay","isArchived":true,
					"repositoryTopics":{"nodes":[]},
					"pullRequests":{"totalCount":0},"issues":{"totalCount":0}}]}}}}`)
		default:
			t.Errorf("unexpected page %d", pages)
		}
	}))

	repos, err := c.OrgRepos(context.Background(), "vizual-ai")
	if err != nil {
		t.Fatalf("OrgRepos() error = %v", err)
	}

	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}

	if repos[0].Name != "dashboard" || repos[0].Stars != 12 || repos[0].Language != "TypeScript" {
		t.Errorf("repos[0] = %+v", repos[0])
	}

	if repos[0].OpenPRs != 3 || repos[0].OpenIssues != 7 {
		t.Errorf("counts = %d/%d, want 3/7", repos[0].OpenPRs, repos[0].OpenIssues)
	}

	if len(repos[0].Topics) != 1 || repos[0].Topics[0] != "infra" {
		t.Errorf("topics = %v", repos[0].Topics)
	}

	if !repos[1].IsArchived {
		t.Error("repos[1] should be archived")
	}
}

func TestOrgRepos_GraphQLErrorSurfaces(t *testing.T) {
	c := testClient(t, "t", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"errors":[{"message":"Could not resolve to an Organization"}]}`)
	}))

	_, err := c.OrgRepos(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for GraphQL errors array")
	}

	if !strings.Contains(err.Error(), "Could not resolve") {
		t.Errorf("error = %v, want GraphQL message", err)
	}
}

func TestOrgProjects(t *testing.T) {
	c := testClient(t, "t", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"organization":{"projectsV2":{"nodes":[
			{"number":1,"title":"Roadmap"},{"number":4,"title":"Bugs"}]}}}}`)
	}))

	projects, err := c.OrgProjects(context.Background(), "vizual-ai")
	if err != nil {
		t.Fatalf("OrgProjects() error = %v", err)
	}

	if len(projects) != 2 || projects[1].Title != "Bugs" {
		t.Errorf("projects = %+v", projects)
	}
}

func TestPullRequests(t *testing.T) {
	c := testClient(t, "t", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/vizual-ai/dashboard/pulls" {
			t.Errorf("path = %q", r.URL.Path)
		}

		if got := r.URL.Query().Get("state"); got != "open" {
			t.Errorf("state = %q, want open", got)
		}

		io.WriteString(w, `[{"number":42,"title":"Add vault panel","draft":true,"user":{"login":"octocat"}}]`)
	}))

	prs, err := c.PullRequests(context.Background(), "vizual-ai", "dashboard")
	if err != nil {
		t.Fatalf("PullRequests() error = %v", err)
	}

	if len(prs) != 1 || prs[0].Number != 42 || !prs[0].Draft {
		t.Errorf("prs = %+v", prs)
	}

	if prs[0].User.Login != "octocat" {
		t.Errorf("author = %q", prs[0].User.Login)
	}
}

func TestWorkflowRuns(t *testing.T) {
	c := testClient(t, "t", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/vizual-ai/dashboard/actions/runs" {
			t.Errorf("path = %q", r.URL.Path)
		}

		io.WriteString(w, `{"workflow_runs":[{"id":9,"name":"ci","status":"completed","conclusion":"success","head_branch":"main"}]}`)
	}))

	runs, err := c.WorkflowRuns(context.Background(), "vizual-ai", "dashboard")
	if err != nil {
		t.Fatalf("WorkflowRuns() error = %v", err)
	}

	if len(runs) != 1 || runs[0].Conclusion != "success" || runs[0].Branch != "main" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestSecretScanningAlerts(t *testing.T) {
	c := testClient(t, "t", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orgs/vizual-ai/secret-scanning/alerts" {
			t.Errorf("path = %q", r.URL.Path)
		}

		io.WriteString(w, `[{"number":1,"state":"open","secret_type":"github_pat"}]`)
	}))

	alerts, err := c.SecretScanningAlerts(context.Background(), "vizual-ai")
	if err != nil {
		t.Fatalf("SecretScanningAlerts() error = %v", err)
	}

	if len(alerts) != 1 || alerts[0].SecretType != "github_pat" {
		t.Errorf("alerts = %+v", alerts)
	}
}

func TestOrgWebhooks(t *testing.T) {
	c := testClient(t, "t", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orgs/vizual-ai/hooks" {
			t.Errorf("path = %q", r.URL.Path)
		}

		io.WriteString(w, `[{"id":7,"active":true,"events":["push"],"config":{"url":"https://hooks.example"}}]`)
	}))

	hooks, err := c.OrgWebhooks(context.Background(), "vizual-ai")
	if err != nil {
		t.Fatalf("OrgWebhooks() error = %v", err)
	}

	if len(hooks) != 1 || !hooks[0].Active || hooks[0].Config.URL != "https://hooks.example" {
		t.Errorf("hooks = %+v", hooks)
	}
}
