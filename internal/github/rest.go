package github

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// PullRequest is one open pull request on a repository.
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Draft     bool      `json:"draft"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
}

// PullRequests lists open pull requests for a repository in the org.
func (c *Client) PullRequests(ctx context.Context, org, repo string) ([]PullRequest, error) {
	var prs []PullRequest

	path := fmt.Sprintf("/repos/%s/%s/pulls?state=open&per_page=50", url.PathEscape(org), url.PathEscape(repo))
	if err := c.getJSON(ctx, path, "list pull requests", &prs); err != nil {
		return nil, err
	}

	return prs, nil
}

// WorkflowRun is one Actions workflow run.
type WorkflowRun struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	Branch     string    `json:"head_branch"`
	HTMLURL    string    `json:"html_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// WorkflowRuns lists recent Actions runs for a repository.
func (c *Client) WorkflowRuns(ctx context.Context, org, repo string) ([]WorkflowRun, error) {
	var envelope struct {
		WorkflowRuns []WorkflowRun `json:"workflow_runs"`
	}

	path := fmt.Sprintf("/repos/%s/%s/actions/runs?per_page=20", url.PathEscape(org), url.PathEscape(repo))
	if err := c.getJSON(ctx, path, "list workflow runs", &envelope); err != nil {
		return nil, err
	}

	return envelope.WorkflowRuns, nil
}

// SecurityAlert is one open security alert (secret or code scanning).
type SecurityAlert struct {
	Number  int    `json:"number"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`

	// Secret scanning fields.
	SecretType string `json:"secret_type,omitempty"`

	// Code scanning fields.
	Rule struct {
		ID       string `json:"id"`
		Severity string `json:"severity"`
	} `json:"rule,omitempty"`
}

// SecretScanningAlerts lists open secret scanning alerts for the org.
// Requires an authenticated token with security_events scope.
func (c *Client) SecretScanningAlerts(ctx context.Context, org string) ([]SecurityAlert, error) {
	var alerts []SecurityAlert

	path := fmt.Sprintf("/orgs/%s/secret-scanning/alerts?state=open&per_page=50", url.PathEscape(org))
	if err := c.getJSON(ctx, path, "list secret scanning alerts", &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// CodeScanningAlerts lists open code scanning alerts for the org.
func (c *Client) CodeScanningAlerts(ctx context.Context, org string) ([]SecurityAlert, error) {
	var alerts []SecurityAlert

	path := fmt.Sprintf("/orgs/%s/code-scanning/alerts?state=open&per_page=50", url.PathEscape(org))
	if err := c.getJSON(ctx, path, "list code scanning alerts", &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// Webhook is one org-level webhook.
type Webhook struct {
	ID     int64    `json:"id"`
	Active bool     `json:"active"`
	Events []string `json:"events"`
	Config struct {
		URL string `json:"url"`
	} `json:"config"`
}

// OrgWebhooks lists the org's webhooks. Requires admin:org_hook scope.
func (c *Client) OrgWebhooks(ctx context.Context, org string) ([]Webhook, error) {
	var hooks []Webhook

	path := fmt.Sprintf("/orgs/%s/hooks?per_page=50", url.PathEscape(org))
	if err := c.getJSON(ctx, path, "list org webhooks", &hooks); err != nil {
		return nil, err
	}

	return hooks, nil
}

// Member is one org member.
type Member struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// OrgMembers lists the org's public members.
func (c *Client) OrgMembers(ctx context.Context, org string) ([]Member, error) {
	var members []Member

	path := fmt.Sprintf("/orgs/%s/members?per_page=100", url.PathEscape(org))
	if err := c.getJSON(ctx, path, "list org members", &members); err != nil {
		return nil, err
	}

	return members, nil
}
