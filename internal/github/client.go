// Package github provides the GitHub API client backing the dashboard.
//
// The client speaks both surfaces the dashboard needs: GraphQL for the
// org repository and project listings, REST for everything else
// (token validation, pull requests, workflow runs, security alerts,
// webhooks, members, rate limit). All calls work without a token; the
// bearer header is attached only when one is configured, and callers
// are expected to degrade to empty results on error.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vizual-ai/vizdash/internal/buildinfo"
)

const (
	// DefaultAPIURL is the GitHub REST API root.
	DefaultAPIURL = "https://api.github.com"
	// DefaultGraphQLURL is the GitHub GraphQL endpoint.
	DefaultGraphQLURL = "https://api.github.com/graphql"
	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 30 * time.Second

	// reposPerPage is the GraphQL page size for org repository listings.
	reposPerPage = 50

	// maxDiagnosticBytes caps how much of an error body ends up in an
	// error message.
	maxDiagnosticBytes = 512
)

// Client is the GitHub API client.
type Client struct {
	apiURL     string
	graphqlURL string
	token      string
	httpClient *http.Client
}

// New creates a client with the default otel-instrumented transport.
// An empty token means unauthenticated requests.
func New(apiURL, graphqlURL, token string) *Client {
	return NewWithHTTPClient(apiURL, graphqlURL, token, &http.Client{
		Timeout:   DefaultTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// NewWithHTTPClient creates a client over a caller-supplied HTTP
// client. Tests and the offline cache wire their own transports here.
func NewWithHTTPClient(apiURL, graphqlURL, token string, httpClient *http.Client) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	if graphqlURL == "" {
		graphqlURL = DefaultGraphQLURL
	}

	return &Client{
		apiURL:     apiURL,
		graphqlURL: graphqlURL,
		token:      token,
		httpClient: httpClient,
	}
}

// APIURL returns the configured REST API root.
func (c *Client) APIURL() string {
	return c.apiURL
}

// HasToken reports whether the client sends authenticated requests.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// User is the authenticated GitHub user.
type User struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ValidateToken checks the configured token against GET /user and
// returns the authenticated user on success.
func (c *Client) ValidateToken(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/user", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GitHub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("token is invalid or expired")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus("validate token", resp.StatusCode, resp.Body)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}

	return &user, nil
}

// RateLimitInfo is the core rate limit bucket.
type RateLimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"-"`
	ResetUnix int64     `json:"reset"`
}

// RateLimit fetches the current core API rate limit.
func (c *Client) RateLimit(ctx context.Context) (*RateLimitInfo, error) {
	var envelope struct {
		Resources struct {
			Core RateLimitInfo `json:"core"`
		} `json:"resources"`
	}

	if err := c.getJSON(ctx, "/rate_limit", "rate limit", &envelope); err != nil {
		return nil, err
	}

	info := envelope.Resources.Core
	info.Reset = time.Unix(info.ResetUnix, 0)

	return &info, nil
}

// getJSON issues an authenticated GET against the REST API and decodes
// the response into out.
func (c *Client) getJSON(ctx context.Context, path, operation string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(operation, resp.StatusCode, resp.Body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", operation, err)
	}

	return nil
}

// postGraphQL issues a GraphQL request and decodes data into out.
// GraphQL-level errors surface as a wrapped error even on HTTP 200.
func (c *Client) postGraphQL(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(operation, resp.StatusCode, resp.Body)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to parse %s: %w", operation, err)
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%s failed: %s", operation, truncate(envelope.Errors[0].Message))
	}

	if len(envelope.Data) == 0 {
		return fmt.Errorf("%s returned no data", operation)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", operation, err)
	}

	return nil
}

func (c *Client) setRequestHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "vizdash/"+buildinfo.Version)
}

// unexpectedStatus creates a formatted error from an unexpected HTTP
// status code, with the body truncated to keep diagnostics readable.
func unexpectedStatus(operation string, statusCode int, body io.Reader) error {
	respBody, readErr := io.ReadAll(io.LimitReader(body, maxDiagnosticBytes+1))
	if readErr != nil {
		return fmt.Errorf("%s failed with status %d (failed to read body: %v)", operation, statusCode, readErr)
	}

	return fmt.Errorf("%s failed with status %d: %s", operation, statusCode, truncate(string(respBody)))
}

func truncate(s string) string {
	if len(s) > maxDiagnosticBytes {
		return s[:maxDiagnosticBytes] + "..."
	}

	return s
}
