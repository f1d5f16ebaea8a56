package github

import (
	"context"
	"time"
)

// Repo is one repository in the org index.
type Repo struct {
	Name        string
	Description string
	URL         string
	IsPrivate   bool
	IsArchived  bool
	IsFork      bool
	Stars       int
	PushedAt    time.Time
	Language    string
	Topics      []string
	OpenPRs     int
	OpenIssues  int
}

// Project is one Projects V2 board in the org.
type Project struct {
	Number int
	Title  string
}

const orgReposQuery = `
query($org: String!, $first: Int!, $after: String) {
  organization(login: $org) {
    repositories(first: $first, after: $after, orderBy: {field: PUSHED_AT, direction: DESC}) {
      pageInfo { hasNextPage endCursor }
      nodes {
        name
        description
        url
        isPrivate
        isArchived
        isFork
        stargazerCount
        pushedAt
        primaryLanguage { name }
        repositoryTopics(first: 10) { nodes { topic { name } } }
        pullRequests(states: OPEN) { totalCount }
        issues(states: OPEN) { totalCount }
      }
    }
  }
}`

type orgReposData struct {
	Organization struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []struct {
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
				RepositoryTopics struct {
					Nodes []struct {
						Topic struct {
							Name string `json:"name"`
						} `json:"topic"`
					} `json:"nodes"`
				} `json:"repositoryTopics"`
				PullRequests struct {
					TotalCount int `json:"totalCount"`
				} `json:"pullRequests"`
				Issues struct {
					TotalCount int `json:"totalCount"`
				} `json:"issues"`
			} `json:"nodes"`
		} `json:"repositories"`
	} `json:"organization"`
}

// OrgRepos lists every repository in the org via GraphQL, following
// pagination until the last page.
func (c *Client) OrgRepos(ctx context.Context, org string) ([]Repo, error) {
	var repos []Repo

	var after any

	for {
		variables := map[string]any{
			"org":   org,
			"first": reposPerPage,
			"after": after,
		}

		var data orgReposData
		if err := c.postGraphQL(ctx, "list org repositories", orgReposQuery, variables, &data); err != nil {
			return nil, err
		}

		for _, node := range data.Organization.Repositories.Nodes {
			repo := Repo{
				Name:        node.Name,
				Description: node.Description,
				URL:         node.URL,
				IsPrivate:   node.IsPrivate,
				IsArchived:  node.IsArchived,
				IsFork:      node.IsFork,
				Stars:       node.StargazerCount,
				PushedAt:    node.PushedAt,
				OpenPRs:     node.PullRequests.TotalCount,
				OpenIssues:  node.Issues.TotalCount,
			}

			if node.PrimaryLanguage != nil {
				repo.Language = node.PrimaryLanguage.Name
			}

			for _, t := range node.RepositoryTopics.Nodes {
				repo.Topics = append(repo.Topics, t.Topic.Name)
			}

			repos = append(repos, repo)
		}

		page := data.Organization.Repositories.PageInfo
		if !page.HasNextPage {
			return repos, nil
		}

		after = page.EndCursor
	}
}

const orgProjectsQuery = `
query($org: String!) {
  organization(login: $org) {
    projectsV2(first: 20) {
      nodes { number title }
    }
  }
}`

type orgProjectsData struct {
	Organization struct {
		ProjectsV2 struct {
			Nodes []struct {
				Number int    `json:"number"`
				Title  string `json:"title"`
			} `json:"nodes"`
		} `json:"projectsV2"`
	} `json:"organization"`
}

// OrgProjects lists the org's Projects V2 boards.
func (c *Client) OrgProjects(ctx context.Context, org string) ([]Project, error) {
	var data orgProjectsData
	if err := c.postGraphQL(ctx, "list org projects", orgProjectsQuery, map[string]any{"org": org}, &data); err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(data.Organization.ProjectsV2.Nodes))

	for _, node := range data.Organization.ProjectsV2.Nodes {
		projects = append(projects, Project{Number: node.Number, Title: node.Title})
	}

	return projects, nil
}
