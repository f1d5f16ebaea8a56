// Package dash renders the org dashboard: a set of named sections fed
// by the published snapshots, the GitHub API, and the endpoint health
// monitor.
//
// Rendering is split from data: each section has a typed view model
// and a pure render function (view model in, styled string out), so
// sections can be tested and printed without a terminal. The bubbletea
// model in this package wires the sections into an interactive TUI;
// `vizdash view` prints a single section once through the same render
// functions.
package dash

import (
	"time"

	clierrors "github.com/vizual-ai/vizdash/internal/errors"
	"github.com/vizual-ai/vizdash/internal/gateway"
	"github.com/vizual-ai/vizdash/internal/github"
	"github.com/vizual-ai/vizdash/internal/state"
)

// Section names in tab order.
const (
	SectionOverview   = "overview"
	SectionProjects   = "projects"
	SectionDiscovery  = "discovery"
	SectionValidation = "validation"
	SectionMemory     = "memory"
	SectionVault      = "vault"
	SectionEditor     = "editor"
	SectionSettings   = "settings"
	SectionGateway    = "gateway"
)

// SectionOrder is the fixed tab order of the dashboard.
var SectionOrder = []string{
	SectionOverview,
	SectionProjects,
	SectionDiscovery,
	SectionValidation,
	SectionMemory,
	SectionVault,
	SectionEditor,
	SectionSettings,
	SectionGateway,
}

// Data is everything a full dashboard render needs. Zero values render
// as empty sections.
type Data struct {
	Org   string
	Theme string

	Index    state.OrgIndex
	Projects state.ProjectMap
	Memory   state.MemorySnapshot

	// LiveIndex marks an Index rebuilt from the GitHub API because no
	// snapshot was available.
	LiveIndex bool

	// Live API reads, populated only with a token.
	Boards   []github.Project
	PRs      []github.PullRequest
	Runs     []github.WorkflowRun
	Webhooks []github.Webhook
	Members  []github.Member

	Report gateway.Report

	TokenPresent bool
	TokenUser    string

	SecretAlerts int
	CodeAlerts   int

	CustomEndpoints int

	LoadedAt time.Time
}

// Render renders one named section from the data. Unknown names return
// a usage error naming the rejected section.
func Render(section string, data Data, width int) (string, error) {
	switch section {
	case SectionOverview:
		return renderOverview(data, width), nil
	case SectionProjects:
		return renderProjects(data, width), nil
	case SectionDiscovery:
		return renderDiscovery(data, width), nil
	case SectionValidation:
		return renderValidation(data, width), nil
	case SectionMemory:
		return renderMemory(data, width), nil
	case SectionVault:
		return renderVault(data, width), nil
	case SectionEditor:
		return renderEditor(data, width), nil
	case SectionSettings:
		return renderSettings(data, width), nil
	case SectionGateway:
		return renderGateway(data, width), nil
	default:
		return "", clierrors.SectionUnknown(section)
	}
}

// KnownSection reports whether name is a dashboard section.
func KnownSection(name string) bool {
	for _, s := range SectionOrder {
		if s == name {
			return true
		}
	}

	return false
}
