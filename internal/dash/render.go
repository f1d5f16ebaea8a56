package dash

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/vizual-ai/vizdash/internal/gateway"
)

var (
	colorText   = lipgloss.AdaptiveColor{Light: "236", Dark: "252"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "245", Dark: "243"}
	colorBorder = lipgloss.AdaptiveColor{Light: "250", Dark: "238"}
	colorOK     = lipgloss.Color("42")
	colorWarn   = lipgloss.Color("214")
	colorBad    = lipgloss.Color("196")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	okStyle    = lipgloss.NewStyle().Foreground(colorOK)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	badStyle   = lipgloss.NewStyle().Foreground(colorBad)
)

func sectionTitle(name string) string {
	return titleStyle.Render(strings.ToUpper(name[:1]) + name[1:])
}

func separator(width int) string {
	if width < 1 {
		width = 1
	}

	return lipgloss.NewStyle().Foreground(colorBorder).Render(strings.Repeat("─", width))
}

// statusBadge renders a probe status as a colored dot plus label.
func statusBadge(status gateway.Status) string {
	switch status {
	case gateway.StatusOnline:
		return okStyle.Render("● online")
	case gateway.StatusOffline:
		return badStyle.Render("● offline")
	default:
		return warnStyle.Render("◌ checking")
	}
}

func renderOverview(data Data, width int) string {
	var openPRs, openIssues, archived int

	for _, repo := range data.Index.Repos {
		openPRs += repo.OpenPRs
		openIssues += repo.OpenIssues

		if repo.Archived {
			archived++
		}
	}

	lines := []string{
		sectionTitle(SectionOverview),
		separator(width),
		fmt.Sprintf("Org:           %s", data.Org),
		fmt.Sprintf("Repositories:  %d (%d archived)", len(data.Index.Repos), archived),
		fmt.Sprintf("Open PRs:      %d", openPRs),
		fmt.Sprintf("Open issues:   %d", openIssues),
	}

	switch {
	case data.LiveIndex:
		lines = append(lines, mutedStyle.Render("snapshot: unavailable, showing live API data"))
	case !data.Index.GeneratedAt.IsZero():
		lines = append(lines, mutedStyle.Render("snapshot: "+data.Index.GeneratedAt.Format("2006-01-02 15:04 MST")))
	default:
		lines = append(lines, mutedStyle.Render("snapshot: unavailable"))
	}

	if len(data.PRs) > 0 {
		lines = append(lines, "", titleStyle.Render("Recent pull requests"))

		for i, pr := range data.PRs {
			if i == 3 {
				break
			}

			lines = append(lines, fmt.Sprintf("  #%d %s  %s", pr.Number, truncate(pr.Title, width-20), mutedStyle.Render(pr.User.Login)))
		}
	}

	return strings.Join(lines, "\n")
}

func renderProjects(data Data, width int) string {
	lines := []string{sectionTitle(SectionProjects), separator(width)}

	if len(data.Projects.Columns) == 0 {
		lines = append(lines, mutedStyle.Render("no project snapshot"))
	}

	for _, col := range data.Projects.Columns {
		lines = append(lines, titleStyle.Render(fmt.Sprintf("%s (%d)", col.Label, len(col.Items))))

		for _, item := range col.Items {
			lines = append(lines, fmt.Sprintf("  %s %s", mutedStyle.Render(item.Repo), item.Title))
		}
	}

	if len(data.Boards) > 0 {
		lines = append(lines, "", titleStyle.Render("Boards"))

		for _, board := range data.Boards {
			lines = append(lines, fmt.Sprintf("  #%d %s", board.Number, board.Title))
		}
	}

	return strings.Join(lines, "\n")
}

func renderDiscovery(data Data, width int) string {
	lines := []string{sectionTitle(SectionDiscovery), separator(width)}

	if len(data.Index.Repos) == 0 {
		lines = append(lines, mutedStyle.Render("no repositories in snapshot"))
		return strings.Join(lines, "\n")
	}

	for _, repo := range data.Index.Repos {
		name := repo.Name
		if repo.Archived {
			name = mutedStyle.Render(name + " (archived)")
		}

		meta := fmt.Sprintf("★%d  %s  %d PRs  %d issues", repo.Stars, orDash(repo.Language), repo.OpenPRs, repo.OpenIssues)
		lines = append(lines, name+"  "+mutedStyle.Render(meta))

		if repo.Description != "" {
			lines = append(lines, "  "+mutedStyle.Render(truncate(repo.Description, width-2)))
		}
	}

	return strings.Join(lines, "\n")
}

func renderValidation(data Data, width int) string {
	check := func(ok bool, label string) string {
		if ok {
			return okStyle.Render("✓ ") + label
		}

		return badStyle.Render("✗ ") + label
	}

	lines := []string{
		sectionTitle(SectionValidation),
		separator(width),
		check(data.TokenPresent, "GitHub token configured"),
		check(!data.Index.GeneratedAt.IsZero(), "org index snapshot loaded"),
		check(len(data.Projects.Columns) > 0, "project map snapshot loaded"),
	}

	if data.SecretAlerts > 0 || data.CodeAlerts > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("⚠ %d secret / %d code scanning alerts open", data.SecretAlerts, data.CodeAlerts)))
	} else {
		lines = append(lines, okStyle.Render("✓ ")+"no open security alerts")
	}

	if len(data.Runs) > 0 {
		lines = append(lines, "", titleStyle.Render("Recent workflow runs"))

		for i, run := range data.Runs {
			if i == 5 {
				break
			}

			badge := warnStyle.Render("◌ " + run.Status)
			if run.Conclusion == "success" {
				badge = okStyle.Render("✓ success")
			} else if run.Conclusion != "" {
				badge = badStyle.Render("✗ " + run.Conclusion)
			}

			lines = append(lines, fmt.Sprintf("  %s  %s %s", badge, run.Name, mutedStyle.Render(run.Branch)))
		}
	}

	return strings.Join(lines, "\n")
}

func renderMemory(data Data, width int) string {
	lines := []string{sectionTitle(SectionMemory), separator(width)}

	if len(data.Memory.Entries) == 0 {
		lines = append(lines, mutedStyle.Render("no memory snapshot"))
		return strings.Join(lines, "\n")
	}

	for _, entry := range data.Memory.Entries {
		header := titleStyle.Render(entry.Title)
		if entry.Type != "" {
			header += "  " + mutedStyle.Render("["+entry.Type+"]")
		}

		lines = append(lines, header, "  "+truncate(entry.Body, width-2))
	}

	return strings.Join(lines, "\n")
}

func renderVault(data Data, width int) string {
	token := badStyle.Render("not configured")
	if data.TokenPresent {
		token = okStyle.Render("configured")
		if data.TokenUser != "" {
			token += mutedStyle.Render(" (" + data.TokenUser + ")")
		}
	}

	lines := []string{
		sectionTitle(SectionVault),
		separator(width),
		"Token:           " + token,
		fmt.Sprintf("Secret alerts:   %d", data.SecretAlerts),
		fmt.Sprintf("Code alerts:     %d", data.CodeAlerts),
	}

	if len(data.Webhooks) > 0 {
		active := 0

		for _, hook := range data.Webhooks {
			if hook.Active {
				active++
			}
		}

		lines = append(lines, fmt.Sprintf("Webhooks:        %d (%d active)", len(data.Webhooks), active))
	}

	if len(data.Members) > 0 {
		lines = append(lines, fmt.Sprintf("Public members:  %d", len(data.Members)))
	}

	lines = append(lines, "", titleStyle.Render("Endpoints"))
	lines = append(lines, endpointRows(data.Report, "")...)

	return strings.Join(lines, "\n")
}

func renderEditor(data Data, width int) string {
	return strings.Join([]string{
		sectionTitle(SectionEditor),
		separator(width),
		mutedStyle.Render("workflow editing is not available in the terminal"),
		mutedStyle.Render("open https://vizual-ai.github.io/dashboard to edit workflows"),
	}, "\n")
}

func renderSettings(data Data, width int) string {
	return strings.Join([]string{
		sectionTitle(SectionSettings),
		separator(width),
		fmt.Sprintf("Org:              %s", data.Org),
		fmt.Sprintf("Theme:            %s", orDash(data.Theme)),
		fmt.Sprintf("Custom endpoints: %d", data.CustomEndpoints),
		mutedStyle.Render("edit with 'vizdash config set <key> <value>'"),
	}, "\n")
}

func renderGateway(data Data, width int) string {
	indicator := badStyle.Render("● gateway unreachable")
	if data.Report.TunnelOnline {
		indicator = okStyle.Render("● gateway reachable")
	}

	lines := []string{
		sectionTitle(SectionGateway),
		separator(width),
		indicator,
		"",
	}

	lines = append(lines, endpointRows(data.Report, gateway.GroupTunnel)...)

	return strings.Join(lines, "\n")
}

// endpointRows renders one line per endpoint, filtered to a group when
// group is non-empty. The gateway section shows only tunnel endpoints;
// the vault section shows everything from the same report.
func endpointRows(report gateway.Report, group gateway.Group) []string {
	var rows []string

	for _, ep := range report.Endpoints {
		if group != "" && ep.Group != group {
			continue
		}

		label := ep.Label
		if ep.Custom {
			label += mutedStyle.Render(" (custom)")
		}

		rows = append(rows, fmt.Sprintf("%s %s  %s", padLabel(label, 28), statusBadge(report.Statuses[ep.ID]), mutedStyle.Render(ep.URL)))
	}

	if len(rows) == 0 {
		rows = append(rows, mutedStyle.Render("no endpoints"))
	}

	return rows
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}

	return v
}

// truncate cuts plain text to at most max terminal cells. Widths are
// measured in cells, not runes, so CJK descriptions do not overflow.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}

	if runewidth.StringWidth(s) <= max {
		return s
	}

	return runewidth.Truncate(s, max, "…")
}

// padLabel pads a possibly styled label to width cells. Printf padding
// counts ANSI escape bytes, so styled labels need visible-width math.
func padLabel(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}

	return s
}
