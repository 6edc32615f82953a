package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	issuedomain "github.com/trackly/tracker/internal/issues/domain"
	"github.com/trackly/tracker/internal/listing"
)

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func pad(s string, n int) string {
	if w := utf8.RuneCountInString(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

func sortLabel(s listing.Sort) string {
	if s.Field == "" {
		return "server order"
	}
	arrow := "↑"
	if s.Dir == listing.Descending {
		arrow = "↓"
	}
	return s.Field + " " + arrow
}

// pager renders "page x of y" plus the loading and error state of a list.
func pager[T any](st listing.State[T]) string {
	prev, next := "‹", "›"
	if !st.HasPrev {
		prev = dimStyle.Render(prev)
	}
	if !st.HasNext {
		next = dimStyle.Render(next)
	}
	line := fmt.Sprintf("%s page %d of %d %s  %d total", prev, st.Query.Page, st.TotalPages, next, st.Total)
	if st.Loading {
		line += dimStyle.Render("  loading…")
	}
	if st.Err != nil {
		line += "\n" + errorStyle.Render(errText(st.Err))
	}
	return line
}

func (m Model) header(title string, sort listing.Sort, filters ...string) string {
	parts := []string{titleStyle.Render(title)}
	for _, f := range filters {
		if f != "" {
			parts = append(parts, filterStyle.Render(f))
		}
	}
	if m.search != "" {
		parts = append(parts, filterStyle.Render("/"+m.search))
	}
	parts = append(parts, dimStyle.Render("sort: "+sortLabel(sort)))
	return strings.Join(parts, "  ")
}

func (m Model) row(i int, line string) string {
	if i == m.cursor {
		return selectedRowStyle.Render("> "+line) + "\n"
	}
	return "  " + line + "\n"
}

func (m Model) projectsView() string {
	st := m.projects.State()
	var b strings.Builder
	b.WriteString(m.header("Projects", m.projectSort) + "\n\n")

	items := m.visibleProjects()
	switch {
	case st.Total == 0 && !st.Loading && st.Err == nil:
		b.WriteString(dimStyle.Render("  No projects yet. Press a to create one.") + "\n")
	case len(items) == 0 && len(st.Items) > 0:
		b.WriteString(dimStyle.Render("  Nothing on this page matches.") + "\n")
	}
	for i, p := range items {
		desc := ""
		if p.Description != nil {
			desc = truncate(*p.Description, 40)
		}
		line := fmt.Sprintf("%s %s %s", pad(truncate(p.Name, 30), 30), pad(desc, 40), p.CreatedAt.Local().Format("2006-01-02"))
		b.WriteString(m.row(i, line))
	}

	b.WriteString("\n" + pager(st) + "\n")
	return b.String()
}

func (m Model) issuesView() string {
	st := m.issues.State()
	title := "My issues"
	if m.project != nil {
		title = "Issues · " + m.project.Name
	}

	var b strings.Builder
	b.WriteString(m.header(title, m.issueSort,
		filterValue("status", st.Query.Filter(listing.FilterStatus)),
		filterValue("priority", st.Query.Filter(listing.FilterPriority)),
	) + "\n\n")

	items := m.visibleIssues()
	switch {
	case st.Total == 0 && !st.Loading && st.Err == nil:
		b.WriteString(dimStyle.Render("  No issues match.") + "\n")
	case len(items) == 0 && len(st.Items) > 0:
		b.WriteString(dimStyle.Render("  Nothing on this page matches.") + "\n")
	}
	for i, it := range items {
		status := lipgloss.NewStyle().Foreground(statusColors[it.Status]).
			Render(statusIcon(it.Status) + " " + pad(string(it.Status), 11))
		priority := lipgloss.NewStyle().Foreground(priorityColors[it.Priority]).
			Render(pad(string(it.Priority), 6))
		line := fmt.Sprintf("%s %s %s", status, priority, truncate(it.Title, 60))
		b.WriteString(m.row(i, line))
	}

	b.WriteString("\n" + pager(st) + "\n")
	return b.String()
}

func filterValue(name, value string) string {
	if value == "" {
		return ""
	}
	return name + "=" + value
}

func (m Model) dashboardView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard") + "\n\n")
	if m.stats == nil {
		b.WriteString(dimStyle.Render("  loading…") + "\n")
		return b.String()
	}
	s := m.stats
	fmt.Fprintf(&b, "  Projects  %d\n", s.TotalProjects)
	fmt.Fprintf(&b, "  Issues    %d (%d active)\n\n", s.TotalIssues, s.ActiveIssues)
	for _, st := range issuedomain.Statuses {
		label := lipgloss.NewStyle().Foreground(statusColors[st]).Render(statusIcon(st) + " " + pad(string(st), 12))
		fmt.Fprintf(&b, "  %s %d\n", label, s.ByStatus[string(st)])
	}
	b.WriteString("\n")
	for _, p := range issuedomain.Priorities {
		label := lipgloss.NewStyle().Foreground(priorityColors[p]).Render(pad(string(p), 14))
		fmt.Fprintf(&b, "  %s %d\n", label, s.ByPriority[string(p)])
	}
	if !s.GeneratedAt.IsZero() {
		b.WriteString("\n" + dimStyle.Render("  as of "+s.GeneratedAt.Local().Format("2006-01-02 15:04")) + "\n")
	}
	return b.String()
}
