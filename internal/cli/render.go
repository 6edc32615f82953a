package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	dashdomain "github.com/trackly/tracker/internal/dashboard/domain"
	issuedomain "github.com/trackly/tracker/internal/issues/domain"
	"github.com/trackly/tracker/internal/listing"
	projectdomain "github.com/trackly/tracker/internal/projects/domain"
)

const timeLayout = "2006-01-02 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func renderProjects(w io.Writer, items []projectdomain.Project) {
	t := newTable("ID", "NAME", "DESCRIPTION", "CREATED")
	for _, p := range items {
		t.Row(p.ID, truncate(p.Name, 40), truncate(deref(p.Description), 50), p.CreatedAt.Local().Format(timeLayout))
	}
	fmt.Fprintln(w, t.Render())
}

func renderIssues(w io.Writer, items []issuedomain.Issue) {
	t := newTable("ID", "TITLE", "STATUS", "PRIORITY", "CREATED")
	for _, i := range items {
		t.Row(i.ID, truncate(i.Title, 50), string(i.Status), string(i.Priority), i.CreatedAt.Local().Format(timeLayout))
	}
	fmt.Fprintln(w, t.Render())
}

func renderProject(w io.Writer, p *projectdomain.Project) {
	fmt.Fprintf(w, "ID:          %s\n", p.ID)
	fmt.Fprintf(w, "Name:        %s\n", p.Name)
	fmt.Fprintf(w, "Description: %s\n", deref(p.Description))
	fmt.Fprintf(w, "Created:     %s\n", p.CreatedAt.Local().Format(timeLayout))
}

func renderIssue(w io.Writer, i *issuedomain.Issue) {
	fmt.Fprintf(w, "ID:          %s\n", i.ID)
	fmt.Fprintf(w, "Project:     %s\n", i.ProjectID)
	fmt.Fprintf(w, "Title:       %s\n", i.Title)
	fmt.Fprintf(w, "Status:      %s\n", i.Status)
	fmt.Fprintf(w, "Priority:    %s\n", i.Priority)
	fmt.Fprintf(w, "Description: %s\n", deref(i.Description))
	fmt.Fprintf(w, "Created:     %s\n", i.CreatedAt.Local().Format(timeLayout))
	if i.UpdatedAt != nil {
		fmt.Fprintf(w, "Updated:     %s\n", i.UpdatedAt.Local().Format(timeLayout))
	}
}

// pageFooter describes where the shown page sits in the collection.
func pageFooter[T any](st listing.State[T], shown int) string {
	footer := fmt.Sprintf("page %d of %d, %d total", st.Query.Page, st.TotalPages, st.Total)
	if shown != len(st.Items) {
		footer += fmt.Sprintf(", %d of %d on this page match", shown, len(st.Items))
	}
	return footer
}

func renderStats(w io.Writer, s *dashdomain.Stats) {
	fmt.Fprintf(w, "Projects:      %d\n", s.TotalProjects)
	fmt.Fprintf(w, "Issues:        %d (%d active)\n", s.TotalIssues, s.ActiveIssues)

	t := newTable("STATUS", "COUNT")
	for _, st := range issuedomain.Statuses {
		t.Row(string(st), fmt.Sprint(s.ByStatus[string(st)]))
	}
	fmt.Fprintln(w, t.Render())

	t = newTable("PRIORITY", "COUNT")
	for _, p := range issuedomain.Priorities {
		t.Row(string(p), fmt.Sprint(s.ByPriority[string(p)]))
	}
	fmt.Fprintln(w, t.Render())

	if !s.GeneratedAt.IsZero() {
		fmt.Fprintf(w, "as of %s\n", s.GeneratedAt.Local().Format(timeLayout))
	}
}

func renderMap(w io.Writer, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s  %v\n", k, strings.Repeat(" ", width-len(k)), m[k])
	}
}
