// Package tui is the interactive terminal client: a paged project list,
// per-project issue lists with filters, and a dashboard screen.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackly/tracker/internal/client"
	dashdomain "github.com/trackly/tracker/internal/dashboard/domain"
	issuedomain "github.com/trackly/tracker/internal/issues/domain"
	"github.com/trackly/tracker/internal/listing"
	projectdomain "github.com/trackly/tracker/internal/projects/domain"
)

// API is the part of the tracker client the TUI drives.
type API interface {
	listing.ProjectSource
	listing.IssueSource
	CreateProject(ctx context.Context, in projectdomain.CreateProject) (*projectdomain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CreateIssue(ctx context.Context, projectID string, in issuedomain.CreateIssue) (*issuedomain.Issue, error)
	DeleteIssue(ctx context.Context, id string) error
	SetIssueStatus(ctx context.Context, id string, s issuedomain.Status) (*issuedomain.Issue, error)
	Dashboard(ctx context.Context) (*dashdomain.Stats, error)
}

type view int

const (
	viewProjects view = iota
	viewIssues
	viewDashboard
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputCreate
)

var (
	projectSortFields = []string{"name", "created_at"}
	issueSortFields   = []string{"title", "status", "priority", "created_at"}
)

type op int

const (
	opCreateProject op = iota
	opDeleteProject
	opCreateIssue
	opDeleteIssue
	opSetStatus
)

type projectsMsg struct {
	res listing.Result[projectdomain.Project]
}

// issuesMsg carries the controller it was issued for; switching projects
// replaces the controller and orphans results still in flight.
type issuesMsg struct {
	ctl *listing.Controller[issuedomain.Issue]
	res listing.Result[issuedomain.Issue]
}

type statsMsg struct {
	stats *dashdomain.Stats
	err   error
}

type doneMsg struct {
	op  op
	id  string
	err error
}

// Model is the Bubble Tea model for the tracker TUI.
type Model struct {
	api      API
	ctx      context.Context
	pageSize int

	view     view
	previous view

	projects *listing.Controller[projectdomain.Project]
	issues   *listing.Controller[issuedomain.Issue]
	project  *projectdomain.Project // nil in the cross-project issue view

	projectSort listing.Sort
	issueSort   listing.Sort
	search      string
	cursor      int

	input   inputMode
	ti      textinput.Model
	keys    keyMap
	help    help.Model
	pending string // id awaiting delete confirmation

	stats   *dashdomain.Stats
	message string
	err     error
	width   int
}

// New returns a model on the project list. Call Init to load it.
func New(ctx context.Context, api API, pageSize int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	return Model{
		api:      api,
		ctx:      ctx,
		pageSize: pageSize,
		projects: listing.NewProjectList(api, pageSize),
		ti:       ti,
		keys:     defaultKeys(),
		help:     help.New(),
	}
}

// Run starts the TUI full screen and blocks until the user quits.
func Run(ctx context.Context, api API, pageSize int) error {
	_, err := tea.NewProgram(New(ctx, api, pageSize), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.fetchProjects(m.projects.Reload())
}

func (m Model) fetchProjects(req listing.Request) tea.Cmd {
	ctl, ctx := m.projects, m.ctx
	return func() tea.Msg {
		return projectsMsg{res: ctl.Run(ctx, req)}
	}
}

func (m Model) fetchIssues(req listing.Request) tea.Cmd {
	ctl, ctx := m.issues, m.ctx
	return func() tea.Msg {
		return issuesMsg{ctl: ctl, res: ctl.Run(ctx, req)}
	}
}

func (m Model) fetchStats() tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		s, err := api.Dashboard(ctx)
		return statsMsg{stats: s, err: err}
	}
}

func (m Model) mutate(o op, id string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{op: o, id: id, err: fn(ctx)}
	}
}

// firstPage requests page 1, or reloads when already there.
func firstPage[T any](ctl *listing.Controller[T]) listing.Request {
	if req, ok := ctl.SetPage(1); ok {
		return req
	}
	return ctl.Reload()
}

func (m Model) visibleProjects() []projectdomain.Project {
	return listing.ProjectSchema.Derive(m.projects.State().Items, m.search, m.projectSort)
}

func (m Model) visibleIssues() []issuedomain.Issue {
	if m.issues == nil {
		return nil
	}
	return listing.IssueSchema.Derive(m.issues.State().Items, m.search, m.issueSort)
}

func (m Model) rows() int {
	switch m.view {
	case viewProjects:
		return len(m.visibleProjects())
	case viewIssues:
		return len(m.visibleIssues())
	}
	return 0
}

func (m *Model) clampCursor() {
	n := m.rows()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selectedProject() (projectdomain.Project, bool) {
	items := m.visibleProjects()
	if m.cursor < 0 || m.cursor >= len(items) {
		return projectdomain.Project{}, false
	}
	return items[m.cursor], true
}

func (m Model) selectedIssue() (issuedomain.Issue, bool) {
	items := m.visibleIssues()
	if m.cursor < 0 || m.cursor >= len(items) {
		return issuedomain.Issue{}, false
	}
	return items[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case projectsMsg:
		out := m.projects.Apply(msg.res)
		if out.Refetch {
			return m, m.fetchProjects(out.Next)
		}
		m.clampCursor()
		return m, nil

	case issuesMsg:
		if msg.ctl != m.issues {
			return m, nil
		}
		out := m.issues.Apply(msg.res)
		if out.Refetch {
			return m, m.fetchIssues(out.Next)
		}
		m.clampCursor()
		return m, nil

	case statsMsg:
		m.stats, m.err = msg.stats, msg.err
		return m, nil

	case doneMsg:
		return m.handleDone(msg)

	case tea.KeyMsg:
		if m.input != inputNone {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleDone(msg doneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
	}

	switch msg.op {
	case opDeleteProject:
		if msg.err != nil {
			return m, nil
		}
		m.message = "Project deleted"
		req := m.projects.Removed(func(p projectdomain.Project) bool { return p.ID == msg.id })
		return m, m.fetchProjects(req)

	case opDeleteIssue:
		if msg.err != nil || m.issues == nil {
			return m, nil
		}
		m.message = "Issue deleted"
		req := m.issues.Removed(func(i issuedomain.Issue) bool { return i.ID == msg.id })
		return m, m.fetchIssues(req)

	case opSetStatus:
		// Success or not, the server copy replaces the provisional status.
		if m.issues == nil {
			return m, nil
		}
		return m, m.fetchIssues(m.issues.Reload())

	case opCreateProject:
		if msg.err != nil {
			return m, nil
		}
		m.message = "Project created"
		return m, m.fetchProjects(firstPage(m.projects))

	case opCreateIssue:
		if msg.err != nil || m.issues == nil {
			return m, nil
		}
		m.message = "Issue created"
		return m, m.fetchIssues(firstPage(m.issues))
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.input == inputSearch {
			m.search = ""
		}
		m.input = inputNone
		m.ti.Blur()
		m.ti.SetValue("")
		m.clampCursor()
		return m, nil

	case tea.KeyEnter:
		mode := m.input
		value := m.ti.Value()
		m.input = inputNone
		m.ti.Blur()
		m.ti.SetValue("")
		if mode == inputCreate {
			return m, m.create(value)
		}
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	if m.input == inputSearch {
		m.search = m.ti.Value()
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) create(value string) tea.Cmd {
	api := m.api
	if m.view == viewProjects {
		return m.mutate(opCreateProject, "", func(ctx context.Context) error {
			_, err := api.CreateProject(ctx, projectdomain.CreateProject{Name: value})
			return err
		})
	}
	projectID := m.project.ID
	return m.mutate(opCreateIssue, "", func(ctx context.Context) error {
		_, err := api.CreateIssue(ctx, projectID, issuedomain.CreateIssue{Title: value})
		return err
	})
}

func (m Model) startInput(mode inputMode, placeholder string) (Model, tea.Cmd) {
	m.input = mode
	m.ti.Placeholder = placeholder
	m.ti.SetValue("")
	if mode == inputSearch {
		m.ti.SetValue(m.search)
	}
	return m, m.ti.Focus()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	m.err = nil
	pending := m.pending
	m.pending = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.view {
	case viewDashboard:
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Dashboard):
			m.view = m.previous
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			return m, m.fetchStats()
		}
		return m, nil
	case viewProjects:
		return m.handleProjectKey(msg, pending)
	default:
		return m.handleIssueKey(msg, pending)
	}
}

func (m Model) handleProjectKey(msg tea.KeyMsg, pending string) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.rows()-1, m.cursor+1)
		m.clampCursor()
	case key.Matches(msg, m.keys.Prev):
		if req, ok := m.projects.Prev(); ok {
			m.cursor = 0
			return m, m.fetchProjects(req)
		}
	case key.Matches(msg, m.keys.Next):
		if req, ok := m.projects.Next(); ok {
			m.cursor = 0
			return m, m.fetchProjects(req)
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.fetchProjects(m.projects.Reload())
	case key.Matches(msg, m.keys.Open):
		if p, ok := m.selectedProject(); ok {
			return m.openIssues(&p)
		}
	case key.Matches(msg, m.keys.Mine):
		return m.openIssues(nil)
	case key.Matches(msg, m.keys.Dashboard):
		m.previous, m.view = m.view, viewDashboard
		return m, m.fetchStats()
	case key.Matches(msg, m.keys.Search):
		return m.startInput(inputSearch, "search name or description")
	case key.Matches(msg, m.keys.Add):
		return m.startInput(inputCreate, "new project name")
	case key.Matches(msg, m.keys.SortField):
		m.projectSort = m.projectSort.Toggle(nextField(projectSortFields, m.projectSort.Field))
	case key.Matches(msg, m.keys.SortDir):
		if m.projectSort.Field != "" {
			m.projectSort = m.projectSort.Toggle(m.projectSort.Field)
		}
	case key.Matches(msg, m.keys.Delete):
		p, ok := m.selectedProject()
		if !ok {
			break
		}
		if pending != p.ID {
			m.pending = p.ID
			m.message = fmt.Sprintf("Press x again to delete %q and all its issues", p.Name)
			break
		}
		api, id := m.api, p.ID
		return m, m.mutate(opDeleteProject, id, func(ctx context.Context) error {
			return api.DeleteProject(ctx, id)
		})
	}
	return m, nil
}

func (m Model) openIssues(p *projectdomain.Project) (tea.Model, tea.Cmd) {
	projectID := ""
	if p != nil {
		projectID = p.ID
	}
	m.project = p
	m.issues = listing.NewIssueList(m.api, projectID, m.pageSize)
	m.view = viewIssues
	m.search = ""
	m.cursor = 0
	return m, m.fetchIssues(m.issues.Reload())
}

func (m Model) setIssueFilter(name, value string) (tea.Model, tea.Cmd) {
	if req, ok := m.issues.SetFilter(name, value); ok {
		m.cursor = 0
		return m, m.fetchIssues(req)
	}
	return m, nil
}

func (m Model) handleIssueKey(msg tea.KeyMsg, pending string) (tea.Model, tea.Cmd) {
	q := m.issues.State().Query

	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = viewProjects
		m.issues = nil
		m.project = nil
		m.search = ""
		m.cursor = 0
		return m, m.fetchProjects(m.projects.Reload())
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(0, m.cursor-1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.rows()-1, m.cursor+1)
		m.clampCursor()
	case key.Matches(msg, m.keys.Prev):
		if req, ok := m.issues.Prev(); ok {
			m.cursor = 0
			return m, m.fetchIssues(req)
		}
	case key.Matches(msg, m.keys.Next):
		if req, ok := m.issues.Next(); ok {
			m.cursor = 0
			return m, m.fetchIssues(req)
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.fetchIssues(m.issues.Reload())
	case key.Matches(msg, m.keys.Status):
		next := cycle(issuedomain.Status(q.Filter(listing.FilterStatus)), issuedomain.Statuses)
		return m.setIssueFilter(listing.FilterStatus, string(next))
	case key.Matches(msg, m.keys.Priority):
		next := cycle(issuedomain.Priority(q.Filter(listing.FilterPriority)), issuedomain.Priorities)
		return m.setIssueFilter(listing.FilterPriority, string(next))
	case key.Matches(msg, m.keys.Clear):
		if req, ok := m.issues.ClearFilters(); ok {
			m.cursor = 0
			return m, m.fetchIssues(req)
		}
	case key.Matches(msg, m.keys.Dashboard):
		m.previous, m.view = m.view, viewDashboard
		return m, m.fetchStats()
	case key.Matches(msg, m.keys.Search):
		return m.startInput(inputSearch, "search title or description")
	case key.Matches(msg, m.keys.Add):
		if m.project == nil {
			m.message = "Open a project to add issues"
			break
		}
		return m.startInput(inputCreate, "new issue title")
	case key.Matches(msg, m.keys.SortField):
		m.issueSort = m.issueSort.Toggle(nextField(issueSortFields, m.issueSort.Field))
	case key.Matches(msg, m.keys.SortDir):
		if m.issueSort.Field != "" {
			m.issueSort = m.issueSort.Toggle(m.issueSort.Field)
		}
	case key.Matches(msg, m.keys.Advance):
		i, ok := m.selectedIssue()
		if !ok {
			break
		}
		next := nextStatus(i.Status)
		m.issues.Patch(
			func(it issuedomain.Issue) bool { return it.ID == i.ID },
			func(it issuedomain.Issue) issuedomain.Issue { it.Status = next; return it },
		)
		api, id := m.api, i.ID
		return m, m.mutate(opSetStatus, id, func(ctx context.Context) error {
			_, err := api.SetIssueStatus(ctx, id, next)
			return err
		})
	case key.Matches(msg, m.keys.Delete):
		i, ok := m.selectedIssue()
		if !ok {
			break
		}
		if pending != i.ID {
			m.pending = i.ID
			m.message = fmt.Sprintf("Press x again to delete %q", i.Title)
			break
		}
		api, id := m.api, i.ID
		return m, m.mutate(opDeleteIssue, id, func(ctx context.Context) error {
			return api.DeleteIssue(ctx, id)
		})
	}
	return m, nil
}

// nextField returns the field after cur, wrapping around.
func nextField(fields []string, cur string) string {
	i := slices.Index(fields, cur)
	return fields[(i+1)%len(fields)]
}

// cycle steps a filter through "", values[0], ..., values[n-1], "".
func cycle[V ~string](cur V, values []V) V {
	i := slices.Index(values, cur)
	if cur == "" || i < 0 {
		return values[0]
	}
	if i == len(values)-1 {
		return ""
	}
	return values[i+1]
}

// nextStatus moves along the workflow and wraps done back to open.
func nextStatus(s issuedomain.Status) issuedomain.Status {
	return issuedomain.Statuses[(s.Rank()+1)%len(issuedomain.Statuses)]
}

func errText(err error) string {
	return client.Message(err)
}

func (m Model) View() string {
	var b strings.Builder
	switch m.view {
	case viewDashboard:
		b.WriteString(m.dashboardView())
	case viewIssues:
		b.WriteString(m.issuesView())
	default:
		b.WriteString(m.projectsView())
	}

	b.WriteString("\n")
	if m.input != inputNone {
		b.WriteString(m.ti.View() + "\n")
	}
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(errText(m.err)) + "\n")
	case m.message != "":
		b.WriteString(messageStyle.Render(m.message) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
