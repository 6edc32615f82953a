package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackly/tracker/internal/apierror"
	"github.com/trackly/tracker/internal/auth"
	authmw "github.com/trackly/tracker/internal/auth/middleware"
	"github.com/trackly/tracker/internal/issues/domain"
	"github.com/trackly/tracker/internal/issues/service"
	"github.com/trackly/tracker/internal/pagination"
	projectdomain "github.com/trackly/tracker/internal/projects/domain"
)

type stubProjects map[string]string

func (s stubProjects) Get(_ context.Context, userID, id string) (*projectdomain.Project, error) {
	owner, ok := s[id]
	if !ok {
		return nil, projectdomain.ErrNotFound
	}
	if owner != userID {
		return nil, projectdomain.ErrForbidden
	}
	return &projectdomain.Project{ID: id, OwnerID: owner}, nil
}

type stubRepo struct {
	issues map[string]domain.Issue
}

func (r *stubRepo) List(_ context.Context, projectID string, opts domain.ListOptions) ([]domain.Issue, int, error) {
	var out []domain.Issue
	for _, i := range r.issues {
		if i.ProjectID == projectID && (opts.Status == "" || opts.Status == i.Status) {
			out = append(out, i)
		}
	}
	return out, len(out), nil
}

func (r *stubRepo) ListForOwner(context.Context, string, domain.ListOptions) ([]domain.Issue, int, error) {
	return nil, 0, nil
}

func (r *stubRepo) Create(_ context.Context, projectID string, in domain.CreateIssue) (*domain.Issue, error) {
	i := domain.Issue{ID: "new", ProjectID: projectID, Title: in.Title, Status: in.Status, Priority: in.Priority, CreatedAt: time.Now()}
	r.issues[i.ID] = i
	return &i, nil
}

func (r *stubRepo) Get(_ context.Context, id string) (*domain.Issue, error) {
	i, ok := r.issues[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &i, nil
}

func (r *stubRepo) Update(_ context.Context, id string, in domain.UpdateIssue) (*domain.Issue, error) {
	i := r.issues[id]
	if in.Status != nil {
		i.Status = *in.Status
	}
	r.issues[id] = i
	return &i, nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	delete(r.issues, id)
	return nil
}

type fixture struct {
	router *gin.Engine
	tokens *auth.Tokens
	repo   *stubRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubRepo{issues: map[string]domain.Issue{
		"i1": {ID: "i1", ProjectID: "p1", Title: "first", Status: domain.StatusOpen, Priority: domain.PriorityLow},
		"i2": {ID: "i2", ProjectID: "p1", Title: "second", Status: domain.StatusDone, Priority: domain.PriorityHigh},
		"i3": {ID: "i3", ProjectID: "p9", Title: "bob's", Status: domain.StatusOpen, Priority: domain.PriorityLow},
	}}
	svc := service.NewIssueService(repo, stubProjects{"p1": "alice", "p9": "bob"})

	tokens := auth.NewTokens("test-secret", time.Hour)
	r := gin.New()
	g := r.Group("/api/v1/issues", authmw.RequireUser(tokens, nil))
	New(svc).Register(g)
	return &fixture{router: r, tokens: tokens, repo: repo}
}

func (f *fixture) do(t *testing.T, user, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		tok, _, err := f.tokens.Issue(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) apierror.Detail {
	t.Helper()
	var body apierror.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestRequiresToken(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, "", http.MethodGet, "/api/v1/issues/projects/p1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierror.CodeAuthentication, errorCode(t, w).Code)
}

func TestListProjectIssues(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "alice", http.MethodGet, "/api/v1/issues/projects/p1?page=1&page_size=5&status=done", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page pagination.Page[domain.Issue]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "i2", page.Items[0].ID)
}

func TestListValidation(t *testing.T) {
	f := newFixture(t)

	cases := map[string]string{
		"bad status":    "/api/v1/issues/projects/p1?status=blocked",
		"bad page size": "/api/v1/issues/projects/p1?page_size=500",
		"bad order":     "/api/v1/issues/projects/p1?order=sideways",
		"bad page":      "/api/v1/issues?page=0",
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			w := f.do(t, "alice", http.MethodGet, path, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apierror.CodeValidation, errorCode(t, w).Code)
		})
	}
}

func TestNotFoundCodes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "alice", http.MethodGet, "/api/v1/issues/projects/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierror.CodeProjectNotFound, errorCode(t, w).Code)

	w = f.do(t, "alice", http.MethodGet, "/api/v1/issues/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierror.CodeIssueNotFound, errorCode(t, w).Code)
}

func TestForeignIssueIsForbidden(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "alice", http.MethodGet, "/api/v1/issues/i3", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierror.CodeAuthorization, errorCode(t, w).Code)

	w = f.do(t, "alice", http.MethodDelete, "/api/v1/issues/i3", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, f.repo.issues, "i3")
}

func TestCreateIssue(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "alice", http.MethodPost, "/api/v1/issues/projects/p1", `{"title":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	detail := errorCode(t, w)
	assert.Equal(t, apierror.CodeValidation, detail.Code)
	assert.Contains(t, detail.Message, "title")

	w = f.do(t, "alice", http.MethodPost, "/api/v1/issues/projects/p1", `{"title":"Crash on save","priority":"high"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var issue domain.Issue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issue))
	assert.Equal(t, "Crash on save", issue.Title)
	assert.Equal(t, domain.StatusOpen, issue.Status)
	assert.Equal(t, domain.PriorityHigh, issue.Priority)
}

func TestPatchAndDelete(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "alice", http.MethodPatch, "/api/v1/issues/i1", `{"status":"in_progress"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusInProgress, f.repo.issues["i1"].Status)

	w = f.do(t, "alice", http.MethodPatch, "/api/v1/issues/i1", `{"status":"paused"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, "alice", http.MethodDelete, "/api/v1/issues/i1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, f.repo.issues, "i1")
}
