package http

import (
	"context"
	"encoding/json"
	"fmt"
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
	"github.com/trackly/tracker/internal/pagination"
	"github.com/trackly/tracker/internal/projects/domain"
	"github.com/trackly/tracker/internal/projects/service"
)

type stubRepo struct {
	items map[string]domain.Project
	seq   int
}

func (r *stubRepo) Create(_ context.Context, ownerID string, in domain.CreateProject) (*domain.Project, error) {
	r.seq++
	p := domain.Project{ID: fmt.Sprintf("p%d", r.seq), Name: in.Name, Description: in.Description, OwnerID: ownerID, CreatedAt: time.Now()}
	r.items[p.ID] = p
	return &p, nil
}

func (r *stubRepo) Get(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *stubRepo) List(_ context.Context, ownerID string, opts domain.ListOptions) ([]domain.Project, int, error) {
	var out []domain.Project
	for _, p := range r.items {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (r *stubRepo) Update(_ context.Context, id string, in domain.UpdateProject) (*domain.Project, error) {
	p := r.items[id]
	if in.Name != nil {
		p.Name = *in.Name
	}
	r.items[id] = p
	return &p, nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
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

	repo := &stubRepo{items: map[string]domain.Project{
		"bobs": {ID: "bobs", Name: "Bob's", OwnerID: "bob"},
	}}
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := gin.New()
	New(service.NewProjectService(repo, nil)).Register(r.Group("/api/v1/projects", authmw.RequireUser(tokens, nil)))
	return &fixture{router: r, tokens: tokens, repo: repo}
}

func (f *fixture) do(t *testing.T, user, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	tok, _, err := f.tokens.Issue(user)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apierror.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestCreateAndList(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "alice", http.MethodPost, "/api/v1/projects", `{"name":"  Roadmap  "}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var p domain.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Roadmap", p.Name)
	assert.Equal(t, "alice", p.OwnerID)

	w = f.do(t, "alice", http.MethodGet, "/api/v1/projects?page=1&page_size=5&sort_by=name&order=asc", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page pagination.Page[domain.Project]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, p.ID, page.Items[0].ID)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "alice", http.MethodPost, "/api/v1/projects", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierror.CodeValidation, errorCode(t, w))

	w = f.do(t, "alice", http.MethodPost, "/api/v1/projects", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListQueryHandling(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "alice", http.MethodGet, "/api/v1/projects?sort_by=owner_id", "")
	assert.Equal(t, http.StatusOK, w.Code, "unknown sort field falls back to created_at")

	w = f.do(t, "alice", http.MethodGet, "/api/v1/projects?order=sideways", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierror.CodeValidation, errorCode(t, w))

	w = f.do(t, "alice", http.MethodGet, "/api/v1/projects?page_size=101", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForeignProject(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "alice", http.MethodGet, "/api/v1/projects/bobs", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierror.CodeAuthorization, errorCode(t, w))

	w = f.do(t, "alice", http.MethodDelete, "/api/v1/projects/bobs", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, f.repo.items, "bobs")

	w = f.do(t, "alice", http.MethodGet, "/api/v1/projects/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apierror.CodeProjectNotFound, errorCode(t, w))
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "bob", http.MethodPatch, "/api/v1/projects/bobs", `{"name":"Renamed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", f.repo.items["bobs"].Name)

	w = f.do(t, "bob", http.MethodDelete, "/api/v1/projects/bobs", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, f.repo.items, "bobs")
}
