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
	"github.com/trackly/tracker/internal/users/domain"
	"github.com/trackly/tracker/internal/users/service"
)

type stubRepo struct {
	users []*domain.User
}

func (r *stubRepo) Create(_ context.Context, email, hash string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}
	u := &domain.User{ID: "u" + email, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	r.users = append(r.users, u)
	return u, nil
}

func (r *stubRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubRepo) Update(ctx context.Context, id string, email, hash *string) (*domain.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if email != nil {
		u.Email = *email
	}
	return u, nil
}

type revokedSet map[string]bool

func (s revokedSet) Revoke(_ context.Context, claims *auth.Claims) error {
	s[claims.ID] = true
	return nil
}

func (s revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s[jti], nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubRepo{}
	tokens := auth.NewTokens("test-secret", time.Hour)
	revoked := revokedSet{}
	h := New(service.NewUserService(repo), service.NewAuthService(repo, tokens, revoked))
	requireUser := authmw.RequireUser(tokens, revoked)

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterAuth(v1.Group("/auth"), func(c *gin.Context) { c.Next() }, requireUser)
	h.RegisterMe(v1.Group("/users", requireUser))
	return r
}

func call(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apierror.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func signup(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := call(r, http.MethodPost, "/api/v1/auth/signup", "", `{"email":"`+email+`","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var tok domain.Token
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func TestSignupAndMe(t *testing.T) {
	r := newRouter(t)
	tok := signup(t, r, "ada@example.com")

	w := call(r, http.MethodGet, "/api/v1/users/me", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "ada@example.com", me["email"])
	assert.NotContains(t, me, "password_hash")
	assert.NotContains(t, me, "PasswordHash")
}

func TestSignupConflictAndValidation(t *testing.T) {
	r := newRouter(t)
	signup(t, r, "ada@example.com")

	w := call(r, http.MethodPost, "/api/v1/auth/signup", "", `{"email":"ADA@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierror.CodeConflict, errorCode(t, w))

	w = call(r, http.MethodPost, "/api/v1/auth/signup", "", `{"email":"bob@example.com","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierror.CodeValidation, errorCode(t, w))
}

func TestLogin(t *testing.T) {
	r := newRouter(t)
	signup(t, r, "ada@example.com")

	w := call(r, http.MethodPost, "/api/v1/auth/login", "", `{"email":"ada@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPost, "/api/v1/auth/login", "", `{"email":"ada@example.com","password":"wrong-pw"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierror.CodeAuthentication, errorCode(t, w))

	w = call(r, http.MethodPost, "/api/v1/auth/login", "", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newRouter(t)
	tok := signup(t, r, "ada@example.com")

	w := call(r, http.MethodPost, "/api/v1/auth/logout", tok, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = call(r, http.MethodGet, "/api/v1/users/me", tok, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateMe(t *testing.T) {
	r := newRouter(t)
	tok := signup(t, r, "ada@example.com")

	w := call(r, http.MethodPatch, "/api/v1/users/me", tok, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPatch, "/api/v1/users/me", tok, `{"email":"Lovelace@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var u domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "lovelace@example.com", u.Email)
}
