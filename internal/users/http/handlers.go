package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/trackly/tracker/internal/api/http"
	"github.com/trackly/tracker/internal/apierror"
	"github.com/trackly/tracker/internal/auth"
	"github.com/trackly/tracker/internal/users/domain"
)

func writeError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		httpapi.ValidationError(c, httpapi.ValidationMessage(err, domain.ErrInvalid))
	case errors.Is(err, domain.ErrInvalidCredentials):
		httpapi.Error(c, http.StatusUnauthorized, apierror.CodeAuthentication, "Invalid credentials")
	case errors.Is(err, domain.ErrEmailTaken):
		httpapi.Error(c, http.StatusConflict, apierror.CodeConflict, "Email already registered")
	case errors.Is(err, domain.ErrNotFound):
		httpapi.Error(c, http.StatusNotFound, apierror.CodeUserNotFound, "User not found")
	default:
		httpapi.InternalError(c, operation, err)
	}
}

func (h *Handler) login(c *gin.Context) {
	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		httpapi.ValidationError(c, "email and password are required")
		return
	}

	tok, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

func (h *Handler) signup(c *gin.Context) {
	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.ValidationError(c, "invalid body")
		return
	}

	tok, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		writeError(c, "signup", err)
		return
	}
	c.JSON(http.StatusCreated, tok)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), auth.CurrentClaims(c)); err != nil {
		writeError(c, "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.users.Me(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, "get_me", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) updateMe(c *gin.Context) {
	var req domain.UpdateUser
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.ValidationError(c, "invalid body")
		return
	}

	u, err := h.users.UpdateMe(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		writeError(c, "update_me", err)
		return
	}
	c.JSON(http.StatusOK, u)
}
