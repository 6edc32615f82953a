package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/trackly/tracker/internal/api/http"
	"github.com/trackly/tracker/internal/apierror"
	"github.com/trackly/tracker/internal/auth"
	"github.com/trackly/tracker/internal/projects/domain"
)

func writeError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		httpapi.ValidationError(c, httpapi.ValidationMessage(err, domain.ErrInvalid))
	case errors.Is(err, domain.ErrNotFound):
		httpapi.Error(c, http.StatusNotFound, apierror.CodeProjectNotFound, "Project not found")
	case errors.Is(err, domain.ErrForbidden):
		httpapi.Error(c, http.StatusForbidden, apierror.CodeAuthorization, "You do not have access to this project")
	default:
		httpapi.InternalError(c, operation, err)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateProject
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.ValidationError(c, "invalid body")
		return
	}

	p, err := h.svc.Create(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		writeError(c, "create_project", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) list(c *gin.Context) {
	q, err := httpapi.ParseListQuery(c, domain.SortCreatedAt, domain.SortName)
	if err != nil {
		httpapi.ValidationError(c, err.Error())
		return
	}

	page, err := h.svc.List(c.Request.Context(), auth.UserID(c), domain.ListOptions{
		Params: q.Params,
		SortBy: q.SortBy,
		Desc:   q.Desc,
	})
	if err != nil {
		writeError(c, "list_projects", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, "get_project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	var req domain.UpdateProject
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.ValidationError(c, "invalid body")
		return
	}

	p, err := h.svc.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, "update_project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		writeError(c, "delete_project", err)
		return
	}
	c.Status(http.StatusNoContent)
}
