package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/trackly/tracker/internal/api/http"
	"github.com/trackly/tracker/internal/apierror"
	"github.com/trackly/tracker/internal/auth"
	"github.com/trackly/tracker/internal/issues/domain"
	projectdomain "github.com/trackly/tracker/internal/projects/domain"
)

func writeError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		httpapi.ValidationError(c, httpapi.ValidationMessage(err, domain.ErrInvalid))
	case errors.Is(err, projectdomain.ErrNotFound):
		httpapi.Error(c, http.StatusNotFound, apierror.CodeProjectNotFound, "Project not found")
	case errors.Is(err, domain.ErrNotFound):
		httpapi.Error(c, http.StatusNotFound, apierror.CodeIssueNotFound, "Issue not found")
	case errors.Is(err, projectdomain.ErrForbidden):
		httpapi.Error(c, http.StatusForbidden, apierror.CodeAuthorization, "You do not have access to this project")
	case errors.Is(err, domain.ErrForbidden):
		httpapi.Error(c, http.StatusForbidden, apierror.CodeAuthorization, "You do not have access to this issue")
	default:
		httpapi.InternalError(c, operation, err)
	}
}

func listOptions(c *gin.Context) (domain.ListOptions, bool) {
	q, err := httpapi.ParseListQuery(c, domain.SortCreatedAt, domain.SortPriority, domain.SortStatus)
	if err != nil {
		httpapi.ValidationError(c, err.Error())
		return domain.ListOptions{}, false
	}
	return domain.ListOptions{
		Params: q.Params,
		Filter: domain.Filter{
			Status:   domain.Status(strings.ToLower(c.Query("status"))),
			Priority: domain.Priority(strings.ToLower(c.Query("priority"))),
		},
		SortBy: q.SortBy,
		Desc:   q.Desc,
	}, true
}

func (h *Handler) list(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	page, err := h.svc.List(c.Request.Context(), auth.UserID(c), c.Param("projectId"), opts)
	if err != nil {
		writeError(c, "list_issues", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) listMine(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	page, err := h.svc.ListMine(c.Request.Context(), auth.UserID(c), opts)
	if err != nil {
		writeError(c, "list_my_issues", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateIssue
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.ValidationError(c, "invalid body")
		return
	}

	issue, err := h.svc.Create(c.Request.Context(), auth.UserID(c), c.Param("projectId"), req)
	if err != nil {
		writeError(c, "create_issue", err)
		return
	}
	c.JSON(http.StatusCreated, issue)
}

func (h *Handler) get(c *gin.Context) {
	issue, err := h.svc.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, "get_issue", err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *Handler) update(c *gin.Context) {
	var req domain.UpdateIssue
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.ValidationError(c, "invalid body")
		return
	}

	issue, err := h.svc.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, "update_issue", err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		writeError(c, "delete_issue", err)
		return
	}
	c.Status(http.StatusNoContent)
}
