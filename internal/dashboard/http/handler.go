package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/trackly/tracker/internal/api/http"
	"github.com/trackly/tracker/internal/auth"
	"github.com/trackly/tracker/internal/dashboard/service"
)

type Handler struct {
	svc *service.DashboardService
}

func New(svc *service.DashboardService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.get)
}

func (h *Handler) get(c *gin.Context) {
	stats, err := h.svc.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpapi.InternalError(c, "dashboard_stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
