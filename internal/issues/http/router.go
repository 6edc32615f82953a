package http

import "github.com/gin-gonic/gin"

// Register attaches issue routes to the /issues group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.listMine)
	rg.GET("/projects/:projectId", h.list)
	rg.POST("/projects/:projectId", h.create)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}
