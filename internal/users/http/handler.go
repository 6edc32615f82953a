package http

import (
	"github.com/gin-gonic/gin"

	"github.com/trackly/tracker/internal/users/service"
)

// Handler bundles the dependencies for auth and profile endpoints.
type Handler struct {
	users *service.UserService
	auth  *service.AuthService
}

func New(users *service.UserService, auth *service.AuthService) *Handler {
	return &Handler{users: users, auth: auth}
}

// RegisterAuth attaches /auth routes. limit guards login and signup;
// requireUser guards logout.
func (h *Handler) RegisterAuth(rg *gin.RouterGroup, limit, requireUser gin.HandlerFunc) {
	rg.POST("/login", limit, h.login)
	rg.POST("/signup", limit, h.signup)
	rg.POST("/logout", requireUser, h.logout)
}

// RegisterMe attaches /users routes to an authenticated group.
func (h *Handler) RegisterMe(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PATCH("/me", h.updateMe)
}
