package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
	CtxClaims = "auth_claims"
)

// UserID returns the authenticated user's ID set by the bearer middleware.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// CurrentClaims returns the verified token claims, or nil.
func CurrentClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// SetUser records the authenticated user on the Gin context.
func SetUser(c *gin.Context, claims *Claims) {
	c.Set(CtxUserID, claims.UserID())
	c.Set(CtxClaims, claims)
}
