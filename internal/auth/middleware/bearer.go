package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/trackly/tracker/internal/api/http"
	"github.com/trackly/tracker/internal/apierror"
	"github.com/trackly/tracker/internal/auth"
)

// RevocationChecker reports whether a token ID has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RequireUser validates the bearer token and stores the user on the
// context. Missing, invalid, expired and revoked tokens get a 401.
func RequireUser(tokens *auth.Tokens, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			httpapi.Error(c, http.StatusUnauthorized, apierror.CodeAuthentication, "Not authenticated")
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			httpapi.Error(c, http.StatusUnauthorized, apierror.CodeAuthentication, "Invalid or expired token")
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				httpapi.InternalError(c, "check_revocation", err)
				return
			}
			if isRevoked {
				httpapi.Error(c, http.StatusUnauthorized, apierror.CodeAuthentication, "Token has been revoked")
				return
			}
		}

		auth.SetUser(c, claims)
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
