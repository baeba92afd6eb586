package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-accounts-service/pkg/helpers"
	"github.com/oksasatya/go-accounts-service/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxSessionIDKey = "sessionID"
	CtxRoleKey      = "userRole"
)

// Auth validates the access token cookie and, when Redis is wired, checks
// that the token's session is still the live one for that user. Logout and
// deactivation revoke sessions, so a stale token fails here even before
// it expires.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", "AUTHENTICATION_ERROR", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", "AUTHENTICATION_ERROR", err.Error())
			c.Abort()
			return
		}

		if rdb != nil {
			sess, err := helpers.SessionRead(c.Request.Context(), rdb, claims.UserID)
			if err != nil || len(sess) == 0 || sess["session_id"] != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session not found", "AUTHENTICATION_ERROR", nil)
				c.Abort()
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole gates a route on the role claim set by Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRoleKey) != role {
			response.Error[any](c, http.StatusForbidden, "insufficient role", "AUTHENTICATION_ERROR", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
