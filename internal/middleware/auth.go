package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eduadmin/internal/session"
)

// Gin context keys set by RequireSession.
const (
	CtxSessionID = "sessionID"
	CtxRole      = "role"
)

// SessionCookie carries the session ID between requests.
const SessionCookie = "session_id"

// loginRedirect is where the UI sends denied requests. The attempted
// destination is not preserved.
const loginRedirect = "/login"

// RequireSession resolves the request's session and denies with a login
// redirect when none is present. On success the session's upstream
// token is attached to the request context so every upstream call made
// by the handler carries it.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessionID(c)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Authentication required",
				"redirect": loginRedirect,
			})
			return
		}

		sess, ok, err := store.Get(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve session"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Invalid or expired session",
				"redirect": loginRedirect,
			})
			return
		}

		c.Set(CtxSessionID, id)
		c.Set(CtxRole, sess.Role)
		c.Request = c.Request.WithContext(session.ContextWithToken(c.Request.Context(), sess.Token))

		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireSession.
// The role was decoded from the token without signature verification,
// so this is UI gating only; the upstream API re-checks authorization
// on every privileged call.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != session.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Access denied: admins only",
				"redirect": loginRedirect,
			})
			return
		}
		c.Next()
	}
}

// sessionID reads the session credential from the cookie, falling back
// to a bearer header for non-browser clients.
func sessionID(c *gin.Context) string {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return id
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
