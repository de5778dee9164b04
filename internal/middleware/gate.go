package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	"fintrack/internal/logger"
)

// Page paths guarded by SessionGate.
const (
	LoginPath  = "/login"
	SignupPath = "/signup"
	HomePath   = "/"
)

// SessionGate redirects page requests by session state: signed-in users away
// from the login and signup pages, everyone else to the login page. A token
// that fails to parse counts as no session.
func SessionGate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		public := path == LoginPath || path == SignupPath

		hasSession := false
		if token := TokenFromRequest(c); token != "" {
			if claims, err := auth.ParseToken(token, secret); err == nil {
				hasSession = true
				c.Set(UserIDKey, claims.UserID())
				c.Set(SessionTokenKey, token)
				c.Set(EmailKey, claims.Email)
			}
		}

		switch {
		case hasSession && public:
			logger.Get().Debugw("redirecting signed-in user", "path", path, "to", HomePath)
			c.Redirect(http.StatusFound, HomePath)
			c.Abort()
		case !hasSession && !public:
			logger.Get().Debugw("redirecting anonymous user", "path", path, "to", LoginPath)
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}
