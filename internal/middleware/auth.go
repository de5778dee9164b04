package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
)

// TokenCookie is the cookie that carries the session token.
const TokenCookie = "token"

// Context keys set by SessionAuth.
const (
	UserIDKey       = "userID"
	SessionTokenKey = "sessionToken"
	EmailKey        = "email"
)

// TokenFromRequest returns the session token from the token cookie or, if
// absent, an Authorization: Bearer header.
func TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// SessionAuth verifies the session token and sets the user in the context.
// With an empty secret the token signature is left to the data API.
func SessionAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token, secret)
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(UserIDKey, claims.UserID())
		c.Set(SessionTokenKey, token)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
