package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crewstack/auth-backend/internal/auth"
	"github.com/crewstack/auth-backend/pkg/response"
)

// ContextSubject is the key for the token subject (user email) in gin context.
const ContextSubject = "subject"

// JWT returns a middleware that verifies the bearer token and sets the
// subject in context.
func JWT(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		subject, err := tokens.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextSubject, subject)
		c.Next()
	}
}
