package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/facegate/service"
)

// bearerToken extracts the bearer token from the Authorization header,
// returning "" when the header is absent or malformed.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// AuthMiddleware validates the bearer token on protected endpoints and
// places the authenticated identity in the request context.
func AuthMiddleware(verifier *service.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}

		username, email, err := verifier.Validate(c.Request.Context(), token)
		if err != nil {
			detail := "Could not validate credentials"
			if errors.Is(err, service.ErrTokenExpired) {
				detail = "Token has expired"
			}
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
			return
		}

		c.Set("username", username)
		c.Set("email", email)

		c.Next()
	}
}
