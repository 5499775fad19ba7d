package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key the auth middlewares set.
const ContextUserID = "userId"

// Verifier is the minimal interface the middleware depends on.
type Verifier interface {
	Verify(ctx context.Context, raw string) (userID string, err error)
}

// RequireAuth verifies the Bearer token and aborts with 401 when absent or
// invalid. On success the user id is available via UserID(c).
func RequireAuth(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := verifyHeader(c, ver)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid Bearer token is present and
// lets the request through either way. State routes use it: the dispatcher
// itself decides what an anonymous caller may see.
func OptionalAuth(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := verifyHeader(c, ver); err == nil {
			c.Set(ContextUserID, userID)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	id, _ := c.Get(ContextUserID)
	s, _ := id.(string)
	return s
}

func verifyHeader(c *gin.Context, ver Verifier) (string, error) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	// Expect 'Bearer <token>'
	var token string
	if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
		return "", fmt.Errorf("invalid Authorization header")
	}
	userID, err := ver.Verify(c.Request.Context(), token)
	if err != nil {
		return "", fmt.Errorf("invalid token")
	}
	return userID, nil
}
