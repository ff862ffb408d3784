package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"flowclicker-backend/internal/common/errors"
)

// RequireAPIKey guards write endpoints with a static bearer key from the
// configured allow-list.
func RequireAPIKey(validKeys []string) gin.HandlerFunc {
	keys := make(map[string]struct{}, len(validKeys))
	for _, k := range validKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			AbortWithError(c, errors.NewUnauthorizedError("missing API key"))
			return
		}

		apiKey := strings.TrimPrefix(header, "Bearer ")
		if _, ok := keys[apiKey]; !ok {
			AbortWithError(c, errors.NewUnauthorizedError("invalid API key"))
			return
		}

		c.Next()
	}
}
