package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docdiff/internal/domain"
	"docdiff/internal/port"
)

const (
	// HeaderAPIKey is the header clients authenticate with.
	HeaderAPIKey = "X-API-Key"

	ContextKeyAPIKey = "api_key"
)

// RequireScope returns Gin middleware that validates the X-API-Key header
// against the key store and checks the required scope. Usage counting is
// fire-and-forget; a failed increment never blocks the request.
func RequireScope(keyRepo port.APIKeyRepository, scope domain.APIKeyScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAPIKey)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		key, err := keyRepo.GetByKey(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		if !key.Active {
			abortUnauthorized(c)
			return
		}
		if key.ExpiresAt != nil && !key.ExpiresAt.After(time.Now()) {
			abortUnauthorized(c)
			return
		}
		if !key.HasScope(scope) {
			abortUnauthorized(c)
			return
		}

		keyID := key.ID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := keyRepo.IncrementUsage(ctx, keyID); err != nil {
				log.Printf("auth: usage increment failed for key %s: %v", keyID, err)
			}
		}()

		c.Set(ContextKeyAPIKey, key)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid API key"},
	})
}
