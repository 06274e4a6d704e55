package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// clientCtxKey is the Gin context key used to store the authenticated game
// client ID.
const clientCtxKey = "game_client_id"

// APIKeyMiddleware maps X-API-Key → game client ID. Each deployed game
// frontend (adventure platform, immersive RPG) gets its own key; session IDs
// are only meaningful within one client.
func APIKeyMiddleware(keys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		clientID, ok := keys[apiKey]
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(clientCtxKey, clientID)
		c.Next()
	}
}

// ClientID returns the authenticated game client ID from the request context.
func ClientID(c *gin.Context) string {
	v, _ := c.Get(clientCtxKey)
	s, _ := v.(string)
	return s
}
