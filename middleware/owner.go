package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OwnerIDKey is the context key under which the authenticated owner ID is stored.
const OwnerIDKey = "ownerID"

// RequireOwner extracts the authenticated pet owner's ID. Identity verification
// happens upstream (gateway / session service); this service only requires the
// resolved ID to be present.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.GetHeader("X-Owner-ID")
		if ownerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing owner identity"})
			return
		}
		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the owner ID stored by RequireOwner.
func OwnerID(c *gin.Context) string {
	return c.GetString(OwnerIDKey)
}
