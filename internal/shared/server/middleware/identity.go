package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docingest-backend/internal/shared/server/respond"
)

const ownerIDKey = "ownerId"

// Identity reads the caller's owner ID from the X-User-Id header and stores
// it in context. The owner ID is an opaque string; there is no authentication
// here, only the guarantee that every request past this point carries a
// non-empty owner.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		ownerID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if ownerID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(ownerIDKey, ownerID)
		c.Next()
	}
}

// OwnerIDFromContext fetches the owner ID set by the Identity middleware.
func OwnerIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(ownerIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
