package middleware

import (
	"net/http"
	"strings"

	"restaurant-management-backend/internal/auth"
	"restaurant-management-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	ContextUserKey  = "auth_user"
	ContextActorKey = "auth_actor"
)

// RequireAuth validates the bearer token, loads the user, and stashes the
// user plus an actor name (for created_by/updated_by) on the context.
// Handlers read the actor and pass it explicitly into service calls.
func RequireAuth(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := auth.ValidateToken(jwtSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			// Soft-deleted accounts get a 403 rather than a bare 401.
			var deleted models.User
			if db.Unscoped().First(&deleted, "id = ?", claims.UserID).Error == nil {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account has been deactivated"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if user.IsBanned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user is banned"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user is inactive"})
			return
		}

		actor := strings.TrimSpace(user.Firstname)
		if actor == "" {
			actor = "system"
		}
		c.Set(ContextUserKey, &user)
		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// Actor returns the authenticated caller's name for audit fields, or "system"
// when the route is unauthenticated.
func Actor(c *gin.Context) string {
	if v, ok := c.Get(ContextActorKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "system"
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
