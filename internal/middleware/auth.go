package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/estatecrm/backend/internal/constants"
	apierrors "github.com/estatecrm/backend/internal/errors"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/services"
)

// RequireAuth validates the bearer token and stores the employee
// identity in the request context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			apierrors.Unauthorized(c, "Expected Bearer token")
			c.Abort()
			return
		}

		claims, err := authService.VerifyToken(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyEmployeeID, claims.EmployeeID)
		c.Set(constants.ContextKeyEmployeeRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates a route to ADMIN employees. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetRole(c)
		if !exists || role != models.RoleAdmin {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetEmployeeID retrieves the current employee ID from context
func GetEmployeeID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyEmployeeID)
	if !exists {
		return 0, false
	}

	id, ok := value.(uint64)
	if !ok {
		return 0, false
	}
	return id, true
}

// GetRole retrieves the current employee role from context
func GetRole(c *gin.Context) (models.EmployeeRole, bool) {
	value, exists := c.Get(constants.ContextKeyEmployeeRole)
	if !exists {
		return "", false
	}

	role, ok := value.(models.EmployeeRole)
	if !ok {
		return "", false
	}
	return role, true
}
