package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/stempro/academy-api/internal/models"
	appErrors "github.com/stempro/academy-api/pkg/errors"
	"github.com/stempro/academy-api/pkg/response"
)

// AdminOnly restricts a route to users carrying the admin flag. It must
// run after JWT.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok || !claims.IsAdmin {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "not enough permissions"))
			c.Abort()
			return
		}

		c.Next()
	}
}
