package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
	"github.com/noah-isme/sams-api/pkg/response"
)

type roles map[models.UserRole]struct{}

func roleSet(list []models.UserRole) roles {
	set := make(roles, len(list))
	for _, r := range list {
		set[r] = struct{}{}
	}
	return set
}

// permits reports whether role may pass. An empty set admits everyone.
func (r roles) permits(role models.UserRole) bool {
	if len(r) == 0 {
		return true
	}
	_, ok := r[role]
	return ok
}

// RequireRoles narrows an authenticated group to the given roles.
func RequireRoles(list ...models.UserRole) gin.HandlerFunc {
	allowed := roleSet(list)
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if !allowed.permits(claims.Role) {
			response.Abort(c, appErrors.ErrForbiddenRole)
			return
		}
		c.Next()
	}
}
