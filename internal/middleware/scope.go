package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/models"
)

// RequireRole rejects actors whose role is not listed
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "Your role cannot perform this action")
		c.Abort()
	}
}

// RequireSelf checks that the account addressed by the path parameter is the
// actor holding role
func RequireSelf(param string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		id, err := uuid.Parse(c.Param(param))
		if err != nil {
			apierrors.BadRequest(c, "Invalid "+param)
			c.Abort()
			return
		}

		if actor.ID != id || actor.Role != role {
			apierrors.Forbidden(c, "You can only act on your own account")
			c.Abort()
			return
		}

		c.Next()
	}
}
