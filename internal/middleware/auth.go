package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/services"
)

// Authenticator resolves a bearer credential to an active user
type Authenticator interface {
	Authenticate(token string) (*models.User, error)
}

// RequireAuth resolves the credential from the Authorization header, falling
// back to the session cookie, and stores the actor in the context
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.Authenticate(credential(c))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeTokenExpired, "Token has expired")
			case errors.Is(err, services.ErrInactiveAccount):
				apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInactiveAccount, "Account is inactive")
			case errors.Is(err, services.ErrTokenMissing),
				errors.Is(err, services.ErrTokenMalformed),
				errors.Is(err, services.ErrUserNotFound):
				apierrors.Unauthorized(c, "")
			case errors.Is(err, services.ErrRetryableConflict):
				apierrors.Busy(c, "")
			default:
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store the actor in context for easy access in handlers
		c.Set(constants.ContextKeyActor, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// GetActor retrieves the authenticated user from context
func GetActor(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func credential(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	if token, ok := sessions.Default(c).Get(constants.SessionKeyToken).(string); ok {
		return token
	}
	return ""
}
