package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/middleware"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/policy"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"github.com/yukikurage/team-task-tracker/internal/utils"
)

// respondError maps service and policy errors to HTTP responses
func respondError(c *gin.Context, err error) {
	switch {
	// authentication
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, services.ErrInactiveAccount):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInactiveAccount, err.Error())

	// authorization
	case errors.Is(err, policy.ErrForbidden),
		errors.Is(err, policy.ErrCannotProvisionFor),
		errors.Is(err, services.ErrIncorrectPassword):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, policy.ErrFieldNotPermitted):
		apierrors.RespondWithError(c, http.StatusForbidden,
			apierrors.NewAPIError(apierrors.ErrCodeInsufficientPermissions, err.Error()))

	// not found or outside the ownership chain
	case errors.Is(err, policy.ErrNotFound),
		errors.Is(err, policy.ErrBrokenChain),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTimeLogNotFound):
		apierrors.NotFound(c, err.Error())

	// invariant violations
	case errors.Is(err, services.ErrDailyCapExceeded):
		apierrors.InvalidOperation(c, apierrors.ErrCodeDailyCapExceeded, err.Error())
	case errors.Is(err, services.ErrTaskCompleted):
		apierrors.InvalidOperation(c, apierrors.ErrCodeTaskCompleted, err.Error())
	case errors.Is(err, policy.ErrInvalidAssignee):
		apierrors.InvalidOperation(c, apierrors.ErrCodeInvalidAssignee, err.Error())
	case errors.Is(err, policy.ErrSelfTarget):
		apierrors.InvalidOperation(c, apierrors.ErrCodeSelfTarget, err.Error())

	// validation
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrNoFieldsToUpdate),
		errors.Is(err, services.ErrFutureDate),
		errors.Is(err, services.ErrInvalidHours),
		errors.Is(err, services.ErrNotesTooLong),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidFullName),
		errors.Is(err, services.ErrAITextRequired),
		errors.Is(err, utils.ErrWeakPassword),
		errors.Is(err, utils.ErrInvalidPagination),
		errors.Is(err, utils.ErrInvalidDate):
		apierrors.BadRequest(c, err.Error())

	// conflicts
	case errors.Is(err, services.ErrRetryableConflict):
		apierrors.Busy(c, "")
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDuplicate):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrAlreadyInState),
		errors.Is(err, services.ErrAdminExists):
		apierrors.Conflict(c, err.Error())

	// task drafting
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks),
		errors.Is(err, services.ErrAITooManyTasks):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity,
			apierrors.NewAPIError(apierrors.ErrCodeOperationFailed, err.Error()))

	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// requireActor returns the authenticated actor or writes a 401
func requireActor(c *gin.Context) (*models.User, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return actor, true
}

// uuidParam parses a path parameter or writes a 400
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads limit/offset or writes a 400
func pagination(c *gin.Context) (utils.PaginationParams, bool) {
	params, err := utils.GetPaginationParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return params, false
	}
	return params, true
}

// bindError reports a request body that failed to bind, naming the
// offending fields when validation rejected it
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	apierrors.BadRequestWithDetails(c, "Invalid request body", details)
}
