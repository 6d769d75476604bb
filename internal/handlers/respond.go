package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/officedesk/internal/constants"
	apierrors "github.com/yukikurage/officedesk/internal/errors"
	"github.com/yukikurage/officedesk/internal/logging"
	"github.com/yukikurage/officedesk/internal/middleware"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/services"
)

// respondError maps service errors to API errors. Anything unrecognised is
// logged and reported as an internal error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrTaskTypeNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrMilestoneNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskAccessDenied),
		errors.Is(err, services.ErrNotTaskAssignee),
		errors.Is(err, services.ErrCannotDeleteSelf):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidUserStatus),
		errors.Is(err, services.ErrPhoneRequired),
		errors.Is(err, services.ErrAddressRequired),
		errors.Is(err, services.ErrMilestoneNameRequired),
		errors.Is(err, services.ErrDuplicateMilestoneOrder),
		errors.Is(err, services.ErrNegativeHours),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrDueDateRequired),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrAssigneeInactive),
		errors.Is(err, services.ErrInvalidTaskReference),
		errors.Is(err, services.ErrMessageRequired),
		errors.Is(err, services.ErrUnknownMention),
		errors.Is(err, services.ErrTextRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrTaskLocked),
		errors.Is(err, services.ErrConfirmationRequired):
		apierrors.UnprocessableOperation(c, err.Error())
	case errors.Is(err, services.ErrAIDisabled),
		errors.Is(err, services.ErrAIUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		logging.Logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		apierrors.InternalError(c, "Internal server error")
	}
}

// currentUser returns the user loaded by RequireAuth, answering 401 when
// the route was mounted without it.
func currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return user, ok
}
