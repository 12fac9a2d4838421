package http

import (
	"errors"
	"net/http"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Message: message})
}

// statusFromError maps domain errors onto HTTP status codes. Anything
// unrecognized is a 500 and the caller substitutes a generic message.
func statusFromError(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrCarNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrDealershipNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrAlreadyBooked):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrAlreadyCompleted),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrPastDate),
		errors.Is(err, domain.ErrInvalidWorkingHours):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, true
	case errors.Is(err, domain.ErrAIResponseInvalid):
		return http.StatusBadGateway, true
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, true
	}
	return http.StatusInternalServerError, false
}

func newDomainErrorResponse(c *gin.Context, err error, fallback string) {
	status, known := statusFromError(err)
	if known {
		newErrorResponse(c, status, err.Error())
		return
	}
	newErrorResponse(c, status, fallback)
}
