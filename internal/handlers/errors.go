package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookmart/internal/common"
	"bookmart/internal/models"
)

// errorCode names the error kind for API clients. Handlers put it in the
// response body so callers can branch without parsing messages.
func errorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrSelfParent):
		return "SELF_PARENT"
	case errors.Is(err, models.ErrCyclicReference):
		return "CYCLIC_REFERENCE"
	case errors.Is(err, models.ErrActiveChildrenExist):
		return "ACTIVE_CHILDREN_EXIST"
	case errors.Is(err, models.ErrMultiplePrimaryCategories):
		return "MULTIPLE_PRIMARY_CATEGORIES"
	case errors.Is(err, models.ErrParentNotFound):
		return "PARENT_NOT_FOUND"
	case errors.Is(err, models.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, models.ErrDuplicateSlug),
		errors.Is(err, models.ErrDuplicateISBN),
		errors.Is(err, models.ErrDuplicateBook),
		errors.Is(err, models.ErrDuplicateAssociation):
		return "DUPLICATE"
	case errors.Is(err, models.ErrConstraintViolation):
		return "CONSTRAINT_VIOLATION"
	case errors.Is(err, models.ErrValidation):
		return "VALIDATION_ERROR"
	default:
		return "SERVER_ERROR"
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateSlug),
		errors.Is(err, models.ErrDuplicateISBN),
		errors.Is(err, models.ErrDuplicateBook),
		errors.Is(err, models.ErrDuplicateAssociation),
		errors.Is(err, models.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrSelfParent),
		errors.Is(err, models.ErrCyclicReference),
		errors.Is(err, models.ErrActiveChildrenExist),
		errors.Is(err, models.ErrMultiplePrimaryCategories),
		errors.Is(err, models.ErrParentNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a service error as a JSON error response. Unrecognized
// errors become opaque 500s so internals never leak to clients.
func respondError(c echo.Context, err error) error {
	status := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "operation could not be completed"
	}
	return c.JSON(status, common.CreateErrorResponse(errorCode(err), message, nil))
}
