package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/skill-monitor/internal/profile"
	"github.com/jonathan/skill-monitor/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		invalid    *profile.ValidationError
		exists     *profile.AlreadyExistsError
		missing    *types.MissingInputError
		malformed  *types.MalformedRecordError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &invalid), errors.As(err, &malformed):
		return http.StatusBadRequest
	case errors.As(err, &exists):
		return http.StatusConflict
	case errors.As(err, &missing):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
