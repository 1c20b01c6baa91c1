package http

import (
	"errors"
	"net/http"

	"ordering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code      int      `json:"code"`
	Message   string   `json:"message"`
	Fields    []string `json:"fields,omitempty"`
	Current   string   `json:"current,omitempty"`
	Attempted string   `json:"attempted,omitempty"`
}

// errorMapping tweaks the status of specific error classes for one endpoint.
type errorMapping struct {
	notFoundStatus int
}

var defaultMapping = errorMapping{notFoundStatus: http.StatusNotFound}

// patchMapping reports unknown target orders as a bad request.
var patchMapping = errorMapping{notFoundStatus: http.StatusBadRequest}

func (s *Server) writeError(c echo.Context, err error, mapping errorMapping) error {
	resp := mapError(err, mapping)
	if resp.Code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}
	return c.JSON(resp.Code, resp)
}

func mapError(err error, mapping errorMapping) ErrorResponse {
	var transition *errs.InvalidTransitionError

	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		return ErrorResponse{Code: http.StatusUnauthorized, Message: err.Error()}
	case errors.Is(err, errs.ErrForbidden):
		return ErrorResponse{Code: http.StatusForbidden, Message: err.Error()}
	case errors.As(err, &transition):
		return ErrorResponse{
			Code:      http.StatusBadRequest,
			Message:   err.Error(),
			Current:   transition.Current,
			Attempted: transition.Attempted,
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		return ErrorResponse{Code: mapping.notFoundStatus, Message: err.Error()}
	case errors.Is(err, errs.ErrConcurrentModification):
		return ErrorResponse{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return ErrorResponse{Code: http.StatusBadRequest, Message: err.Error(), Fields: fieldNames(err)}
	default:
		return ErrorResponse{Code: http.StatusInternalServerError, Message: "internal server error"}
	}
}

// fieldNames collects the parameter names of every validation error in the tree.
func fieldNames(err error) []string {
	var fields []string
	var walk func(error)
	walk = func(e error) {
		switch v := e.(type) {
		case *errs.ValueIsRequiredError:
			fields = append(fields, v.ParamName)
		case *errs.ValueIsInvalidError:
			fields = append(fields, v.ParamName)
		case *errs.ValueIsOutOfRangeError:
			fields = append(fields, v.ParamName)
		case interface{ Unwrap() []error }:
			for _, inner := range v.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(v.Unwrap())
		}
	}
	walk(err)
	return fields
}

