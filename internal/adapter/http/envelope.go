package http

import (
	"errors"
	"fmt"
	"net/http"

	domain "backlog-snapshot-api/internal/domain/snapshot"
	"backlog-snapshot-api/internal/ingest"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeTooLarge       = "PAYLOAD_TOO_LARGE"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
)

// Envelope wraps every response body. Exactly one of Data and Error is set.
type Envelope struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

type APIError struct {
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Data: data})
}

// validationError carries field details for a 400 response.
type validationError struct {
	details []FieldError
}

func (e *validationError) Error() string { return "validation failed" }
func (e *validationError) Unwrap() error { return domain.ErrInvalidInput }

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		return CodeInvalidRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusRequestEntityTooLarge:
		return CodeTooLarge
	case http.StatusServiceUnavailable:
		return CodeUnavailable
	}
	if status >= 500 {
		return CodeInternal
	}
	return CodeInvalidRequest
}

// classify maps an error to its HTTP status and client-facing error body.
func classify(err error) (int, *APIError) {
	var (
		he  *echo.HTTPError
		ve  *validationError
		ing *ingest.Error
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, &APIError{Message: ve.Error(), Code: CodeInvalidRequest, Details: ve.details}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, &APIError{Message: "Snapshot not found", Code: CodeNotFound}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, &APIError{Message: err.Error(), Code: CodeInvalidRequest}
	case errors.As(err, &he):
		return he.Code, &APIError{Message: fmt.Sprint(he.Message), Code: codeFor(he.Code)}
	case errors.As(err, &ing):
		return http.StatusInternalServerError, &APIError{Message: ing.Public(), Code: CodeInternal}
	default:
		return http.StatusInternalServerError, &APIError{Message: "internal server error", Code: CodeInternal}
	}
}

func respondError(c echo.Context, err error) error {
	status, body := classify(err)
	return c.JSON(status, Envelope{Error: body})
}

// ErrorHandler renders errors that escape handlers, such as those raised by
// middleware, in the response envelope.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := classify(err)
		if status >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Request().URL.Path).Error("unhandled error")
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, Envelope{Error: body})
		}
		if werr != nil {
			log.WithError(werr).Warn("write error response")
		}
	}
}
