package rest

import (
	"errors"
	"net/http"

	"userbase/internal/service"
	"userbase/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Errors []string `json:"errors"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every error as an ErrorResponse. Internal errors are
// logged and hidden from the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusFor(err)
	body := ErrorResponse{Errors: []string{err.Error()}}

	var (
		he   *echo.HTTPError
		verr *service.ValidationError
	)
	switch {
	case errors.As(err, &he):
		status = he.Code
		body.Errors = []string{http.StatusText(he.Code)}
		if msg, ok := he.Message.(string); ok && msg != "" {
			body.Errors = []string{msg}
		}
	case errors.As(err, &verr):
		body.Errors = verr.Messages
	case status == http.StatusInternalServerError:
		logger.FromContext(c.Request().Context()).Error("request failed",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"error", err,
		)
		body.Errors = []string{"Internal Server Error"}
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logger.FromContext(c.Request().Context()).Error("write error response", "error", werr)
	}
}
