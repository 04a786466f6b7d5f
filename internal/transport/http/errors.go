package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"studyhub/internal/domain"
)

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrOptionNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrMaterialNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidPhase),
		errors.Is(err, domain.ErrSessionBusy),
		errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProfileMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrFetchFailure), errors.Is(err, domain.ErrWriteFailure):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// errorHandler renders every handler error as {"error": ...}; validation
// failures add a "fields" map.
func errorHandler(err error, c echo.Context) {
	var (
		code int
		body echo.Map
	)

	var herr *echo.HTTPError
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &herr):
		code = herr.Code
		body = echo.Map{"error": herr.Message}
	case errors.As(err, &verr):
		code = http.StatusBadRequest
		body = echo.Map{"error": domain.ErrValidation.Error(), "fields": verr.Fields}
	default:
		code = statusOf(err)
		if code >= http.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
		}
		if code == http.StatusInternalServerError {
			body = echo.Map{"error": http.StatusText(code)}
		} else {
			body = echo.Map{"error": err.Error()}
		}
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		log.Printf("write error response: %v", err)
	}
}
