// Package handler defines the HTTP handlers for the API. Handlers bind
// request DTOs, call into the repository layer with a bounded context
// and translate repository sentinels into JSON error responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fcrit/campus-events/internal/repository"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeoutSeconds = 5

// getUserID extracts the authenticated subject id from the context,
// tolerating the types a JWT claim may decode to.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the named path parameter as a positive integer id.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// repoStatus maps repository sentinels to an HTTP status and message.
// The boolean reports whether the error was one of the known sentinels;
// unknown errors should surface as 500 with a handler-chosen message.
func repoStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return http.StatusNotFound, "event not found", true
	case errors.Is(err, repository.ErrModeratorNotFound):
		return http.StatusNotFound, "moderator not found", true
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden, "forbidden", true
	case errors.Is(err, repository.ErrEmailExists):
		return http.StatusConflict, "email already exists", true
	case errors.Is(err, repository.ErrNoModerators):
		return http.StatusConflict, "no moderators configured", true
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return http.StatusConflict, "already registered for this event", true
	case errors.Is(err, repository.ErrDuplicateTxn):
		return http.StatusConflict, "transaction id already used", true
	case errors.Is(err, repository.ErrRegistrationClosed):
		return http.StatusConflict, "registration is not open for this event", true
	case errors.Is(err, repository.ErrTxnRequired):
		return http.StatusBadRequest, "transaction id required for paid event", true
	}
	return 0, "", false
}

// jsonRepoError writes the mapped error response, falling back to a 500
// with the given message for unexpected failures.
func jsonRepoError(c echo.Context, err error, fallback string) error {
	if code, msg, ok := repoStatus(err); ok {
		return c.JSON(code, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}
