package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/todo-api/internal/domain"
)

const msgNotAuthenticated = "Could not validate credentials"

// errorStatuses maps each domain error to its HTTP status and client
// message. Order matters where one error wraps another.
var errorStatuses = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrValidation, http.StatusUnprocessableEntity, ""},
	{domain.ErrDuplicateEmail, http.StatusBadRequest, "Email already registered"},
	{domain.ErrConflict, http.StatusConflict, "Conflict"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect email or password"},
	{domain.ErrMissingCredentials, http.StatusUnauthorized, msgNotAuthenticated},
	{domain.ErrInvalidAuthScheme, http.StatusUnauthorized, msgNotAuthenticated},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired refresh token"},
	{domain.ErrUserNotFound, http.StatusUnauthorized, "User not found"},
	{domain.ErrNotFound, http.StatusNotFound, "Todo not found"},
	{domain.ErrForbidden, http.StatusForbidden, "Not authorized to modify this todo"},
}

// statusFor returns the status code and client message for err. Validation
// errors carry their own message; unknown errors are a 500.
func statusFor(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			if e.message == "" {
				return e.status, err.Error()
			}
			return e.status, e.message
		}
	}
	return http.StatusInternalServerError, "An unexpected error occurred. Please try again."
}

// writeServiceError writes the response for an error returned by a service
// and logs it when it is not one of the known domain errors.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(op, "error", err)
	}
	writeError(w, status, message)
}
