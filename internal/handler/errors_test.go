package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/msomdec/todo-api/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: title is required", domain.ErrValidation), http.StatusUnprocessableEntity},
		{domain.ErrDuplicateEmail, http.StatusBadRequest},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrMissingCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidAuthScheme, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrUserNotFound, http.StatusUnauthorized},
		{fmt.Errorf("get todo: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		got, msg := statusFor(tt.err)
		assert.Equal(t, tt.want, got, tt.err.Error())
		assert.NotEmpty(t, msg)
	}
}

func TestStatusFor_ValidationKeepsMessage(t *testing.T) {
	err := fmt.Errorf("%w: title must be at most 500 characters", domain.ErrValidation)
	_, msg := statusFor(err)
	assert.Equal(t, err.Error(), msg)
}

func TestStatusFor_InternalErrorsAreOpaque(t *testing.T) {
	_, msg := statusFor(errors.New("pq: connection refused to 10.0.0.5"))
	assert.NotContains(t, msg, "10.0.0.5")
}

func TestMetrics_AuthEvent(t *testing.T) {
	m := NewMetrics()

	m.authEvent("login", nil)
	m.authEvent("login", domain.ErrInvalidCredentials)
	m.authEvent("login", domain.ErrInvalidCredentials)
	m.authEvent("login", errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login", "error")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.authEvent("login", nil) })
}
