package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/service/statusgate"
	"github.com/taskhive/taskhive-api/internal/service/verification"
	"github.com/taskhive/taskhive-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"not a member", statusgate.ErrNotAMember, http.StatusForbidden},
		{"forbidden", statusgate.ErrForbidden, http.StatusForbidden},
		{"not project member", verification.ErrNotProjectMember, http.StatusForbidden},
		{"not authorized", verification.ErrNotAuthorized, http.StatusForbidden},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"verification not found", store.ErrVerificationNotFound, http.StatusNotFound},
		{"pending verification exists", store.ErrPendingVerificationExists, http.StatusBadRequest},
		{"already decided", verification.ErrAlreadyDecided, http.StatusBadRequest},
		{"no approver", verification.ErrNoApprover, http.StatusBadRequest},
		{"invalid list role", verification.ErrInvalidListRole, http.StatusBadRequest},
		{"invalid task status", domain.ErrInvalidTaskStatus, http.StatusBadRequest},
		{"invalid decision", domain.ErrInvalidDecision, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"other duplicate", store.ErrDuplicate, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))

			// Wrapping must not change the mapping
			wrapped := fmt.Errorf("handler: %w", tc.err)
			assert.Equal(t, tc.want, MapErrorToStatusCode(wrapped))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})

	t.Run("pending conflict keeps the client-facing wording", func(t *testing.T) {
		msg := GetSafeErrorMessage(store.ErrPendingVerificationExists)
		assert.Equal(t, "There is already a pending verification for this task. Please wait for approval.", msg)
	})

	t.Run("internal details never leak", func(t *testing.T) {
		err := errors.New("pq: connection refused host=10.0.0.5")
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
		assert.NotContains(t, msg, "10.0.0.5")
	})

	t.Run("specific not found messages", func(t *testing.T) {
		assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
		assert.Equal(t, "Verification request not found", GetSafeErrorMessage(store.ErrVerificationNotFound))
		assert.Equal(t, "Notification not found", GetSafeErrorMessage(store.ErrNotificationNotFound))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Run("extracts field and tag", func(t *testing.T) {
		err := errors.New("Key: 'DecisionRequest.Outcome' Error:Field validation for 'Outcome' failed on the 'oneof' tag")
		assert.Equal(t, "Invalid Outcome: invalid value", SanitizeValidationError(err))
	})

	t.Run("required tag", func(t *testing.T) {
		err := errors.New("Key: 'CreateRequest.RequestedStatus' Error:Field validation for 'RequestedStatus' failed on the 'required' tag")
		assert.Equal(t, "Invalid RequestedStatus: required field", SanitizeValidationError(err))
	})

	t.Run("non-validation errors collapse to a generic message", func(t *testing.T) {
		assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("json: cannot unmarshal")))
	})
}
