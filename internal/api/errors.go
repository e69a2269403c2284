package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/service/statusgate"
	"github.com/taskhive/taskhive-api/internal/service/verification"
	"github.com/taskhive/taskhive-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, statusgate.ErrNotAMember),
		errors.Is(err, statusgate.ErrForbidden),
		errors.Is(err, verification.ErrNotProjectMember),
		errors.Is(err, verification.ErrNotAuthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Workflow conflicts surfaced as bad requests, matching the messages the
	// client UI expects
	case errors.Is(err, store.ErrPendingVerificationExists),
		errors.Is(err, verification.ErrAlreadyDecided),
		errors.Is(err, verification.ErrNoApprover),
		errors.Is(err, verification.ErrInvalidListRole),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrInvalidVerificationStatus),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Other duplicates are conflicts
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	// Authorization errors
	case errors.Is(err, statusgate.ErrNotAMember),
		errors.Is(err, verification.ErrNotProjectMember):
		return "You are not a member of this project"

	case errors.Is(err, statusgate.ErrForbidden):
		return "You are not allowed to change this task's status"

	case errors.Is(err, verification.ErrNotAuthorized):
		return "You are not authorized for this operation"

	// Workflow conflicts
	case errors.Is(err, store.ErrPendingVerificationExists):
		return "There is already a pending verification for this task. Please wait for approval."

	case errors.Is(err, verification.ErrAlreadyDecided):
		return "This verification request has already been decided"

	case errors.Is(err, verification.ErrNoApprover):
		return "No project manager or owner is available to approve this request"

	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrProjectNotFound):
		return "Project not found"

	case errors.Is(err, store.ErrVerificationNotFound):
		return "Verification request not found"

	case errors.Is(err, store.ErrNotificationNotFound):
		return "Notification not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid task status"

	case errors.Is(err, domain.ErrInvalidVerificationStatus):
		return "Invalid verification status"

	case errors.Is(err, domain.ErrInvalidDecision):
		return "Decision outcome must be approved or rejected"

	case errors.Is(err, verification.ErrInvalidListRole):
		return "Role must be approver or requester"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'DecisionRequest.Outcome' Error:Field validation for 'Outcome' failed on the 'oneof' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
