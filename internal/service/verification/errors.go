package verification

import "errors"

// Service-level errors for the verification workflow. Storage-level
// conditions (not found, duplicate pending) surface as store errors.
var (
	// ErrNotProjectMember is returned when the acting user holds no role in
	// the task's project.
	ErrNotProjectMember = errors.New("user is not a member of the task's project")

	// ErrNotAuthorized is returned when the acting user is a member but their
	// role does not permit the operation.
	ErrNotAuthorized = errors.New("user is not authorized for this operation")

	// ErrAlreadyDecided is returned when deciding a request that has already
	// reached a terminal state.
	ErrAlreadyDecided = errors.New("verification request has already been decided")

	// ErrNoApprover is returned when a request cannot be opened because the
	// project has no owner or manager to route it to.
	ErrNoApprover = errors.New("project has no member able to approve verification requests")

	// ErrInvalidListRole is returned when a listing is requested for a role
	// other than approver or requester.
	ErrInvalidListRole = errors.New("list role must be approver or requester")
)
