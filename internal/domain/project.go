package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Project-specific validation errors
var (
	// ErrProjectIDEmpty is returned when a project ID is empty or nil.
	ErrProjectIDEmpty = errors.New("project ID cannot be empty")

	// ErrProjectNameEmpty is returned when a project's name is empty.
	ErrProjectNameEmpty = errors.New("project name cannot be empty")
)

// Role is the closed set of capabilities a user can hold within a project.
// RoleNone is the resolution result for non-members; it is never stored.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleManager     Role = "manager"
	RoleContributor Role = "contributor"
	RoleViewer      Role = "viewer"
	RoleNone        Role = "none"
)

// CanBypassVerification reports whether the role may apply task status
// changes directly, without opening a verification request. These are the
// same roles that may be resolved as approvers.
func (r Role) CanBypassVerification() bool {
	return r == RoleOwner || r == RoleManager
}

// Membership ties a user to a project with a role.
type Membership struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// Project scopes tasks and memberships. Only the membership surface is
// relevant to this subsystem; project CRUD is an external collaborator.
type Project struct {
	ID          uuid.UUID    `json:"id"`
	WorkspaceID uuid.UUID    `json:"workspace_id"`
	Name        string       `json:"name"`
	Members     []Membership `json:"members"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Validate checks if the Project has valid data.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrProjectIDEmpty
	}
	if p.Name == "" {
		return ErrProjectNameEmpty
	}
	return nil
}

// RoleOf resolves the role userID holds in this project. Returns RoleNone
// for non-members. All permission checks in the gate and the ledger go
// through this single resolution point.
func (p *Project) RoleOf(userID uuid.UUID) Role {
	for _, m := range p.Members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return RoleNone
}

// ResolveApprover selects the member a verification request should be routed
// to: the first manager, falling back to the first owner. Returns uuid.Nil
// and false when the project has no member able to approve.
func (p *Project) ResolveApprover() (uuid.UUID, bool) {
	var owner uuid.UUID
	var hasOwner bool
	for _, m := range p.Members {
		switch m.Role {
		case RoleManager:
			return m.UserID, true
		case RoleOwner:
			if !hasOwner {
				owner = m.UserID
				hasOwner = true
			}
		}
	}
	return owner, hasOwner
}
