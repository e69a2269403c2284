package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestRoleCanBypassVerification(t *testing.T) {
	if !RoleOwner.CanBypassVerification() {
		t.Error("Expected owner to bypass verification")
	}
	if !RoleManager.CanBypassVerification() {
		t.Error("Expected manager to bypass verification")
	}
	if RoleContributor.CanBypassVerification() {
		t.Error("Expected contributor to not bypass verification")
	}
	if RoleViewer.CanBypassVerification() {
		t.Error("Expected viewer to not bypass verification")
	}
	if RoleNone.CanBypassVerification() {
		t.Error("Expected none to not bypass verification")
	}
}

func TestProjectRoleOf(t *testing.T) {
	owner := uuid.New()
	contributor := uuid.New()
	project := &Project{
		ID:   uuid.New(),
		Name: "Website Redesign",
		Members: []Membership{
			{UserID: owner, Role: RoleOwner},
			{UserID: contributor, Role: RoleContributor},
		},
	}

	if got := project.RoleOf(owner); got != RoleOwner {
		t.Errorf("Expected role %q, got %q", RoleOwner, got)
	}
	if got := project.RoleOf(contributor); got != RoleContributor {
		t.Errorf("Expected role %q, got %q", RoleContributor, got)
	}
	if got := project.RoleOf(uuid.New()); got != RoleNone {
		t.Errorf("Expected role %q for non-member, got %q", RoleNone, got)
	}
}

func TestProjectResolveApprover(t *testing.T) {
	owner := uuid.New()
	manager := uuid.New()

	// Manager is preferred over owner regardless of member order
	project := &Project{
		ID:   uuid.New(),
		Name: "Website Redesign",
		Members: []Membership{
			{UserID: owner, Role: RoleOwner},
			{UserID: manager, Role: RoleManager},
		},
	}
	approver, ok := project.ResolveApprover()
	if !ok {
		t.Fatal("Expected an approver to be resolved")
	}
	if approver != manager {
		t.Errorf("Expected manager %v as approver, got %v", manager, approver)
	}

	// Falls back to the first owner when no manager exists
	project.Members = []Membership{
		{UserID: uuid.New(), Role: RoleContributor},
		{UserID: owner, Role: RoleOwner},
	}
	approver, ok = project.ResolveApprover()
	if !ok {
		t.Fatal("Expected an approver to be resolved")
	}
	if approver != owner {
		t.Errorf("Expected owner %v as approver, got %v", owner, approver)
	}

	// No owner or manager at all
	project.Members = []Membership{
		{UserID: uuid.New(), Role: RoleContributor},
		{UserID: uuid.New(), Role: RoleViewer},
	}
	if _, ok = project.ResolveApprover(); ok {
		t.Error("Expected no approver for a project without owner or manager")
	}
}
