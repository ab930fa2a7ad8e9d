package models

import (
	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

// ApprovalStatus is the tri-state moderation value shared by users,
// courses and reviews. Entities embed it by composition; the legal
// transitions live here so no call site compares raw strings.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Valid reports whether the value is one of the known states.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsApproved reports whether the entity has passed moderation.
func (s ApprovalStatus) IsApproved() bool {
	return s == StatusApproved
}

// ParseDecision validates an admin moderation decision. Only the two
// terminal states are acceptable targets; anything else is rejected
// before any lookup or mutation happens.
func ParseDecision(raw string) (ApprovalStatus, error) {
	status := ApprovalStatus(raw)
	if status != StatusApproved && status != StatusRejected {
		return "", appErrors.ErrInvalidStatus
	}
	return status, nil
}

// CanDecide reports whether a moderation decision may be applied to an
// entity currently in the given state. Decisions are one-shot: only
// pending entities are open for review. A course re-enters pending via
// Resubmit, never via an admin decision.
func CanDecide(current ApprovalStatus) bool {
	return current == StatusPending
}

// Resubmit is the single legal edge back into pending: an approved
// course whose content changed must pass moderation again. It returns
// the status the entity should carry after a content edit.
func Resubmit(current ApprovalStatus) ApprovalStatus {
	if current == StatusApproved {
		return StatusPending
	}
	return current
}

// InitialUserStatus returns the status a freshly registered user
// carries: teachers queue for approval, admins and students are live
// immediately.
func InitialUserStatus(role UserRole) ApprovalStatus {
	if role == RoleTeacher {
		return StatusPending
	}
	return StatusApproved
}
