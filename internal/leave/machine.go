package leave

import (
	leaveerrors "github.com/ankitsharma97/leaveManagement/internal/leave/errors"
	"github.com/ankitsharma97/leaveManagement/internal/user"

	"github.com/google/uuid"
)

// Action is a caller-requested operation on a leave request.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
)

// Audit labels, fixed vocabulary written to the transition trail.
const (
	AuditSubmitted       = "submitted"
	AuditApprovedManager = "approved by manager"
	AuditApprovedHR      = "approved by HR"
	AuditRejected        = "rejected"
	AuditCancelled       = "cancelled"
)

// Actor is the authenticated principal performing a transition. It is
// always passed in explicitly; the machine never reads ambient state.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// Decision is the outcome of a legal transition: the status to persist
// and the audit label to record alongside it.
type Decision struct {
	Next  Status
	Audit string
}

// Decide is the approval state machine: a pure function from (current
// status, action, caller, ownership) to either a Decision or an error.
// It has no side effects; persisting the new status and appending the
// audit record are the caller's job, atomically.
//
// Error kinds matter: approval by a caller with no standing returns a
// 403 authorization error, while an action that no caller could perform
// from the current status returns a 400 state error. Cancellation keeps
// a single undifferentiated failure covering both causes. Ownership of
// submit is enforced by the access layer, not here.
func Decide(current Status, action Action, caller Actor, ownerID uuid.UUID, ownerManagerID *uuid.UUID) (Decision, error) {
	switch action {
	case ActionSubmit:
		if current != StatusDraft {
			return Decision{}, leaveerrors.ErrOnlyDraftSubmittable
		}
		return Decision{Next: StatusSubmitted, Audit: AuditSubmitted}, nil

	case ActionApprove:
		// The submitted branch is evaluated before approved_manager, and
		// within it manager authorization before HR.
		switch current {
		case StatusSubmitted:
			if caller.Role == user.RoleManager && ownerManagerID != nil && *ownerManagerID == caller.ID {
				return Decision{Next: StatusApprovedManager, Audit: AuditApprovedManager}, nil
			}
			if caller.Role == user.RoleHR {
				return Decision{Next: StatusApprovedHR, Audit: AuditApprovedHR}, nil
			}
			return Decision{}, leaveerrors.ErrApprovalNotAllowed
		case StatusApprovedManager:
			if caller.Role == user.RoleHR {
				return Decision{Next: StatusApprovedHR, Audit: AuditApprovedHR}, nil
			}
			return Decision{}, leaveerrors.ErrInvalidStatusForApproval
		default:
			return Decision{}, leaveerrors.ErrInvalidStatusForApproval
		}

	case ActionReject:
		if (current == StatusSubmitted || current == StatusApprovedManager) &&
			(caller.Role == user.RoleManager || caller.Role == user.RoleHR) {
			return Decision{Next: StatusRejected, Audit: AuditRejected}, nil
		}
		return Decision{}, leaveerrors.ErrInvalidRejection

	case ActionCancel:
		if !current.Terminal() && caller.ID == ownerID {
			return Decision{Next: StatusCancelled, Audit: AuditCancelled}, nil
		}
		return Decision{}, leaveerrors.ErrCannotCancel

	default:
		return Decision{}, leaveerrors.ErrUnknownAction
	}
}
