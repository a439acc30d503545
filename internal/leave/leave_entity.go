package leave

import (
	"time"

	"github.com/google/uuid"
)

// Status is the approval-lifecycle stage of a leave request. draft is
// initial; approved_hr, rejected and cancelled are terminal.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusSubmitted       Status = "submitted"
	StatusApprovedManager Status = "approved_manager"
	StatusApprovedHR      Status = "approved_hr"
	StatusRejected        Status = "rejected"
	StatusCancelled       Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApprovedManager,
		StatusApprovedHR, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no outgoing transition is defined for s.
func (s Status) Terminal() bool {
	switch s {
	case StatusApprovedHR, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

const (
	LeaveTypeCasual    = "CL"
	LeaveTypeSick      = "SL"
	LeaveTypePrivilege = "PL"
)

type LeaveRequest struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// EmployeeID never changes after creation.
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Employee   *Requester `gorm:"foreignKey:EmployeeID"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	LeaveType string    `gorm:"type:varchar(2);not null"`
	Reason    string    `gorm:"type:text"`

	Status Status `gorm:"type:varchar(20);not null;default:'draft';index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }

// Requester is a read-side projection of the owning user row, enough to
// serialize the nested employee object and resolve the manager link.
type Requester struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	Username  string
	Email     string
	Role      string
	ManagerID *uuid.UUID
	Manager   *Requester `gorm:"foreignKey:ManagerID"`
}

func (Requester) TableName() string { return "users" }
