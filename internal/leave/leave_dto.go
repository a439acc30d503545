package leave

import (
	"github.com/ankitsharma97/leaveManagement/internal/audit"
	"github.com/ankitsharma97/leaveManagement/internal/user"
)

type CreateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	LeaveType string `json:"leave_type" binding:"required,oneof=CL SL PL"`
	Reason    string `json:"reason" binding:"required"`
}

// UpdateLeaveRequest carries only the non-status fields; status moves
// exclusively through the transition endpoints.
type UpdateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	LeaveType string `json:"leave_type" binding:"required,oneof=CL SL PL"`
	Reason    string `json:"reason" binding:"required"`
}

type LeaveResponse struct {
	ID          string                     `json:"id"`
	Employee    user.UserResponse          `json:"employee"`
	StartDate   string                     `json:"start_date"`
	EndDate     string                     `json:"end_date"`
	LeaveType   string                     `json:"leave_type"`
	Reason      string                     `json:"reason"`
	Status      string                     `json:"status"`
	CreatedAt   string                     `json:"created_at"`
	UpdatedAt   string                     `json:"updated_at"`
	Transitions []audit.TransitionResponse `json:"transitions"`
}
