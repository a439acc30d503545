package leave

import (
	"github.com/ankitsharma97/leaveManagement/internal/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope returns the visibility filter for a principal, evaluated fresh
// on every query: hr sees everything, a manager sees their own requests
// plus their direct reports', an employee only their own.
func Scope(viewer Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch viewer.Role {
		case user.RoleHR:
			return db
		case user.RoleManager:
			return db.Where(
				"employee_id = ? OR employee_id IN (SELECT id FROM users WHERE manager_id = ? AND deleted_at IS NULL)",
				viewer.ID, viewer.ID,
			)
		default:
			return db.Where("employee_id = ?", viewer.ID)
		}
	}
}

// CanView is the object-level mirror of Scope for rows already in hand.
func CanView(viewer Actor, ownerID uuid.UUID, ownerManagerID *uuid.UUID) bool {
	switch viewer.Role {
	case user.RoleHR:
		return true
	case user.RoleManager:
		if viewer.ID == ownerID {
			return true
		}
		return ownerManagerID != nil && *ownerManagerID == viewer.ID
	default:
		return viewer.ID == ownerID
	}
}

// CanModify gates update and delete: the owning employee or HR.
func CanModify(viewer Actor, ownerID uuid.UUID) bool {
	return viewer.ID == ownerID || viewer.Role == user.RoleHR
}
