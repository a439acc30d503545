package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role drives every permission branch in the system. Kept as an explicit
// enum so the legal-transition set stays statically enumerable.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR:
		return true
	}
	return false
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email    string    `gorm:"type:varchar(255);not null"`
	Password string    `gorm:"type:text;not null"`
	Role     Role      `gorm:"type:varchar(20);not null;default:'employee'"`

	// Optional back-reference to this user's manager. A user never owns
	// its manager or its reports; deleting the manager clears the link.
	ManagerID *uuid.UUID `gorm:"type:uuid"`
	Manager   *User      `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`

	IsActive  bool `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
