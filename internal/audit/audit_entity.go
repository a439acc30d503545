package audit

import (
	"time"

	"github.com/google/uuid"
)

// Transition is one immutable audit record documenting a status change.
// Rows are only ever inserted; there is no update or delete path.
type Transition struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	Action         string    `gorm:"type:varchar(50);not null"`

	// ByID survives principal deletion as NULL so history is preserved.
	ByID *uuid.UUID `gorm:"type:uuid"`
	By   *Actor     `gorm:"foreignKey:ByID"`

	Timestamp time.Time `gorm:"column:timestamp;not null"`
}

func (Transition) TableName() string { return "leave_transitions" }

// Actor is a minimal projection of the acting user row, for display.
type Actor struct {
	ID       uuid.UUID `gorm:"primaryKey"`
	Username string
}

func (Actor) TableName() string { return "users" }
