package leavetype

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_type_name"`
	Description string    `gorm:"type:text"`

	// MaxDaysPerYear is informational; the balance ledger does not cap usage.
	MaxDaysPerYear   int  `gorm:"type:int;not null;default:0"`
	RequiresApproval bool `gorm:"not null;default:true"`
	IsActive         bool `gorm:"not null;default:true;index:idx_leave_types_active"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
