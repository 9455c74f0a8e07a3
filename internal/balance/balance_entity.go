package balance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is the per (employee, leave type, year) ledger row. DaysRemaining
// is derived: every write recomputes it as DaysEntitled - DaysUsed.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_key"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_key"`
	Year        int       `gorm:"not null;uniqueIndex:uq_balance_key"`

	DaysEntitled  int `gorm:"not null;default:0"`
	DaysUsed      int `gorm:"not null;default:0"`
	DaysRemaining int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveEntitlement records an HR grant of entitled days for a (leave type,
// year). It is kept in lockstep with the matching LeaveBalance row.
type LeaveEntitlement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_entitlement_key"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_entitlement_key"`
	Year        int       `gorm:"not null;uniqueIndex:uq_entitlement_key"`

	DaysEntitled    int        `gorm:"not null;default:0"`
	GrantedByUserID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
