package leave

import (
	"time"

	"github.com/google/uuid"
)

// LeaveRequest is the central transactional entity. Both approver fields are
// informational once the request reaches a terminal status; the status itself
// only moves through the service's transition table.
type LeaveRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	LeaveTypeID *uuid.UUID `gorm:"type:uuid;index:idx_leave_requests_type"`

	// LeaveTypeName is the free-text fallback when no LeaveType row is linked.
	LeaveTypeName string `gorm:"type:varchar(100)"`

	FromDate time.Time `gorm:"type:date;not null"`
	ToDate   time.Time `gorm:"type:date;not null"`
	Reason   string    `gorm:"type:text"`
	Status   string    `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`

	DeptHeadApproverID *uuid.UUID `gorm:"type:uuid"`
	DeptHeadComment    string     `gorm:"type:text"`
	HRApproverID       *uuid.UUID `gorm:"type:uuid"`
	HRComment          string     `gorm:"type:text"`
	RejectionReason    string     `gorm:"type:text"`

	EndNotificationSent bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
