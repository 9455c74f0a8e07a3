package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeInfo        = "INFO"
	TypeLeaveStatus = "LEAVE_STATUS"
	TypeLeaveEnded  = "LEAVE_ENDED"
)

type Notification struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientEmployeeID uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	SenderUserID        *uuid.UUID `gorm:"type:uuid"`

	Title   string `gorm:"type:varchar(255);not null"`
	Message string `gorm:"type:text;not null"`
	Type    string `gorm:"type:varchar(50);not null;default:'INFO'"`
	IsRead  bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
