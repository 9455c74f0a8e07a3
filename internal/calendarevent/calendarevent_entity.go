package calendarevent

import (
	"time"

	"github.com/google/uuid"
)

type CalendarEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	EventType   string    `gorm:"type:varchar(50);not null;default:'OTHER'"`
	Location    string    `gorm:"type:varchar(255)"`

	StartTime time.Time `gorm:"not null;index:idx_calendar_events_start"`
	EndTime   time.Time `gorm:"not null"`
	IsAllDay  bool      `gorm:"not null;default:false"`

	CreatedByUserID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
