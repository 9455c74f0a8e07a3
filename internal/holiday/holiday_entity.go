package holiday

import (
	"time"

	"github.com/google/uuid"
)

// Holiday marks a calendar date as non-working. Recurring holidays repeat on
// the same month and day every year.
type Holiday struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Date        time.Time `gorm:"type:date;not null;index:idx_holidays_date"`
	Description string    `gorm:"type:text"`
	IsRecurring bool      `gorm:"not null;default:false"`
	IsActive    bool      `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
