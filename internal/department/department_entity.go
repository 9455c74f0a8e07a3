package department

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Department struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(200);not null;uniqueIndex:uq_department_name"`
	Description string    `gorm:"type:text"`
	// HeadUserID is the account reviewing this department's leave requests.
	HeadUserID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_departments_deleted_at"`
}
