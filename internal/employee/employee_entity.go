package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_employee_user"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index:idx_employees_department"`

	EmployeeNumber string     `gorm:"type:varchar(50);not null;uniqueIndex:uq_employee_number"`
	FullName       string     `gorm:"type:varchar(255);not null"`
	EmployeeType   string     `gorm:"type:varchar(50);not null;default:'FULL_TIME'"`
	Gender         string     `gorm:"type:varchar(20)"`
	Address        string     `gorm:"type:text"`
	Phone          string     `gorm:"type:varchar(20)"`
	JoinDate       *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}
