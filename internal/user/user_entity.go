package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username string    `gorm:"type:varchar(150);not null;uniqueIndex:uq_user_username"`
	Email    string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_user_email"`
	Password string    `gorm:"type:varchar(255);not null"`

	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`
	Role      string `gorm:"type:varchar(30);not null;default:'EMPLOYEE';index:idx_users_role"`
	IsActive  bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_users_deleted_at"`
}
