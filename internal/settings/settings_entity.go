package settings

import (
	"time"

	"github.com/google/uuid"
)

type SystemSetting struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key   string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_setting_key"`
	Value string    `gorm:"type:text;not null"`

	Description     string     `gorm:"type:text"`
	UpdatedByUserID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
