package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=settings_repo.go -destination=mock/settings_repo_mock.go -package=mock
type Repository interface {
	Upsert(ctx context.Context, s *SystemSetting) error
	FindAll(ctx context.Context) ([]SystemSetting, error)
	FindByKey(ctx context.Context, key string) (*SystemSetting, error)
	Delete(ctx context.Context, key string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, s *SystemSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_by_user_id", "updated_at"}),
		}).
		Create(s).Error
}

func (r *repository) FindAll(ctx context.Context) ([]SystemSetting, error) {
	var settings []SystemSetting
	err := r.db.WithContext(ctx).
		Order("key ASC").
		Find(&settings).Error
	return settings, err
}

func (r *repository) FindByKey(ctx context.Context, key string) (*SystemSetting, error) {
	var s SystemSetting
	err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error
	return &s, err
}

func (r *repository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&SystemSetting{}, "key = ?", key).Error
}
