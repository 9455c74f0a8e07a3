package calendarevent

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=calendarevent_repo.go -destination=mock/calendarevent_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, e *CalendarEvent) error
	FindAll(ctx context.Context) ([]CalendarEvent, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]CalendarEvent, error)
	FindByID(ctx context.Context, id string) (*CalendarEvent, error)
	Update(ctx context.Context, e *CalendarEvent) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *CalendarEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]CalendarEvent, error) {
	var events []CalendarEvent
	err := r.db.WithContext(ctx).
		Order("start_time ASC").
		Find(&events).Error
	return events, err
}

func (r *repository) FindInRange(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	var events []CalendarEvent
	err := r.db.WithContext(ctx).
		Where("start_time < ? AND end_time >= ?", to, from).
		Order("start_time ASC").
		Find(&events).Error
	return events, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*CalendarEvent, error) {
	var e CalendarEvent
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *CalendarEvent) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&CalendarEvent{}, "id = ?", id).Error
}
