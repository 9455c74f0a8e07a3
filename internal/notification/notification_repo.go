package notification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id string) (*Notification, error)
	FindByRecipient(ctx context.Context, employeeID uuid.UUID, unreadOnly bool) ([]Notification, error)
	CountUnread(ctx context.Context, employeeID uuid.UUID) (int64, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) error
	MarkAllRead(ctx context.Context, employeeID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	return &n, err
}

func (r *repository) FindByRecipient(ctx context.Context, employeeID uuid.UUID, unreadOnly bool) ([]Notification, error) {
	db := r.db.WithContext(ctx).Where("recipient_employee_id = ?", employeeID)
	if unreadOnly {
		db = db.Where("is_read = ?", false)
	}

	var notifications []Notification
	err := db.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *repository) CountUnread(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_employee_id = ? AND is_read = ?", employeeID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) SetRead(ctx context.Context, id uuid.UUID, read bool) error {
	return r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ?", id).
		Update("is_read", read).Error
}

func (r *repository) MarkAllRead(ctx context.Context, employeeID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_employee_id = ? AND is_read = ?", employeeID, false).
		Update("is_read", true).Error
}
