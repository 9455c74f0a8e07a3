package balance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, b *LeaveBalance) error
	FindByKey(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error)

	// AddUsedDays shifts days_used by delta in a single statement so concurrent
	// writers cannot lose an increment. days_remaining is recomputed in the
	// same statement.
	AddUsedDays(ctx context.Context, id uuid.UUID, delta int) error

	// SetEntitled overwrites days_entitled and recomputes days_remaining.
	SetEntitled(ctx context.Context, id uuid.UUID, entitled int) error

	UpsertEntitlement(ctx context.Context, e *LeaveEntitlement) error
	FindEntitlements(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveEntitlement, error)
	FindEntitlementByID(ctx context.Context, id uuid.UUID) (*LeaveEntitlement, error)
	DeleteEntitlement(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	b.DaysRemaining = b.DaysEntitled - b.DaysUsed
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByKey(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		First(&b, "employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year).Error
	return &b, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("leave_type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) AddUsedDays(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&LeaveBalance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"days_used":      gorm.Expr("days_used + ?", delta),
			"days_remaining": gorm.Expr("days_entitled - (days_used + ?)", delta),
		}).Error
}

func (r *repository) SetEntitled(ctx context.Context, id uuid.UUID, entitled int) error {
	return r.db.WithContext(ctx).Model(&LeaveBalance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"days_entitled":  entitled,
			"days_remaining": gorm.Expr("? - days_used", entitled),
		}).Error
}

func (r *repository) UpsertEntitlement(ctx context.Context, e *LeaveEntitlement) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "employee_id"}, {Name: "leave_type_id"}, {Name: "year"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"days_entitled", "granted_by_user_id", "updated_at"}),
		}).
		Create(e).Error
}

func (r *repository) FindEntitlements(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveEntitlement, error) {
	var entitlements []LeaveEntitlement
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("leave_type_id ASC").
		Find(&entitlements).Error
	return entitlements, err
}

func (r *repository) FindEntitlementByID(ctx context.Context, id uuid.UUID) (*LeaveEntitlement, error) {
	var e LeaveEntitlement
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) DeleteEntitlement(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&LeaveEntitlement{}, "id = ?", id).Error
}
