package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, l *LeaveRequest) error
	FindAll(ctx context.Context, q ListLeavesQuery) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error)
	FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id string) error

	// FindOverlapping returns pending or approved requests for the employee
	// whose closed interval intersects [from, to]. excludeID skips the request
	// being edited.
	FindOverlapping(ctx context.Context, employeeID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]LeaveRequest, error)

	// HasApprovedLeaveOn reports whether the employee has an approved request
	// covering the given day.
	HasApprovedLeaveOn(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error)

	CountByStatus(ctx context.Context, status string) (int64, error)

	// FindEndedUnnotified lists approved requests whose to_date lies strictly
	// before the given day and that have not had their end flagged yet.
	FindEndedUnnotified(ctx context.Context, before time.Time, limit int) ([]LeaveRequest, error)
	MarkEndNotified(ctx context.Context, id uuid.UUID) error

	// DepartmentOfEmployee and DepartmentOfUser resolve department membership
	// for the approval scope check. Both return nil when the profile exists
	// but has no department, and gorm.ErrRecordNotFound when there is no
	// profile at all.
	DepartmentOfEmployee(ctx context.Context, employeeID uuid.UUID) (*uuid.UUID, error)
	DepartmentOfUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, q ListLeavesQuery) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx)
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.EmployeeID != "" {
		db = db.Where("employee_id = ?", q.EmployeeID)
	}

	var leaves []LeaveRequest
	err := db.Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("employees.department_id = ?", departmentID).
		Order("leave_requests.created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}

func (r *repository) FindOverlapping(ctx context.Context, employeeID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("from_date <= ? AND to_date >= ?", to, from)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}

	var leaves []LeaveRequest
	err := db.Find(&leaves).Error
	return leaves, err
}

func (r *repository) HasApprovedLeaveOn(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("from_date <= ? AND to_date >= ?", day, day).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) FindEndedUnnotified(ctx context.Context, before time.Time, limit int) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusApproved).
		Where("to_date < ?", before).
		Where("end_notification_sent = ?", false).
		Order("to_date ASC").
		Limit(limit).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) MarkEndNotified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&LeaveRequest{}).
		Where("id = ?", id).
		Update("end_notification_sent", true).Error
}

func (r *repository) DepartmentOfEmployee(ctx context.Context, employeeID uuid.UUID) (*uuid.UUID, error) {
	var row struct {
		DepartmentID *uuid.UUID
	}
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("department_id").
		Where("id = ?", employeeID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return row.DepartmentID, nil
}

func (r *repository) DepartmentOfUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	var row struct {
		DepartmentID *uuid.UUID
	}
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("department_id").
		Where("user_id = ?", userID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return row.DepartmentID, nil
}
