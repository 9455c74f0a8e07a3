package auth

import (
	"context"
	"errors"

	"go-slms/internal/employee"
	"go-slms/internal/user"

	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	FindUserByUsername(ctx context.Context, username string) (*user.User, error)
	FindUserByID(ctx context.Context, id string) (*user.User, error)
	// FindEmployeeIDByUserID returns "" when the account has no employee
	// profile (admin and HR accounts).
	FindEmployeeIDByUserID(ctx context.Context, userID string) (string, error)
	UpdatePassword(ctx context.Context, userID, hashed string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindUserByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	return &u, err
}

func (r *repository) FindUserByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindEmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var e employee.Employee
	err := r.db.WithContext(ctx).
		Select("id").
		First(&e, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return e.ID.String(), nil
}

func (r *repository) UpdatePassword(ctx context.Context, userID, hashed string) error {
	return r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", userID).
		Update("password", hashed).Error
}
