package auth_test

import (
	"context"
	"testing"
	"time"

	"go-slms/internal/auth"
	autherrors "go-slms/internal/auth/errors"
	"go-slms/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAuthRepository struct {
	findUserByUsernameFn     func(ctx context.Context, username string) (*user.User, error)
	findUserByIDFn           func(ctx context.Context, id string) (*user.User, error)
	findEmployeeIDByUserIDFn func(ctx context.Context, userID string) (string, error)
	updatePasswordFn         func(ctx context.Context, userID, hashed string) error
}

func (f *fakeAuthRepository) FindUserByUsername(ctx context.Context, username string) (*user.User, error) {
	if f.findUserByUsernameFn != nil {
		return f.findUserByUsernameFn(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAuthRepository) FindUserByID(ctx context.Context, id string) (*user.User, error) {
	if f.findUserByIDFn != nil {
		return f.findUserByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAuthRepository) FindEmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	if f.findEmployeeIDByUserIDFn != nil {
		return f.findEmployeeIDByUserIDFn(ctx, userID)
	}
	return "", nil
}
func (f *fakeAuthRepository) UpdatePassword(ctx context.Context, userID, hashed string) error {
	if f.updatePasswordFn != nil {
		return f.updatePasswordFn(ctx, userID, hashed)
	}
	return nil
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func activeUser(t *testing.T, password string) *user.User {
	t.Helper()
	return &user.User{
		ID:        uuid.New(),
		Username:  "jsmith",
		Password:  hashPassword(t, password),
		FirstName: "Jane",
		LastName:  "Smith",
		Role:      "HR",
		IsActive:  true,
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("success carries role and employee id in claims", func(t *testing.T) {
		u := activeUser(t, "s3cret-pass")
		employeeID := uuid.New().String()
		repo := &fakeAuthRepository{
			findUserByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
				assert.Equal(t, "jsmith", username)
				return u, nil
			},
			findEmployeeIDByUserIDFn: func(ctx context.Context, userID string) (string, error) {
				return employeeID, nil
			},
		}
		svc := auth.NewService(repo)

		resp, err := svc.Login(ctx, auth.LoginRequest{Username: "jsmith", Password: "s3cret-pass"})

		assert.NoError(t, err)
		assert.Equal(t, u.ID.String(), resp.UserID)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Equal(t, "HR", resp.Role)
		assert.Equal(t, "Jane Smith", resp.FullName)

		token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, u.ID.String(), claims["user_id"])
		assert.Equal(t, employeeID, claims["employee_id"])
		assert.Equal(t, "HR", claims["role"])
		assert.Equal(t, "access", claims["kind"])
	})

	t.Run("negative wrong password", func(t *testing.T) {
		u := activeUser(t, "s3cret-pass")
		repo := &fakeAuthRepository{
			findUserByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo)
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "jsmith", Password: "wrong"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown username", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "ghost", Password: "whatever"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative disabled account", func(t *testing.T) {
		u := activeUser(t, "s3cret-pass")
		u.IsActive = false
		repo := &fakeAuthRepository{
			findUserByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo)
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "jsmith", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, autherrors.ErrAccountDisabled)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("success issues a new access token", func(t *testing.T) {
		u := activeUser(t, "s3cret-pass")
		repo := &fakeAuthRepository{
			findUserByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
				return u, nil
			},
			findUserByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				assert.Equal(t, u.ID.String(), id)
				return u, nil
			},
		}
		svc := auth.NewService(repo)

		login, err := svc.Login(ctx, auth.LoginRequest{Username: "jsmith", Password: "s3cret-pass"})
		assert.NoError(t, err)

		resp, err := svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: login.RefreshToken})
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)

		token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "access", claims["kind"])
	})

	t.Run("negative access token is not accepted", func(t *testing.T) {
		u := activeUser(t, "s3cret-pass")
		repo := &fakeAuthRepository{
			findUserByUsernameFn: func(ctx context.Context, username string) (*user.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo)

		login, err := svc.Login(ctx, auth.LoginRequest{Username: "jsmith", Password: "s3cret-pass"})
		assert.NoError(t, err)

		_, err = svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: login.AccessToken})
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("negative expired token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"user_id": uuid.New().String(),
			"kind":    "refresh",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		assert.NoError(t, err)

		svc := auth.NewService(&fakeAuthRepository{})
		_, err = svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: expired})
		assert.ErrorIs(t, err, autherrors.ErrTokenExpired)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{})
		_, err := svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: "not.a.token"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("success stores a new hash", func(t *testing.T) {
		u := activeUser(t, "old-pass")
		var storedHash string
		repo := &fakeAuthRepository{
			findUserByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				return u, nil
			},
			updatePasswordFn: func(ctx context.Context, userID, hashed string) error {
				storedHash = hashed
				return nil
			},
		}
		svc := auth.NewService(repo)

		err := svc.ChangePassword(ctx, u.ID.String(), auth.ChangePasswordRequest{
			OldPassword: "old-pass",
			NewPassword: "new-pass-123",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, storedHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("new-pass-123")))
	})

	t.Run("negative wrong old password", func(t *testing.T) {
		u := activeUser(t, "old-pass")
		repo := &fakeAuthRepository{
			findUserByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				return u, nil
			},
			updatePasswordFn: func(ctx context.Context, userID, hashed string) error {
				t.Fatal("password must not change when the old one is wrong")
				return nil
			},
		}
		svc := auth.NewService(repo)

		err := svc.ChangePassword(ctx, u.ID.String(), auth.ChangePasswordRequest{
			OldPassword: "nope",
			NewPassword: "new-pass-123",
		})
		assert.ErrorIs(t, err, autherrors.ErrWrongOldPassword)
	})
}
