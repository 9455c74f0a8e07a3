package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	autherrors "go-slms/internal/auth/errors"
	"go-slms/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (RefreshResponse, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	u, err := s.repo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.Error(err))
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		s.logger.Warn("login password mismatch", zap.String("username", req.Username))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		return LoginResponse{}, autherrors.ErrAccountDisabled
	}

	employeeID, err := s.repo.FindEmployeeIDByUserID(ctx, u.ID.String())
	if err != nil {
		s.logger.Error("login employee lookup failed", zap.Error(err))
		return LoginResponse{}, err
	}

	accessToken, err := signToken(u, employeeID, accessTokenTTL, "access")
	if err != nil {
		return LoginResponse{}, err
	}
	refreshToken, err := signToken(u, employeeID, refreshTokenTTL, "refresh")
	if err != nil {
		return LoginResponse{}, err
	}

	s.logger.Info("login success",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)

	return LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       u.ID.String(),
		EmployeeID:   employeeID,
		Role:         u.Role,
		FullName:     strings.TrimSpace(u.FirstName + " " + u.LastName),
	}, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (RefreshResponse, error) {
	token, err := jwt.Parse(req.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		if err != nil && strings.Contains(err.Error(), "expired") {
			return RefreshResponse{}, autherrors.ErrTokenExpired
		}
		return RefreshResponse{}, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return RefreshResponse{}, autherrors.ErrInvalidToken
	}
	if kind, _ := claims["kind"].(string); kind != "refresh" {
		return RefreshResponse{}, autherrors.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return RefreshResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RefreshResponse{}, autherrors.ErrInvalidToken
		}
		return RefreshResponse{}, err
	}
	if !u.IsActive {
		return RefreshResponse{}, autherrors.ErrAccountDisabled
	}

	employeeID, _ := claims["employee_id"].(string)
	accessToken, err := signToken(u, employeeID, accessTokenTTL, "access")
	if err != nil {
		return RefreshResponse{}, err
	}

	return RefreshResponse{AccessToken: accessToken}, nil
}

func (s *service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.OldPassword)); err != nil {
		return autherrors.ErrWrongOldPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		s.logger.Error("change password persist failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("change password success", zap.String("user_id", userID))
	return nil
}

func signToken(u *user.User, employeeID string, ttl time.Duration, kind string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     u.ID.String(),
		"employee_id": employeeID,
		"role":        u.Role,
		"kind":        kind,
		"exp":         time.Now().Add(ttl).Unix(),
		"iat":         time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
