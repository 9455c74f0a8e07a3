package settings

import (
	"context"
	"errors"
	"net/http"

	"go-slms/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrSettingNotFound = apperror.New(
	apperror.CodeNotFound,
	"Setting not found",
	http.StatusNotFound,
)

//go:generate mockgen -source=settings_service.go -destination=mock/settings_service_mock.go -package=mock
type Service interface {
	Set(ctx context.Context, updatedBy string, req SetSettingRequest) (SettingResponse, error)
	GetAll(ctx context.Context) ([]SettingResponse, error)
	Get(ctx context.Context, key string) (SettingResponse, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settings.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Set(ctx context.Context, updatedBy string, req SetSettingRequest) (SettingResponse, error) {
	var updatedByID *uuid.UUID
	if parsed, err := uuid.Parse(updatedBy); err == nil {
		updatedByID = &parsed
	}

	setting := &SystemSetting{
		ID:              uuid.New(),
		Key:             req.Key,
		Value:           req.Value,
		Description:     req.Description,
		UpdatedByUserID: updatedByID,
	}

	if err := s.repo.Upsert(ctx, setting); err != nil {
		s.logger.Error("upsert setting failed", zap.String("key", req.Key), zap.Error(err))
		return SettingResponse{}, err
	}

	s.logger.Info("setting updated", zap.String("key", req.Key))
	return mapToResponse(*setting), nil
}

func (s *service) GetAll(ctx context.Context) ([]SettingResponse, error) {
	settings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]SettingResponse, len(settings))
	for i, setting := range settings {
		resp[i] = mapToResponse(setting)
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, key string) (SettingResponse, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SettingResponse{}, ErrSettingNotFound
		}
		return SettingResponse{}, err
	}
	return mapToResponse(*setting), nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if _, err := s.repo.FindByKey(ctx, key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSettingNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, key)
}

func mapToResponse(s SystemSetting) SettingResponse {
	resp := SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
	}
	if s.UpdatedByUserID != nil {
		resp.UpdatedBy = s.UpdatedByUserID.String()
	}
	return resp
}
