package notification

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-slms/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Notification not found",
		http.StatusNotFound,
	)
	ErrInvalidNotificationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid notification ID",
		http.StatusBadRequest,
	)
	ErrNotRecipient = apperror.New(
		apperror.CodeForbidden,
		"Notification belongs to another employee",
		http.StatusForbidden,
	)
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, senderUserID string, req CreateNotificationRequest) (NotificationResponse, error)

	// Notify is the programmatic entry used by the event consumers, no DTO
	// validation beyond what the entity carries.
	Notify(ctx context.Context, recipientEmployeeID uuid.UUID, title, message, notifType string) error

	List(ctx context.Context, employeeID string, q ListNotificationsQuery) ([]NotificationResponse, error)
	UnreadCount(ctx context.Context, employeeID string) (UnreadCountResponse, error)
	MarkRead(ctx context.Context, employeeID, id string) error
	MarkUnread(ctx context.Context, employeeID, id string) error
	MarkAllRead(ctx context.Context, employeeID string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, senderUserID string, req CreateNotificationRequest) (NotificationResponse, error) {
	recipientID, err := uuid.Parse(req.RecipientEmployeeID)
	if err != nil {
		return NotificationResponse{}, ErrInvalidNotificationID
	}

	var senderID *uuid.UUID
	if parsed, err := uuid.Parse(senderUserID); err == nil {
		senderID = &parsed
	}

	notifType := req.Type
	if notifType == "" {
		notifType = TypeInfo
	}

	n := &Notification{
		ID:                  uuid.New(),
		RecipientEmployeeID: recipientID,
		SenderUserID:        senderID,
		Title:               req.Title,
		Message:             req.Message,
		Type:                notifType,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("create notification persist failed", zap.Error(err))
		return NotificationResponse{}, err
	}

	return mapToResponse(*n), nil
}

func (s *service) Notify(ctx context.Context, recipientEmployeeID uuid.UUID, title, message, notifType string) error {
	n := &Notification{
		ID:                  uuid.New(),
		RecipientEmployeeID: recipientEmployeeID,
		Title:               title,
		Message:             message,
		Type:                notifType,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Info("notification delivered",
		zap.String("recipient_employee_id", recipientEmployeeID.String()),
		zap.String("type", notifType),
	)
	return nil
}

func (s *service) List(ctx context.Context, employeeID string, q ListNotificationsQuery) ([]NotificationResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, ErrInvalidNotificationID
	}

	notifications, err := s.repo.FindByRecipient(ctx, id, q.UnreadOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) UnreadCount(ctx context.Context, employeeID string) (UnreadCountResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return UnreadCountResponse{}, ErrInvalidNotificationID
	}

	count, err := s.repo.CountUnread(ctx, id)
	if err != nil {
		return UnreadCountResponse{}, err
	}
	return UnreadCountResponse{Unread: count}, nil
}

func (s *service) MarkRead(ctx context.Context, employeeID, id string) error {
	return s.setRead(ctx, employeeID, id, true)
}

func (s *service) MarkUnread(ctx context.Context, employeeID, id string) error {
	return s.setRead(ctx, employeeID, id, false)
}

func (s *service) setRead(ctx context.Context, employeeID, id string, read bool) error {
	notifID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidNotificationID
	}

	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.RecipientEmployeeID.String() != employeeID {
		return ErrNotRecipient
	}

	return s.repo.SetRead(ctx, notifID, read)
}

func (s *service) MarkAllRead(ctx context.Context, employeeID string) error {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return ErrInvalidNotificationID
	}
	return s.repo.MarkAllRead(ctx, id)
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:                  n.ID.String(),
		RecipientEmployeeID: n.RecipientEmployeeID.String(),
		Title:               n.Title,
		Message:             n.Message,
		Type:                n.Type,
		IsRead:              n.IsRead,
		CreatedAt:           n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.SenderUserID != nil {
		resp.SenderUserID = n.SenderUserID.String()
	}
	return resp
}
