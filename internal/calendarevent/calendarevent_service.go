package calendarevent

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

const (
	timeLayout  = time.RFC3339
	monthLayout = "2006-01"
)

var (
	ErrCalendarEventNotFound = apperror.New(
		apperror.CodeNotFound,
		"Calendar event not found",
		http.StatusNotFound,
	)
	ErrInvalidCalendarEventID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid calendar event ID",
		http.StatusBadRequest,
	)
	ErrInvalidEventTime = apperror.New(
		apperror.CodeInvalidInput,
		"Event times must be RFC3339 and start before end",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Month filter must use the YYYY-MM format",
		http.StatusBadRequest,
	)
)

//go:generate mockgen -source=calendarevent_service.go -destination=mock/calendarevent_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, createdBy string, req CreateCalendarEventRequest) (CalendarEventResponse, error)
	GetAll(ctx context.Context, q ListCalendarEventsQuery) ([]CalendarEventResponse, error)
	GetByID(ctx context.Context, id string) (CalendarEventResponse, error)
	Update(ctx context.Context, id string, req UpdateCalendarEventRequest) (CalendarEventResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("calendarevent.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendarevent.service")
	}
	return &service{repo: repo, logger: l}
}

func parseEventTimes(start, end string) (time.Time, time.Time, error) {
	startTime, err := time.Parse(timeLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidEventTime
	}
	endTime, err := time.Parse(timeLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidEventTime
	}
	if !startTime.Before(endTime) {
		return time.Time{}, time.Time{}, ErrInvalidEventTime
	}
	return startTime, endTime, nil
}

func (s *service) Create(ctx context.Context, createdBy string, req CreateCalendarEventRequest) (CalendarEventResponse, error) {
	startTime, endTime, err := parseEventTimes(req.StartTime, req.EndTime)
	if err != nil {
		return CalendarEventResponse{}, err
	}

	var createdByID *uuid.UUID
	if parsed, err := uuid.Parse(createdBy); err == nil {
		createdByID = &parsed
	}

	eventType := req.EventType
	if eventType == "" {
		eventType = "OTHER"
	}

	e := &CalendarEvent{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		EventType:       eventType,
		Location:        req.Location,
		StartTime:       startTime,
		EndTime:         endTime,
		CreatedByUserID: createdByID,
	}
	if req.IsAllDay != nil {
		e.IsAllDay = *req.IsAllDay
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create calendar event persist failed", zap.Error(err))
		return CalendarEventResponse{}, err
	}

	s.logger.Info("create calendar event success", zap.String("event_id", e.ID.String()))
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, q ListCalendarEventsQuery) ([]CalendarEventResponse, error) {
	var (
		events []CalendarEvent
		err    error
	)
	if q.Month != "" {
		monthStart, parseErr := time.Parse(monthLayout, q.Month)
		if parseErr != nil {
			return nil, ErrInvalidMonth
		}
		events, err = s.repo.FindInRange(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	} else {
		events, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]CalendarEventResponse, len(events))
	for i, e := range events {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (CalendarEventResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CalendarEventResponse{}, ErrInvalidCalendarEventID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CalendarEventResponse{}, ErrCalendarEventNotFound
		}
		return CalendarEventResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCalendarEventRequest) (CalendarEventResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CalendarEventResponse{}, ErrInvalidCalendarEventID
	}

	startTime, endTime, err := parseEventTimes(req.StartTime, req.EndTime)
	if err != nil {
		return CalendarEventResponse{}, err
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CalendarEventResponse{}, ErrCalendarEventNotFound
		}
		return CalendarEventResponse{}, err
	}

	e.Title = req.Title
	e.Description = req.Description
	if req.EventType != "" {
		e.EventType = req.EventType
	}
	e.Location = req.Location
	e.StartTime = startTime
	e.EndTime = endTime
	if req.IsAllDay != nil {
		e.IsAllDay = *req.IsAllDay
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update calendar event persist failed",
			zap.String("event_id", id),
			zap.Error(err),
		)
		return CalendarEventResponse{}, err
	}

	s.logger.Info("update calendar event success", zap.String("event_id", id))
	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidCalendarEventID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCalendarEventNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("delete calendar event success", zap.String("event_id", id))
	return nil
}

func mapToResponse(e CalendarEvent) CalendarEventResponse {
	resp := CalendarEventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		EventType:   e.EventType,
		Location:    e.Location,
		StartTime:   e.StartTime.UTC().Format(timeLayout),
		EndTime:     e.EndTime.UTC().Format(timeLayout),
		IsAllDay:    e.IsAllDay,
	}
	if e.CreatedByUserID != nil {
		resp.CreatedByUserID = e.CreatedByUserID.String()
	}
	return resp
}
