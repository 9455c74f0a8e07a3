package leave

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-slms/internal/balance"
	"go-slms/internal/events"
	leaveerrors "go-slms/internal/leave/errors"
	"go-slms/internal/messaging/kafka"
	"go-slms/internal/rbac"
	"go-slms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	StageDepartmentHead = "DEPARTMENT_HEAD"
	StageHR             = "HR"
	StageAdmin          = "ADMIN"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, q ListLeavesQuery) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error)

	// GetByDepartment lists a department's requests for review. Department
	// heads may only list their own department; HR and admins are unscoped.
	GetByDepartment(ctx context.Context, actorID, role, departmentID string) ([]LeaveResponse, error)

	// Approve and Reject are the only mutators of a request's status besides
	// OverrideReject. Both act on PENDING requests only; a terminal request
	// yields ErrAlreadyProcessed no matter which stage asks. At the
	// department head stage the actor must share a department with the
	// request's employee.
	Approve(ctx context.Context, actorID, id, stage string, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id, stage string, req RejectLeaveRequest) (LeaveResponse, error)

	// OverrideReject is the admin correction path: it also accepts APPROVED
	// requests, and reverting the balance charge is part of the transition.
	OverrideReject(ctx context.Context, actorID, id string, req RejectLeaveRequest) (LeaveResponse, error)

	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (LeaveStatsResponse, error)

	// SweepEnded flags approved requests whose end date has passed and queues
	// their ended events for the consumer. Returns how many were flagged.
	SweepEnded(ctx context.Context) (int, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	balanceSvc balance.Service
	outboxRepo kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	balanceSvc balance.Service,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		balanceSvc: balanceSvc,
		outboxRepo: outboxRepo,
		logger:     l,
	}
}

func (s *service) Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("employee_id", employeeID),
		zap.String("from_date", req.FromDate),
		zap.String("to_date", req.ToDate),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	var leaveTypeID *uuid.UUID
	if req.LeaveTypeID != "" {
		parsed, err := uuid.Parse(req.LeaveTypeID)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidLeaveTypeID
		}
		leaveTypeID = &parsed
	} else if req.LeaveTypeName == "" {
		return LeaveResponse{}, leaveerrors.ErrLeaveTypeRequired
	}

	fromDate, toDate, err := parseRange(req.FromDate, req.ToDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	today := truncateToDay(time.Now().UTC())
	if fromDate.Before(today) {
		return LeaveResponse{}, leaveerrors.ErrStartDateInPast
	}

	onLeave, err := s.repo.HasApprovedLeaveOn(ctx, employeeUUID, today)
	if err != nil {
		s.logger.Error("create leave current-leave check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if onLeave {
		return LeaveResponse{}, leaveerrors.ErrCurrentlyOnLeave
	}

	overlaps, err := s.repo.FindOverlapping(ctx, employeeUUID, fromDate, toDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if len(overlaps) > 0 {
		s.logger.Warn("create leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("from_date", req.FromDate),
			zap.String("to_date", req.ToDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	workingDays, err := s.balanceSvc.WorkingDays(ctx, fromDate, toDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	if leaveTypeID != nil {
		remaining, exists, err := s.balanceSvc.RemainingDays(ctx, employeeUUID, *leaveTypeID, fromDate.Year())
		if err != nil {
			return LeaveResponse{}, err
		}
		if exists && remaining < workingDays {
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
		if !exists {
			// No entitlement recorded yet. Submission still goes through, the
			// approval will open the ledger row at zero entitlement.
			s.logger.Warn("no leave balance row for submission",
				zap.String("employee_id", employeeID),
				zap.String("leave_type_id", leaveTypeID.String()),
				zap.Int("year", fromDate.Year()),
			)
		}
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    employeeUUID,
		LeaveTypeID:   leaveTypeID,
		LeaveTypeName: req.LeaveTypeName,
		FromDate:      fromDate,
		ToDate:        toDate,
		Reason:        req.Reason,
		Status:        StatusPending,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("working_days", workingDays),
	)
	return s.mapToResponse(ctx, *l), nil
}

func (s *service) GetAll(ctx context.Context, q ListLeavesQuery) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(ctx, leaves), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return s.mapToResponse(ctx, *l), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	leaves, err := s.repo.FindByEmployee(ctx, employeeUUID)
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(ctx, leaves), nil
}

func (s *service) GetByDepartment(ctx context.Context, actorID, role, departmentID string) ([]LeaveResponse, error) {
	departmentUUID, err := uuid.Parse(departmentID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidDepartmentID
	}

	if role == rbac.RoleDepartmentHead {
		actorUUID, err := uuid.Parse(actorID)
		if err != nil {
			return nil, leaveerrors.ErrInvalidActorID
		}
		own, err := s.repo.DepartmentOfUser(ctx, actorUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, leaveerrors.ErrOutsideDepartment
			}
			return nil, err
		}
		if own == nil || *own != departmentUUID {
			return nil, leaveerrors.ErrOutsideDepartment
		}
	}

	leaves, err := s.repo.FindByDepartment(ctx, departmentUUID)
	if err != nil {
		return nil, err
	}
	return s.mapToListResponse(ctx, leaves), nil
}

// checkDepartmentScope verifies the acting department head and the request's
// employee belong to the same department. An actor without an employee
// profile, or with no department, is never in scope.
func (s *service) checkDepartmentScope(ctx context.Context, repo Repository, actorUserID, employeeID uuid.UUID) error {
	own, err := repo.DepartmentOfUser(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrOutsideDepartment
		}
		return err
	}
	theirs, err := repo.DepartmentOfEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrOutsideDepartment
		}
		return err
	}
	if own == nil || theirs == nil || *own != *theirs {
		return leaveerrors.ErrOutsideDepartment
	}
	return nil
}

func (s *service) Approve(ctx context.Context, actorID, id, stage string, req ApproveLeaveRequest) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if stage != StageDepartmentHead && stage != StageHR {
		return LeaveResponse{}, leaveerrors.ErrInvalidStage
	}

	var approved LeaveRequest
	err = s.db.Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveNotFound
			}
			return err
		}
		if stage == StageDepartmentHead {
			if err := s.checkDepartmentScope(ctx, qtx, actorUUID, l.EmployeeID); err != nil {
				return err
			}
		}
		if l.Status != StatusPending {
			return leaveerrors.ErrAlreadyProcessed
		}

		switch stage {
		case StageDepartmentHead:
			l.DeptHeadApproverID = &actorUUID
			l.DeptHeadComment = req.Comment
		case StageHR:
			l.HRApproverID = &actorUUID
			l.HRComment = req.Comment
		}
		l.Status = StatusApproved

		if err := qtx.Update(ctx, l); err != nil {
			return err
		}
		if err := s.enqueueStatusEvent(ctx, tx, l, stage); err != nil {
			return err
		}

		approved = *l
		return nil
	})
	if err != nil {
		s.logger.Warn("approve leave failed",
			zap.String("leave_id", id),
			zap.String("stage", stage),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	charged, err := s.balanceSvc.ApplyApproval(ctx, balance.ApprovalInput{
		EmployeeID:  approved.EmployeeID,
		LeaveTypeID: approved.LeaveTypeID,
		FromDate:    approved.FromDate,
		ToDate:      approved.ToDate,
		Status:      approved.Status,
	})
	if err != nil {
		// The approval itself is committed. Leave the ledger to manual
		// correction rather than failing the request after the fact.
		s.logger.Error("balance charge after approval failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
	}

	s.logger.Info("approve leave success",
		zap.String("leave_id", id),
		zap.String("stage", stage),
		zap.Bool("balance_charged", charged),
	)
	return s.mapToResponse(ctx, approved), nil
}

func (s *service) Reject(ctx context.Context, actorID, id, stage string, req RejectLeaveRequest) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if stage != StageDepartmentHead && stage != StageHR {
		return LeaveResponse{}, leaveerrors.ErrInvalidStage
	}
	if req.RejectionReason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	var rejected LeaveRequest
	err = s.db.Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveNotFound
			}
			return err
		}
		if stage == StageDepartmentHead {
			if err := s.checkDepartmentScope(ctx, qtx, actorUUID, l.EmployeeID); err != nil {
				return err
			}
		}
		if l.Status != StatusPending {
			return leaveerrors.ErrAlreadyProcessed
		}

		switch stage {
		case StageDepartmentHead:
			l.DeptHeadApproverID = &actorUUID
			l.DeptHeadComment = req.Comment
		case StageHR:
			l.HRApproverID = &actorUUID
			l.HRComment = req.Comment
		}
		l.Status = StatusRejected
		l.RejectionReason = req.RejectionReason

		if err := qtx.Update(ctx, l); err != nil {
			return err
		}
		if err := s.enqueueStatusEvent(ctx, tx, l, stage); err != nil {
			return err
		}

		rejected = *l
		return nil
	})
	if err != nil {
		s.logger.Warn("reject leave failed",
			zap.String("leave_id", id),
			zap.String("stage", stage),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("reject leave success",
		zap.String("leave_id", id),
		zap.String("stage", stage),
	)
	return s.mapToResponse(ctx, rejected), nil
}

func (s *service) OverrideReject(ctx context.Context, actorID, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if req.RejectionReason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	var (
		rejected    LeaveRequest
		wasApproved bool
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveNotFound
			}
			return err
		}
		if l.Status == StatusRejected {
			return leaveerrors.ErrAlreadyProcessed
		}

		wasApproved = l.Status == StatusApproved
		l.Status = StatusRejected
		l.RejectionReason = req.RejectionReason
		l.HRApproverID = &actorUUID
		if req.Comment != "" {
			l.HRComment = req.Comment
		}

		if err := qtx.Update(ctx, l); err != nil {
			return err
		}
		if err := s.enqueueStatusEvent(ctx, tx, l, StageAdmin); err != nil {
			return err
		}

		rejected = *l
		return nil
	})
	if err != nil {
		s.logger.Warn("override reject failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if wasApproved {
		reverted, err := s.balanceSvc.RevertOnRejection(ctx, balance.ApprovalInput{
			EmployeeID:  rejected.EmployeeID,
			LeaveTypeID: rejected.LeaveTypeID,
			FromDate:    rejected.FromDate,
			ToDate:      rejected.ToDate,
			Status:      rejected.Status,
		})
		if err != nil {
			s.logger.Error("balance revert after override failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
		} else {
			s.logger.Info("override reject reverted balance",
				zap.String("leave_id", id),
				zap.Bool("reverted", reverted),
			)
		}
	}

	s.logger.Info("override reject success", zap.String("leave_id", id))
	return s.mapToResponse(ctx, rejected), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) Stats(ctx context.Context) (LeaveStatsResponse, error) {
	var stats LeaveStatsResponse

	pending, err := s.repo.CountByStatus(ctx, StatusPending)
	if err != nil {
		return stats, err
	}
	approved, err := s.repo.CountByStatus(ctx, StatusApproved)
	if err != nil {
		return stats, err
	}
	rejected, err := s.repo.CountByStatus(ctx, StatusRejected)
	if err != nil {
		return stats, err
	}

	stats.Pending = pending
	stats.Approved = approved
	stats.Rejected = rejected
	stats.Total = pending + approved + rejected
	return stats, nil
}

func (s *service) SweepEnded(ctx context.Context) (int, error) {
	today := truncateToDay(time.Now().UTC())
	ended, err := s.repo.FindEndedUnnotified(ctx, today, 100)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range ended {
		l := ended[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).MarkEndNotified(ctx, l.ID); err != nil {
				return err
			}
			return s.enqueueEndedEvent(ctx, tx, &l)
		})
		if err != nil {
			s.logger.Error("flag ended leave failed",
				zap.String("leave_id", l.ID.String()),
				zap.Error(err),
			)
			continue
		}
		flagged++
	}

	if flagged > 0 {
		s.logger.Info("ended leave sweep complete", zap.Int("flagged", flagged))
	}
	return flagged, nil
}

func (s *service) enqueueEndedEvent(ctx context.Context, tx *gorm.DB, l *LeaveRequest) error {
	event := events.LeaveEndedEvent{
		EventType:      "leave_ended",
		LeaveRequestID: l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		ToDate:         l.ToDate.Format(dateLayout),
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveEndedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueStatusEvent(ctx context.Context, tx *gorm.DB, l *LeaveRequest, stage string) error {
	event := events.LeaveStatusChangedEvent{
		EventType:      "leave_status_changed",
		LeaveRequestID: l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		Status:         l.Status,
		Stage:          stage,
		Reason:         l.RejectionReason,
		FromDate:       l.FromDate.Format(dateLayout),
		ToDate:         l.ToDate.Format(dateLayout),
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outboxRepo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	fromDate, err := time.Parse(dateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	toDate, err := time.Parse(dateLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if fromDate.After(toDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return fromDate, toDate, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) mapToResponse(ctx context.Context, l LeaveRequest) LeaveResponse {
	workingDays, err := s.balanceSvc.WorkingDays(ctx, l.FromDate, l.ToDate)
	if err != nil {
		s.logger.Warn("working day count for response failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
	}

	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveTypeName:   l.LeaveTypeName,
		FromDate:        l.FromDate.Format(dateLayout),
		ToDate:          l.ToDate.Format(dateLayout),
		WorkingDays:     workingDays,
		Reason:          l.Reason,
		Status:          l.Status,
		DeptHeadComment: l.DeptHeadComment,
		HRComment:       l.HRComment,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.LeaveTypeID != nil {
		resp.LeaveTypeID = l.LeaveTypeID.String()
	}
	if l.DeptHeadApproverID != nil {
		resp.DeptHeadApproverID = l.DeptHeadApproverID.String()
	}
	if l.HRApproverID != nil {
		resp.HRApproverID = l.HRApproverID.String()
	}
	return resp
}

func (s *service) mapToListResponse(ctx context.Context, leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = s.mapToResponse(ctx, l)
	}
	return resp
}
