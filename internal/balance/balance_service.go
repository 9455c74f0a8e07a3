package balance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go-slms/internal/holiday"
	"go-slms/internal/shared/apperror"
	"go-slms/internal/workcal"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const statusRejected = "REJECTED"

var (
	ErrInvalidBalanceRef = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee or leave type ID",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave balance not found",
		http.StatusNotFound,
	)
	ErrEntitlementNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave entitlement not found",
		http.StatusNotFound,
	)
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	// WorkingDays counts chargeable days in [from, to] with active holidays
	// excluded. Inverted ranges yield 0.
	WorkingDays(ctx context.Context, from, to time.Time) (int, error)

	// ApplyApproval charges the ledger for an approved request. Returns false
	// without error when nothing chargeable exists (no leave type, or zero
	// working days). The ledger row is created lazily with zero entitlement.
	ApplyApproval(ctx context.Context, in ApprovalInput) (bool, error)

	// RevertOnRejection gives charged days back after an approved request is
	// rejected. Only acts when the request is already in REJECTED status and
	// the ledger has at least that many used days.
	RevertOnRejection(ctx context.Context, in ApprovalInput) (bool, error)

	// RemainingDays looks up the ledger row's remaining days. The second
	// return reports whether the row exists at all; a missing row is not an
	// error, submission guards treat it as "no entitlement recorded yet".
	RemainingDays(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (int, bool, error)

	SetEntitlement(ctx context.Context, grantedBy string, req SetEntitlementRequest) (BalanceResponse, error)

	// DeleteEntitlement removes an HR grant and zeroes the matching balance
	// row's entitled days. Used days are untouched, so remaining can go
	// negative until a new grant is recorded.
	DeleteEntitlement(ctx context.Context, id string) error

	GetEmployeeBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
	GetEmployeeEntitlements(ctx context.Context, employeeID string, year int) ([]EntitlementResponse, error)
}

type service struct {
	repo        Repository
	holidayRepo holiday.Repository
	logger      *zap.Logger

	// mu serializes get-or-create-and-increment per ledger key within this
	// process. The SQL increment itself is atomic; the mutex closes the
	// create/read race.
	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

func NewService(repo Repository, holidayRepo holiday.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		repo:        repo,
		holidayRepo: holidayRepo,
		logger:      l,
		keys:        make(map[string]*sync.Mutex),
	}
}

func (s *service) lockKey(employeeID, leaveTypeID uuid.UUID, year int) func() {
	key := fmt.Sprintf("%s|%s|%d", employeeID, leaveTypeID, year)
	s.mu.Lock()
	m, ok := s.keys[key]
	if !ok {
		m = &sync.Mutex{}
		s.keys[key] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

func (s *service) WorkingDays(ctx context.Context, from, to time.Time) (int, error) {
	if from.After(to) {
		return 0, nil
	}

	holidays, err := s.holidayRepo.FindActiveInRange(ctx, from, to)
	if err != nil {
		return 0, err
	}

	set := make([]workcal.Holiday, len(holidays))
	for i, h := range holidays {
		set[i] = workcal.Holiday{Date: h.Date, Recurring: h.IsRecurring}
	}

	resolver := workcal.NewResolver(from, to, set)
	return resolver.CountWorkingDays(from, to), nil
}

func (s *service) ApplyApproval(ctx context.Context, in ApprovalInput) (bool, error) {
	if in.LeaveTypeID == nil {
		s.logger.Warn("approval without leave type, ledger untouched",
			zap.String("employee_id", in.EmployeeID.String()),
		)
		return false, nil
	}

	workingDays, err := s.WorkingDays(ctx, in.FromDate, in.ToDate)
	if err != nil {
		return false, err
	}
	if workingDays <= 0 {
		return false, nil
	}

	year := in.FromDate.Year()
	unlock := s.lockKey(in.EmployeeID, *in.LeaveTypeID, year)
	defer unlock()

	row, err := s.getOrCreate(ctx, in.EmployeeID, *in.LeaveTypeID, year)
	if err != nil {
		return false, err
	}

	if err := s.repo.AddUsedDays(ctx, row.ID, workingDays); err != nil {
		return false, err
	}

	s.logger.Info("balance charged",
		zap.String("employee_id", in.EmployeeID.String()),
		zap.String("leave_type_id", in.LeaveTypeID.String()),
		zap.Int("year", year),
		zap.Int("working_days", workingDays),
	)
	return true, nil
}

func (s *service) RevertOnRejection(ctx context.Context, in ApprovalInput) (bool, error) {
	if in.Status != statusRejected {
		return false, nil
	}
	if in.LeaveTypeID == nil {
		return false, nil
	}

	workingDays, err := s.WorkingDays(ctx, in.FromDate, in.ToDate)
	if err != nil {
		return false, err
	}
	if workingDays <= 0 {
		return false, nil
	}

	year := in.FromDate.Year()
	unlock := s.lockKey(in.EmployeeID, *in.LeaveTypeID, year)
	defer unlock()

	row, err := s.repo.FindByKey(ctx, in.EmployeeID, *in.LeaveTypeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	// Never drive usage negative.
	if row.DaysUsed < workingDays {
		s.logger.Warn("revert skipped, used days below charge",
			zap.String("employee_id", in.EmployeeID.String()),
			zap.Int("days_used", row.DaysUsed),
			zap.Int("working_days", workingDays),
		)
		return false, nil
	}

	if err := s.repo.AddUsedDays(ctx, row.ID, -workingDays); err != nil {
		return false, err
	}

	s.logger.Info("balance reverted",
		zap.String("employee_id", in.EmployeeID.String()),
		zap.String("leave_type_id", in.LeaveTypeID.String()),
		zap.Int("year", year),
		zap.Int("working_days", workingDays),
	)
	return true, nil
}

func (s *service) RemainingDays(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (int, bool, error) {
	row, err := s.repo.FindByKey(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return row.DaysRemaining, true, nil
}

func (s *service) getOrCreate(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	row, err := s.repo.FindByKey(ctx, employeeID, leaveTypeID, year)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row = &LeaveBalance{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *service) SetEntitlement(ctx context.Context, grantedBy string, req SetEntitlementRequest) (BalanceResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return BalanceResponse{}, ErrInvalidBalanceRef
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return BalanceResponse{}, ErrInvalidBalanceRef
	}

	var grantedByID *uuid.UUID
	if parsed, err := uuid.Parse(grantedBy); err == nil {
		grantedByID = &parsed
	}

	unlock := s.lockKey(employeeID, leaveTypeID, req.Year)
	defer unlock()

	entitlement := &LeaveEntitlement{
		ID:              uuid.New(),
		EmployeeID:      employeeID,
		LeaveTypeID:     leaveTypeID,
		Year:            req.Year,
		DaysEntitled:    req.DaysEntitled,
		GrantedByUserID: grantedByID,
	}
	if err := s.repo.UpsertEntitlement(ctx, entitlement); err != nil {
		s.logger.Error("upsert entitlement failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	row, err := s.getOrCreate(ctx, employeeID, leaveTypeID, req.Year)
	if err != nil {
		return BalanceResponse{}, err
	}
	if err := s.repo.SetEntitled(ctx, row.ID, req.DaysEntitled); err != nil {
		return BalanceResponse{}, err
	}

	row.DaysEntitled = req.DaysEntitled
	row.DaysRemaining = row.DaysEntitled - row.DaysUsed

	s.logger.Info("entitlement set",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
		zap.Int("days_entitled", req.DaysEntitled),
	)
	return mapToBalanceResponse(*row), nil
}

func (s *service) DeleteEntitlement(ctx context.Context, id string) error {
	entitlementID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidBalanceRef
	}

	e, err := s.repo.FindEntitlementByID(ctx, entitlementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntitlementNotFound
		}
		return err
	}

	unlock := s.lockKey(e.EmployeeID, e.LeaveTypeID, e.Year)
	defer unlock()

	if err := s.repo.DeleteEntitlement(ctx, entitlementID); err != nil {
		return err
	}

	row, err := s.repo.FindByKey(ctx, e.EmployeeID, e.LeaveTypeID, e.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Grant was never charged against, nothing to zero.
			return nil
		}
		return err
	}
	if err := s.repo.SetEntitled(ctx, row.ID, 0); err != nil {
		return err
	}

	s.logger.Info("entitlement deleted",
		zap.String("entitlement_id", id),
		zap.String("employee_id", e.EmployeeID.String()),
		zap.String("leave_type_id", e.LeaveTypeID.String()),
		zap.Int("year", e.Year),
	)
	return nil
}

func (s *service) GetEmployeeBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, ErrInvalidBalanceRef
	}
	if year == 0 {
		year = time.Now().Year()
	}

	balances, err := s.repo.FindByEmployee(ctx, id, year)
	if err != nil {
		return nil, err
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToBalanceResponse(b)
	}
	return resp, nil
}

func (s *service) GetEmployeeEntitlements(ctx context.Context, employeeID string, year int) ([]EntitlementResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, ErrInvalidBalanceRef
	}
	if year == 0 {
		year = time.Now().Year()
	}

	entitlements, err := s.repo.FindEntitlements(ctx, id, year)
	if err != nil {
		return nil, err
	}

	resp := make([]EntitlementResponse, len(entitlements))
	for i, e := range entitlements {
		resp[i] = EntitlementResponse{
			ID:           e.ID.String(),
			EmployeeID:   e.EmployeeID.String(),
			LeaveTypeID:  e.LeaveTypeID.String(),
			Year:         e.Year,
			DaysEntitled: e.DaysEntitled,
		}
		if e.GrantedByUserID != nil {
			resp[i].GrantedByUserID = e.GrantedByUserID.String()
		}
	}
	return resp, nil
}

func mapToBalanceResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID.String(),
		EmployeeID:    b.EmployeeID.String(),
		LeaveTypeID:   b.LeaveTypeID.String(),
		Year:          b.Year,
		DaysEntitled:  b.DaysEntitled,
		DaysUsed:      b.DaysUsed,
		DaysRemaining: b.DaysRemaining,
	}
}
