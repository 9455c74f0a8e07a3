package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-slms/internal/balance"
	"go-slms/internal/leave"
	leaveerrors "go-slms/internal/leave/errors"
	"go-slms/internal/messaging/kafka"
	"go-slms/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createFn              func(ctx context.Context, l *leave.LeaveRequest) error
	findAllFn             func(ctx context.Context, q leave.ListLeavesQuery) ([]leave.LeaveRequest, error)
	findByIDFn            func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findByEmployeeFn      func(ctx context.Context, employeeID uuid.UUID) ([]leave.LeaveRequest, error)
	findByDepartmentFn    func(ctx context.Context, departmentID uuid.UUID) ([]leave.LeaveRequest, error)
	updateFn              func(ctx context.Context, l *leave.LeaveRequest) error
	deleteFn              func(ctx context.Context, id string) error
	findOverlappingFn     func(ctx context.Context, employeeID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]leave.LeaveRequest, error)
	hasApprovedLeaveOnFn  func(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error)
	countByStatusFn       func(ctx context.Context, status string) (int64, error)
	findEndedUnnotifiedFn func(ctx context.Context, before time.Time, limit int) ([]leave.LeaveRequest, error)
	markEndNotifiedFn     func(ctx context.Context, id uuid.UUID) error

	departmentOfEmployeeFn func(ctx context.Context, employeeID uuid.UUID) (*uuid.UUID, error)
	departmentOfUserFn     func(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

// sharedDepartmentID is what the department lookups resolve to unless a test
// overrides them, so scope checks pass by default.
var sharedDepartmentID = uuid.MustParse("6f1f5f1a-0000-4000-8000-000000000001")

func (f *fakeLeaveRepository) WithTx(tx *gorm.DB) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, q leave.ListLeavesQuery) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, q)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]leave.LeaveRequest, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]leave.LeaveRequest, error) {
	if f.findByDepartmentFn != nil {
		return f.findByDepartmentFn(ctx, departmentID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRepository) FindOverlapping(ctx context.Context, employeeID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]leave.LeaveRequest, error) {
	if f.findOverlappingFn != nil {
		return f.findOverlappingFn(ctx, employeeID, from, to, excludeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) HasApprovedLeaveOn(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error) {
	if f.hasApprovedLeaveOnFn != nil {
		return f.hasApprovedLeaveOnFn(ctx, employeeID, day)
	}
	return false, nil
}

func (f *fakeLeaveRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	if f.countByStatusFn != nil {
		return f.countByStatusFn(ctx, status)
	}
	return 0, nil
}

func (f *fakeLeaveRepository) FindEndedUnnotified(ctx context.Context, before time.Time, limit int) ([]leave.LeaveRequest, error) {
	if f.findEndedUnnotifiedFn != nil {
		return f.findEndedUnnotifiedFn(ctx, before, limit)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) MarkEndNotified(ctx context.Context, id uuid.UUID) error {
	if f.markEndNotifiedFn != nil {
		return f.markEndNotifiedFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRepository) DepartmentOfEmployee(ctx context.Context, employeeID uuid.UUID) (*uuid.UUID, error) {
	if f.departmentOfEmployeeFn != nil {
		return f.departmentOfEmployeeFn(ctx, employeeID)
	}
	d := sharedDepartmentID
	return &d, nil
}

func (f *fakeLeaveRepository) DepartmentOfUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	if f.departmentOfUserFn != nil {
		return f.departmentOfUserFn(ctx, userID)
	}
	d := sharedDepartmentID
	return &d, nil
}

type fakeBalanceService struct {
	workingDaysFn       func(ctx context.Context, from, to time.Time) (int, error)
	applyApprovalFn     func(ctx context.Context, in balance.ApprovalInput) (bool, error)
	revertOnRejectionFn func(ctx context.Context, in balance.ApprovalInput) (bool, error)
	remainingDaysFn     func(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (int, bool, error)
}

func (f *fakeBalanceService) WorkingDays(ctx context.Context, from, to time.Time) (int, error) {
	if f.workingDaysFn != nil {
		return f.workingDaysFn(ctx, from, to)
	}
	// Weekday count, no holidays. Enough for the fixtures here.
	if from.After(to) {
		return 0, nil
	}
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			count++
		}
	}
	return count, nil
}

func (f *fakeBalanceService) ApplyApproval(ctx context.Context, in balance.ApprovalInput) (bool, error) {
	if f.applyApprovalFn != nil {
		return f.applyApprovalFn(ctx, in)
	}
	return true, nil
}

func (f *fakeBalanceService) RevertOnRejection(ctx context.Context, in balance.ApprovalInput) (bool, error) {
	if f.revertOnRejectionFn != nil {
		return f.revertOnRejectionFn(ctx, in)
	}
	return false, nil
}

func (f *fakeBalanceService) RemainingDays(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (int, bool, error) {
	if f.remainingDaysFn != nil {
		return f.remainingDaysFn(ctx, employeeID, leaveTypeID, year)
	}
	return 0, false, nil
}

func (f *fakeBalanceService) SetEntitlement(ctx context.Context, grantedBy string, req balance.SetEntitlementRequest) (balance.BalanceResponse, error) {
	return balance.BalanceResponse{}, nil
}

func (f *fakeBalanceService) DeleteEntitlement(ctx context.Context, id string) error {
	return nil
}

func (f *fakeBalanceService) GetEmployeeBalances(ctx context.Context, employeeID string, year int) ([]balance.BalanceResponse, error) {
	return nil, nil
}

func (f *fakeBalanceService) GetEmployeeEntitlements(ctx context.Context, employeeID string, year int) ([]balance.EntitlementResponse, error) {
	return nil, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	sqlMock    sqlmock.Sqlmock
	service    leave.Service
	repo       *fakeLeaveRepository
	balanceSvc *fakeBalanceService
	outbox     *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	balanceSvc := &fakeBalanceService{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewService(gdb, repo, balanceSvc, outbox)

	return &leaveServiceDeps{
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		balanceSvc: balanceSvc,
		outbox:     outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	// Mon 2030-03-04 through Wed 2030-03-06: 3 working days.
	validReq := leave.CreateLeaveRequest{
		LeaveTypeID: leaveTypeID,
		FromDate:    "2030-03-04",
		ToDate:      "2030-03-06",
		Reason:      "Family event",
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(employeeID), l.EmployeeID)
			assert.Equal(t, uuid.MustParse(leaveTypeID), *l.LeaveTypeID)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, "2030-03-04", l.FromDate.Format("2006-01-02"))
			return nil
		}
		charged := false
		deps.balanceSvc.applyApprovalFn = func(ctx context.Context, in balance.ApprovalInput) (bool, error) {
			charged = true
			return true, nil
		}

		resp, err := deps.service.Create(ctx, employeeID, validReq)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 3, resp.WorkingDays)
		assert.False(t, charged, "submission must not touch the ledger")
	})

	t.Run("success without balance row logs warning only", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.balanceSvc.remainingDaysFn = func(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (int, bool, error) {
			return 0, false, nil
		}

		_, err := deps.service.Create(ctx, employeeID, validReq)
		assert.NoError(t, err)
	})

	t.Run("negative invalid date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		req := validReq
		req.FromDate = "04/03/2030"
		_, err := deps.service.Create(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative inverted range", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		req := validReq
		req.FromDate = "2030-03-06"
		req.ToDate = "2030-03-04"
		_, err := deps.service.Create(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative start date in past", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		req := validReq
		req.FromDate = "2020-03-04"
		req.ToDate = "2030-03-06"
		_, err := deps.service.Create(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrStartDateInPast)
	})

	t.Run("negative missing leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		req := validReq
		req.LeaveTypeID = ""
		req.LeaveTypeName = ""
		_, err := deps.service.Create(ctx, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveTypeRequired)
	})

	t.Run("free-text leave type name is accepted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		req := validReq
		req.LeaveTypeID = ""
		req.LeaveTypeName = "Compassionate"

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Nil(t, l.LeaveTypeID)
			assert.Equal(t, "Compassionate", l.LeaveTypeName)
			return nil
		}

		resp, err := deps.service.Create(ctx, employeeID, req)
		assert.NoError(t, err)
		assert.Equal(t, "Compassionate", resp.LeaveTypeName)
	})

	t.Run("negative currently on approved leave", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.hasApprovedLeaveOnFn = func(ctx context.Context, employeeID uuid.UUID, day time.Time) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, employeeID, validReq)
		assert.ErrorIs(t, err, leaveerrors.ErrCurrentlyOnLeave)
	})

	t.Run("negative overlapping request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.findOverlappingFn = func(ctx context.Context, employeeID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]leave.LeaveRequest, error) {
			assert.Nil(t, excludeID)
			return []leave.LeaveRequest{{ID: uuid.New()}}, nil
		}

		_, err := deps.service.Create(ctx, employeeID, validReq)
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.balanceSvc.remainingDaysFn = func(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (int, bool, error) {
			return 2, true, nil
		}

		_, err := deps.service.Create(ctx, employeeID, validReq)
		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	})
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	id := uuid.New().String()
	employeeID := uuid.New()
	leaveTypeID := uuid.New()

	pendingLeave := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:          uuid.MustParse(id),
			EmployeeID:  employeeID,
			LeaveTypeID: &leaveTypeID,
			FromDate:    time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC),
			ToDate:      time.Date(2030, 3, 6, 0, 0, 0, 0, time.UTC),
			Status:      leave.StatusPending,
		}
	}

	t.Run("success department head stage", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.Equal(t, actorID, l.DeptHeadApproverID.String())
			assert.Equal(t, "Covered by team", l.DeptHeadComment)
			assert.Nil(t, l.HRApproverID)
			return nil
		}

		var outboxEvent kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			outboxEvent = event
			return nil
		}
		var chargeInput balance.ApprovalInput
		deps.balanceSvc.applyApprovalFn = func(ctx context.Context, in balance.ApprovalInput) (bool, error) {
			chargeInput = in
			return true, nil
		}

		resp, err := deps.service.Approve(ctx, actorID, id, leave.StageDepartmentHead, leave.ApproveLeaveRequest{
			Comment: "Covered by team",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, "leave_status_changed", outboxEvent.EventType)
		assert.Equal(t, kafka.OutboxStatusPending, outboxEvent.Status)
		assert.Equal(t, id, outboxEvent.AggregateID)
		assert.Equal(t, employeeID, chargeInput.EmployeeID)
		assert.Equal(t, leaveTypeID, *chargeInput.LeaveTypeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success hr stage sets hr approver", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, actorID, l.HRApproverID.String())
			assert.Nil(t, l.DeptHeadApproverID)
			return nil
		}

		_, err := deps.service.Approve(ctx, actorID, id, leave.StageHR, leave.ApproveLeaveRequest{})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already approved leaves ledger untouched", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		l := pendingLeave()
		l.Status = leave.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.balanceSvc.applyApprovalFn = func(ctx context.Context, in balance.ApprovalInput) (bool, error) {
			t.Fatal("ledger must not be charged twice")
			return false, nil
		}

		_, err := deps.service.Approve(ctx, actorID, id, leave.StageHR, leave.ApproveLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid stage", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Approve(ctx, actorID, id, "MANAGER", leave.ApproveLeaveRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStage)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, actorID, id, leave.StageHR, leave.ApproveLeaveRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative department head from another department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		otherDept := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.repo.departmentOfUserFn = func(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
			assert.Equal(t, actorID, userID.String())
			return &otherDept, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			t.Fatal("out-of-department approval must not mutate the request")
			return nil
		}
		deps.balanceSvc.applyApprovalFn = func(ctx context.Context, in balance.ApprovalInput) (bool, error) {
			t.Fatal("out-of-department approval must not charge the ledger")
			return false, nil
		}

		_, err := deps.service.Approve(ctx, actorID, id, leave.StageDepartmentHead, leave.ApproveLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrOutsideDepartment)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative department head without employee profile", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.repo.departmentOfUserFn = func(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Approve(ctx, actorID, id, leave.StageDepartmentHead, leave.ApproveLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrOutsideDepartment)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("hr stage skips the department check", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.repo.departmentOfUserFn = func(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
			t.Fatal("hr approvals are not department scoped")
			return nil, nil
		}

		_, err := deps.service.Approve(ctx, actorID, id, leave.StageHR, leave.ApproveLeaveRequest{})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_DoubleApprovalChargesOnce(t *testing.T) {
	ctx := context.Background()
	deptHead := uuid.New().String()
	hr := uuid.New().String()
	id := uuid.New().String()
	leaveTypeID := uuid.New()

	deps := setupLeaveServiceTest(t)
	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, false)

	stored := &leave.LeaveRequest{
		ID:          uuid.MustParse(id),
		EmployeeID:  uuid.New(),
		LeaveTypeID: &leaveTypeID,
		FromDate:    time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		ToDate:      time.Date(2030, 1, 12, 0, 0, 0, 0, time.UTC),
		Status:      leave.StatusPending,
	}
	deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
		snapshot := *stored
		return &snapshot, nil
	}
	deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
		*stored = *l
		return nil
	}
	charges := 0
	deps.balanceSvc.applyApprovalFn = func(ctx context.Context, in balance.ApprovalInput) (bool, error) {
		charges++
		return true, nil
	}

	_, err := deps.service.Approve(ctx, deptHead, id, leave.StageDepartmentHead, leave.ApproveLeaveRequest{})
	assert.NoError(t, err)

	_, err = deps.service.Approve(ctx, hr, id, leave.StageHR, leave.ApproveLeaveRequest{})
	assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)

	assert.Equal(t, 1, charges)
	assert.Equal(t, leave.StatusApproved, stored.Status)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	id := uuid.New().String()

	pendingLeave := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:         uuid.MustParse(id),
			EmployeeID: uuid.New(),
			FromDate:   time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC),
			ToDate:     time.Date(2030, 3, 6, 0, 0, 0, 0, time.UTC),
			Status:     leave.StatusPending,
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusRejected, l.Status)
			assert.Equal(t, "Short staffed that week", l.RejectionReason)
			return nil
		}
		deps.balanceSvc.revertOnRejectionFn = func(ctx context.Context, in balance.ApprovalInput) (bool, error) {
			t.Fatal("rejecting a pending request must not touch the ledger")
			return false, nil
		}

		resp, err := deps.service.Reject(ctx, actorID, id, leave.StageHR, leave.RejectLeaveRequest{
			RejectionReason: "Short staffed that week",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative missing reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Reject(ctx, actorID, id, leave.StageHR, leave.RejectLeaveRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
	})

	t.Run("negative already processed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		l := pendingLeave()
		l.Status = leave.StatusRejected
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		_, err := deps.service.Reject(ctx, actorID, id, leave.StageHR, leave.RejectLeaveRequest{
			RejectionReason: "too late",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative department head from another department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		otherDept := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return pendingLeave(), nil
		}
		deps.repo.departmentOfUserFn = func(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
			return &otherDept, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			t.Fatal("out-of-department rejection must not mutate the request")
			return nil
		}

		_, err := deps.service.Reject(ctx, actorID, id, leave.StageDepartmentHead, leave.RejectLeaveRequest{
			RejectionReason: "not my call",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrOutsideDepartment)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_GetByDepartment(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	departmentID := sharedDepartmentID.String()

	t.Run("department head lists own department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.findByDepartmentFn = func(ctx context.Context, deptID uuid.UUID) ([]leave.LeaveRequest, error) {
			assert.Equal(t, sharedDepartmentID, deptID)
			return []leave.LeaveRequest{{ID: uuid.New(), EmployeeID: uuid.New(), Status: leave.StatusPending}}, nil
		}

		resp, err := deps.service.GetByDepartment(ctx, actorID, rbac.RoleDepartmentHead, departmentID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("negative department head lists another department", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		otherDept := uuid.New()
		deps.repo.departmentOfUserFn = func(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
			return &otherDept, nil
		}
		deps.repo.findByDepartmentFn = func(ctx context.Context, deptID uuid.UUID) ([]leave.LeaveRequest, error) {
			t.Fatal("foreign department must not be listed")
			return nil, nil
		}

		_, err := deps.service.GetByDepartment(ctx, actorID, rbac.RoleDepartmentHead, departmentID)

		assert.ErrorIs(t, err, leaveerrors.ErrOutsideDepartment)
	})

	t.Run("hr is not scoped", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.departmentOfUserFn = func(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
			t.Fatal("hr listing is not department scoped")
			return nil, nil
		}
		deps.repo.findByDepartmentFn = func(ctx context.Context, deptID uuid.UUID) ([]leave.LeaveRequest, error) {
			return nil, nil
		}

		_, err := deps.service.GetByDepartment(ctx, actorID, rbac.RoleHR, departmentID)
		assert.NoError(t, err)
	})

	t.Run("negative invalid department id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.GetByDepartment(ctx, actorID, rbac.RoleHR, "not-a-uuid")
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDepartmentID)
	})
}

func TestLeaveService_OverrideReject(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New().String()
	id := uuid.New().String()
	leaveTypeID := uuid.New()

	approvedLeave := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:          uuid.MustParse(id),
			EmployeeID:  uuid.New(),
			LeaveTypeID: &leaveTypeID,
			FromDate:    time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC),
			ToDate:      time.Date(2030, 3, 6, 0, 0, 0, 0, time.UTC),
			Status:      leave.StatusApproved,
		}
	}

	t.Run("success approved request reverts the charge", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return approvedLeave(), nil
		}

		var revertInput balance.ApprovalInput
		deps.balanceSvc.revertOnRejectionFn = func(ctx context.Context, in balance.ApprovalInput) (bool, error) {
			revertInput = in
			return true, nil
		}

		resp, err := deps.service.OverrideReject(ctx, adminID, id, leave.RejectLeaveRequest{
			RejectionReason: "Entered by mistake",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, leave.StatusRejected, revertInput.Status)
		assert.Equal(t, leaveTypeID, *revertInput.LeaveTypeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("pending request rejects without revert", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		l := approvedLeave()
		l.Status = leave.StatusPending
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.balanceSvc.revertOnRejectionFn = func(ctx context.Context, in balance.ApprovalInput) (bool, error) {
			t.Fatal("pending request has no charge to revert")
			return false, nil
		}

		resp, err := deps.service.OverrideReject(ctx, adminID, id, leave.RejectLeaveRequest{
			RejectionReason: "Policy change",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		l := approvedLeave()
		l.Status = leave.StatusRejected
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		_, err := deps.service.OverrideReject(ctx, adminID, id, leave.RejectLeaveRequest{
			RejectionReason: "again",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_SweepEnded(t *testing.T) {
	ctx := context.Background()

	t.Run("flags ended leaves and queues events", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		expectTx(t, deps.sqlMock, true)

		ended := []leave.LeaveRequest{
			{ID: uuid.New(), EmployeeID: uuid.New(), ToDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Status: leave.StatusApproved},
			{ID: uuid.New(), EmployeeID: uuid.New(), ToDate: time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), Status: leave.StatusApproved},
		}
		deps.repo.findEndedUnnotifiedFn = func(ctx context.Context, before time.Time, limit int) ([]leave.LeaveRequest, error) {
			return ended, nil
		}

		var flaggedIDs []uuid.UUID
		deps.repo.markEndNotifiedFn = func(ctx context.Context, id uuid.UUID) error {
			flaggedIDs = append(flaggedIDs, id)
			return nil
		}
		var topics []string
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			topics = append(topics, event.Topic)
			return nil
		}

		count, err := deps.service.SweepEnded(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, []uuid.UUID{ended[0].ID, ended[1].ID}, flaggedIDs)
		assert.Len(t, topics, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("nothing to flag", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		count, err := deps.service.SweepEnded(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestLeaveService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		counts := map[string]int64{
			leave.StatusPending:  4,
			leave.StatusApproved: 10,
			leave.StatusRejected: 2,
		}
		deps.repo.countByStatusFn = func(ctx context.Context, status string) (int64, error) {
			return counts[status], nil
		}

		stats, err := deps.service.Stats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), stats.Pending)
		assert.Equal(t, int64(10), stats.Approved)
		assert.Equal(t, int64(2), stats.Rejected)
		assert.Equal(t, int64(16), stats.Total)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		deps.repo.countByStatusFn = func(ctx context.Context, status string) (int64, error) {
			return 0, errors.New("db error")
		}

		_, err := deps.service.Stats(ctx)
		assert.Error(t, err)
	})
}
