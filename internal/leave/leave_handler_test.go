package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-slms/internal/leave"
	leaveerrors "go-slms/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn          func(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getAllFn          func(ctx context.Context, q leave.ListLeavesQuery) ([]leave.LeaveResponse, error)
	getByIDFn         func(ctx context.Context, id string) (leave.LeaveResponse, error)
	getByEmployeeFn   func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	getByDepartmentFn func(ctx context.Context, actorID, role, departmentID string) ([]leave.LeaveResponse, error)
	approveFn         func(ctx context.Context, actorID, id, stage string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error)
	rejectFn          func(ctx context.Context, actorID, id, stage string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error)
	overrideRejectFn  func(ctx context.Context, actorID, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error)
	deleteFn          func(ctx context.Context, id string) error
	statsFn           func(ctx context.Context) (leave.LeaveStatsResponse, error)
	sweepEndedFn      func(ctx context.Context) (int, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, employeeID, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, q leave.ListLeavesQuery) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, q)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveService) GetByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.getByEmployeeFn(ctx, employeeID)
}
func (f *fakeLeaveService) GetByDepartment(ctx context.Context, actorID, role, departmentID string) ([]leave.LeaveResponse, error) {
	return f.getByDepartmentFn(ctx, actorID, role, departmentID)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actorID, id, stage string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actorID, id, stage, req)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actorID, id, stage string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actorID, id, stage, req)
}
func (f *fakeLeaveService) OverrideReject(ctx context.Context, actorID, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	return f.overrideRejectFn(ctx, actorID, id, req)
}
func (f *fakeLeaveService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeLeaveService) Stats(ctx context.Context) (leave.LeaveStatsResponse, error) {
	return f.statsFn(ctx)
}
func (f *fakeLeaveService) SweepEnded(ctx context.Context) (int, error) {
	return f.sweepEndedFn(ctx)
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		employeeID := uuid.New().String()

		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, eid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, employeeID, eid)
				assert.Equal(t, "2030-03-04", req.FromDate)
				assert.Equal(t, "2030-03-06", req.ToDate)
				return leave.LeaveResponse{
					ID:          uuid.New().String(),
					EmployeeID:  eid,
					FromDate:    req.FromDate,
					ToDate:      req.ToDate,
					WorkingDays: 3,
					Reason:      req.Reason,
					Status:      leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type_name":"Annual","from_date":"2030-03-04","to_date":"2030-03-06","reason":"Family matters"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", employeeID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, employeeID, got.EmployeeID)
		assert.Equal(t, 3, got.WorkingDays)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("negative no employee profile", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"from_date":"2030-03-04","to_date":"2030-03-06","reason":"Family matters"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative overlap returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"from_date":"2030-03-04","to_date":"2030-03-06","reason":"Family matters"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "CONFLICT", env.Error.Code)
		assert.Equal(t, "leave already exists in overlapping period", env.Error.Message)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("create failed")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"from_date":"2030-03-04","to_date":"2030-03-06","reason":"Family matters"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	t.Run("success passes filters through", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, q leave.ListLeavesQuery) ([]leave.LeaveResponse, error) {
				assert.Equal(t, leave.StatusPending, q.Status)
				assert.Equal(t, employeeID, q.EmployeeID)
				return []leave.LeaveResponse{
					{ID: uuid.New().String(), EmployeeID: employeeID, Status: leave.StatusPending},
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?status=PENDING&employee_id="+employeeID, nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, leave.StatusPending, got[0].Status)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, q leave.ListLeavesQuery) ([]leave.LeaveResponse, error) {
				return nil, errors.New("db error")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestLeaveHandler_GetMine(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeLeaveService{
			getByEmployeeFn: func(ctx context.Context, eid string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, employeeID, eid)
				return []leave.LeaveResponse{
					{ID: uuid.New().String(), EmployeeID: eid, Status: leave.StatusApproved},
				}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/me", nil)
		c.Set("employee_id", employeeID)

		h.GetMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, employeeID, got[0].EmployeeID)
	})

	t.Run("negative no employee profile", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/me", nil)

		h.GetMine(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	t.Run("department head role maps to department head stage", func(t *testing.T) {
		actorID := uuid.New().String()
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, stage string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, leaveID, id)
				assert.Equal(t, leave.StageDepartmentHead, stage)
				assert.Equal(t, "Looks fine", req.Comment)
				return leave.LeaveResponse{ID: id, Status: leave.StatusPending, DeptHeadApproverID: aid}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"comment":"Looks fine"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("user_id", actorID)
		c.Set("role", "DEPARTMENT_HEAD")

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("hr role maps to hr stage", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, stage string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, leave.StageHR, stage)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", "HR")

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("negative already processed returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, stage string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", "HR")

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("negative department head outside own department", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id, stage string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, leave.StageDepartmentHead, stage)
				return leave.LeaveResponse{}, leaveerrors.ErrOutsideDepartment
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", "DEPARTMENT_HEAD")

		h.Approve(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestLeaveHandler_GetByDepartment(t *testing.T) {
	t.Run("forwards caller identity for scoping", func(t *testing.T) {
		actorID := uuid.New().String()
		departmentID := uuid.New().String()
		svc := &fakeLeaveService{
			getByDepartmentFn: func(ctx context.Context, aid, role, deptID string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "DEPARTMENT_HEAD", role)
				assert.Equal(t, departmentID, deptID)
				return []leave.LeaveResponse{{ID: uuid.New().String(), Status: leave.StatusPending}}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/department/"+departmentID, nil)
		c.Params = []gin.Param{{Key: "id", Value: departmentID}}
		c.Set("user_id", actorID)
		c.Set("role", "DEPARTMENT_HEAD")

		h.GetByDepartment(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative head asking for another department", func(t *testing.T) {
		svc := &fakeLeaveService{
			getByDepartmentFn: func(ctx context.Context, aid, role, deptID string) ([]leave.LeaveResponse, error) {
				return nil, leaveerrors.ErrOutsideDepartment
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		departmentID := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/department/"+departmentID, nil)
		c.Params = []gin.Param{{Key: "id", Value: departmentID}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", "DEPARTMENT_HEAD")

		h.GetByDepartment(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()
		leaveID := uuid.New().String()
		reason := "team capacity"
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, aid, id, stage string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, leaveID, id)
				assert.Equal(t, leave.StageHR, stage)
				assert.Equal(t, reason, req.RejectionReason)
				return leave.LeaveResponse{ID: id, Status: leave.StatusRejected, RejectionReason: reason}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"rejection_reason":"` + reason + `"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/reject", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("user_id", actorID)
		c.Set("role", "HR")

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, got.Status)
		assert.Equal(t, reason, got.RejectionReason)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestLeaveHandler_OverrideReject(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		adminID := uuid.New().String()
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			overrideRejectFn: func(ctx context.Context, aid, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, adminID, aid)
				assert.Equal(t, leaveID, id)
				assert.Equal(t, "policy violation", req.RejectionReason)
				return leave.LeaveResponse{ID: id, Status: leave.StatusRejected}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"rejection_reason":"policy violation"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/override-reject", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("user_id", adminID)
		c.Set("role", "ADMIN")

		h.OverrideReject(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, got.Status)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			deleteFn: func(ctx context.Context, id string) error {
				assert.Equal(t, leaveID, id)
				return nil
			},
		}

		h := leave.NewHandler(svc)
		r := gin.New()
		r.DELETE("/leaves/:id", h.Delete)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/leaves/"+leaveID, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			deleteFn: func(ctx context.Context, id string) error {
				return leaveerrors.ErrLeaveNotFound
			},
		}

		h := leave.NewHandler(svc)
		r := gin.New()
		r.DELETE("/leaves/:id", h.Delete)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/leaves/"+uuid.New().String(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestLeaveHandler_Stats(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			statsFn: func(ctx context.Context) (leave.LeaveStatsResponse, error) {
				return leave.LeaveStatsResponse{Pending: 2, Approved: 5, Rejected: 1, Total: 8}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/stats", nil)

		h.Stats(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveStatsResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), got.Approved)
		assert.Equal(t, int64(8), got.Total)
	})
}
