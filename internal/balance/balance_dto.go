package balance

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalInput carries the slice of a leave request the ledger needs. Status
// is the request's current status string.
type ApprovalInput struct {
	EmployeeID  uuid.UUID
	LeaveTypeID *uuid.UUID
	FromDate    time.Time
	ToDate      time.Time
	Status      string
}

type SetEntitlementRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID  string `json:"leave_type_id" binding:"required,uuid"`
	Year         int    `json:"year" binding:"required,min=2000,max=2200"`
	DaysEntitled int    `json:"days_entitled" binding:"min=0"`
}

type BalanceResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	LeaveTypeID   string `json:"leave_type_id"`
	Year          int    `json:"year"`
	DaysEntitled  int    `json:"days_entitled"`
	DaysUsed      int    `json:"days_used"`
	DaysRemaining int    `json:"days_remaining"`
}

type EntitlementResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	LeaveTypeID     string `json:"leave_type_id"`
	Year            int    `json:"year"`
	DaysEntitled    int    `json:"days_entitled"`
	GrantedByUserID string `json:"granted_by_user_id,omitempty"`
}
