package leave

type CreateLeaveRequest struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	FromDate      string `json:"from_date" binding:"required"`
	ToDate        string `json:"to_date" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
}

type ApproveLeaveRequest struct {
	Comment string `json:"comment"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
	Comment         string `json:"comment"`
}

type ListLeavesQuery struct {
	Status     string `form:"status"`
	EmployeeID string `form:"employee_id"`
}

type LeaveResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	LeaveTypeID   string `json:"leave_type_id,omitempty"`
	LeaveTypeName string `json:"leave_type_name,omitempty"`
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
	WorkingDays   int    `json:"working_days"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`

	DeptHeadApproverID string `json:"dept_head_approver_id,omitempty"`
	DeptHeadComment    string `json:"dept_head_comment,omitempty"`
	HRApproverID       string `json:"hr_approver_id,omitempty"`
	HRComment          string `json:"hr_comment,omitempty"`
	RejectionReason    string `json:"rejection_reason,omitempty"`

	CreatedAt string `json:"created_at"`
}

type LeaveStatsResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
