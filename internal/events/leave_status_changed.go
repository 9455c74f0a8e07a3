package events

import "time"

const LeaveStatusChangedTopic = "leave.request.status.v1"

type LeaveStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	Status         string    `json:"status"`
	Stage          string    `json:"stage"`
	Reason         string    `json:"reason,omitempty"`
	FromDate       string    `json:"from_date"`
	ToDate         string    `json:"to_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}
