package events

import "time"

const LeaveEndedTopic = "leave.request.ended.v1"

type LeaveEndedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	ToDate         string    `json:"to_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}
