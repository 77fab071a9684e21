package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	EventLeaveRequested = "leave.requested"
	EventLeaveApproved  = "leave.approved"
	EventLeaveRejected  = "leave.rejected"
	EventLeaveCancelled = "leave.cancelled"
)

type LeaveLifecycleEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	UserID      string    `json:"user_id"`
	LeaveType   string    `json:"leave_type"`
	Status      string    `json:"status"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	WorkingDays int       `json:"working_days"`
	OccurredAt  time.Time `json:"occurred_at"`
}
