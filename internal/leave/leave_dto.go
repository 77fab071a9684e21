package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=PAID UNPAID"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Comment   string `json:"comment"`
}

type RejectLeaveRequest struct {
	Comment string `json:"comment"`
}

type LeaveRequestResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	UserName    string  `json:"user_name,omitempty"`
	LeaveType   string  `json:"leave_type"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	WorkingDays int     `json:"working_days"`
	Comment     string  `json:"comment,omitempty"`
	Status      string  `json:"status"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	DecisionComment *string `json:"decision_comment,omitempty"`
	CanceledAt  *string `json:"canceled_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
