package dashboard

type StatsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	TotalEmployees   int64 `json:"total_employees"`
	PendingRequests  int64 `json:"pending_requests"`
	ApprovedRequests int64 `json:"approved_requests"`
	OnLeaveToday     int64 `json:"on_leave_today"`
	UpcomingLeaves   int64 `json:"upcoming_leaves"`
}

type YearlyStatsResponse struct {
	Year                int              `json:"year"`
	ByStatus            map[string]int64 `json:"by_status"`
	ApprovedByMonth     [12]int64        `json:"approved_by_month"`
	ApprovedWorkingDays int64            `json:"approved_working_days"`
}

type CalendarEntry struct {
	Date     string `json:"date"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
}

type CalendarResponse struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Entries []CalendarEntry `json:"entries"`
}

type TeamMemberSummary struct {
	UserID        string `json:"user_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
	OnLeaveNow    bool   `json:"on_leave_now"`
}

type TeamSummaryResponse struct {
	Year    int                 `json:"year"`
	Members []TeamMemberSummary `json:"members"`
}
