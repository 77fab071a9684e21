package balance

type CreateBalanceRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	Year      int    `json:"year" binding:"required,min=2000,max=2100"`
	TotalDays int    `json:"total_days" binding:"required,min=0"`
	UsedDays  *int   `json:"used_days" binding:"omitempty,min=0"`
}

type UpdateBalanceRequest struct {
	TotalDays int  `json:"total_days" binding:"required,min=0"`
	UsedDays  *int `json:"used_days" binding:"omitempty,min=0"`
}

type BalanceResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Year          int    `json:"year"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
	UserEmail     string `json:"user_email,omitempty"`
	UserFullName  string `json:"user_full_name,omitempty"`
}
