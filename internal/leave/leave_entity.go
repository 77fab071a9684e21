package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELLED"
)

const (
	TypePaid   = "PAID"
	TypeUnpaid = "UNPAID"
)

type LeaveRequest struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_leave_requests_user_dates"`

	LeaveType string    `gorm:"column:leave_type;type:varchar(20);not null;default:'PAID'"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null;index:idx_leave_requests_user_dates"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null;index:idx_leave_requests_user_dates"`

	// WorkingDays is the Mon-Fri count over the inclusive range, fixed at
	// creation time.
	WorkingDays int    `gorm:"column:working_days;type:int;not null"`
	Comment     string `gorm:"column:comment;type:text"`

	Status          string     `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	DecidedBy       *uuid.UUID `gorm:"column:decided_by;type:uuid"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`
	DecisionComment *string    `gorm:"column:decision_comment;type:text"`
	CanceledAt      *time.Time `gorm:"column:canceled_at"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User *RequestUser `gorm:"foreignKey:UserID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// RequestUser is a read-only projection of the users table used for
// preloading requester names onto responses.
type RequestUser struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email"`
}

func (RequestUser) TableName() string {
	return "users"
}

func (u RequestUser) FullName() string {
	return u.FirstName + " " + u.LastName
}
