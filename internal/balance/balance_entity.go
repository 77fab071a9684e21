package balance

import (
	"time"

	"github.com/google/uuid"
)

type LeaveBalance struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_leave_balances_user_year"`
	Year   int       `gorm:"column:year;type:int;not null;uniqueIndex:uq_leave_balances_user_year"`

	TotalDays int `gorm:"column:total_days;type:int;not null"`
	UsedDays  int `gorm:"column:used_days;type:int;not null;default:0"`
	// RemainingDays is stored denormalized and kept equal to
	// total_days - used_days by every mutation.
	RemainingDays int `gorm:"column:remaining_days;type:int;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	User *BalanceUser `gorm:"foreignKey:UserID"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// BalanceUser is a minimal join projection of the owning user row.
type BalanceUser struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	Email     string    `gorm:"column:email"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
}

func (BalanceUser) TableName() string {
	return "users"
}
