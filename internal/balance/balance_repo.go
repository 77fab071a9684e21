package balance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindByID(ctx context.Context, id string) (*LeaveBalance, error)
	FindByUserAndYear(ctx context.Context, userID string, year int) (*LeaveBalance, error)
	FindAllByUser(ctx context.Context, userID string) ([]LeaveBalance, error)
	FindAllByYear(ctx context.Context, year int) ([]LeaveBalance, error)
	Exists(ctx context.Context, userID string, year int) (bool, error)
	Update(ctx context.Context, b *LeaveBalance) error
	UseDays(ctx context.Context, userID string, year, days int) (bool, error)
	ReturnDays(ctx context.Context, userID string, year, days int) (bool, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	if r.tx != nil {
		query := `
			INSERT INTO leave_balances (id, user_id, year, total_days, used_days, remaining_days)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := r.tx.ExecContext(ctx, query,
			b.ID, b.UserID, b.Year, b.TotalDays, b.UsedDays, b.RemainingDays,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) FindByUserAndYear(ctx context.Context, userID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year DESC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindAllByYear(ctx context.Context, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("year = ?", year).
		Order("created_at ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) Exists(ctx context.Context, userID string, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("user_id = ?", userID).
		Where("year = ?", year).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// UseDays increments used_days atomically, guarded by the sufficiency
// predicate inside the UPDATE itself so two concurrent uses of the same
// (user, year) row can never drive remaining_days negative. Returns false
// when the row was not updated (missing balance or not enough days left).
func (r *repository) UseDays(ctx context.Context, userID string, year, days int) (bool, error) {
	query := `
		UPDATE leave_balances
		SET used_days = used_days + $3,
			remaining_days = total_days - (used_days + $3),
			updated_at = NOW()
		WHERE user_id = $1
			AND year = $2
			AND total_days - used_days >= $3
	`

	res, err := r.execer().ExecContext(ctx, query, userID, year, days)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ReturnDays decrements used_days, floored at zero. An over-return clamps
// rather than fails. Returns false when no balance row exists.
func (r *repository) ReturnDays(ctx context.Context, userID string, year, days int) (bool, error) {
	query := `
		UPDATE leave_balances
		SET used_days = GREATEST(used_days - $3, 0),
			remaining_days = total_days - GREATEST(used_days - $3, 0),
			updated_at = NOW()
		WHERE user_id = $1
			AND year = $2
	`

	res, err := r.execer().ExecContext(ctx, query, userID, year, days)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
