package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
)

// admissionLockKey is the postgres advisory lock key serializing admission
// decisions. One company-wide key: admission counts all users' approved
// requests, so any finer-grained key would race across windows.
const admissionLockKey int64 = 874012

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	FindByUserAndYear(ctx context.Context, userID string, year int) ([]LeaveRequest, error)
	FindPending(ctx context.Context) ([]LeaveRequest, error)
	FindActive(ctx context.Context, today time.Time) ([]LeaveRequest, error)
	FindUpcoming(ctx context.Context, from, to time.Time) ([]LeaveRequest, error)
	FindApprovedOverlapping(ctx context.Context, start, end time.Time) ([]LeaveRequest, error)
	HasApprovedLeaveInPeriod(ctx context.Context, userID string, start, end time.Time) (bool, error)
	CountApprovedOverlapping(ctx context.Context, start, end time.Time, excludeID *string) (int, error)
	UpdateStatus(ctx context.Context, l *LeaveRequest) error
	LockAdmissionWindow(ctx context.Context) error
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	if r.tx != nil {
		query := `
			INSERT INTO leave_requests (
				id, user_id, leave_type, start_date, end_date, working_days, comment, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := r.tx.ExecContext(ctx, query,
			l.ID, l.UserID, l.LeaveType, l.StartDate, l.EndDate,
			l.WorkingDays, l.Comment, l.Status,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	if r.tx != nil {
		query := `
			SELECT id, user_id, leave_type, start_date, end_date,
				working_days, comment, status, decided_by, decided_at,
				decision_comment, canceled_at, created_at
			FROM leave_requests
			WHERE id = $1
		`
		var l LeaveRequest
		err := r.tx.QueryRowContext(ctx, query, id).Scan(
			&l.ID, &l.UserID, &l.LeaveType, &l.StartDate, &l.EndDate,
			&l.WorkingDays, &l.Comment, &l.Status,
			&l.DecidedBy, &l.DecidedAt, &l.DecisionComment, &l.CanceledAt, &l.CreatedAt,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gorm.ErrRecordNotFound
		}
		if err != nil {
			return nil, err
		}
		return &l, nil
	}

	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByUserAndYear(ctx context.Context, userID string, year int) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindPending(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindActive(ctx context.Context, today time.Time) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", today, today).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindUpcoming(ctx context.Context, from, to time.Time) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", StatusApproved).
		Where("start_date > ? AND start_date <= ?", from, to).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindApprovedOverlapping(ctx context.Context, start, end time.Time) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) HasApprovedLeaveInPeriod(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM leave_requests
		WHERE user_id = $1
			AND status = $2
			AND start_date <= $4
			AND end_date >= $3
	`

	var count int64
	err := r.querier().QueryRowContext(ctx, query, userID, StatusApproved, start, end).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CountApprovedOverlapping(ctx context.Context, start, end time.Time, excludeID *string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM leave_requests
		WHERE status = $1
			AND start_date <= $3
			AND end_date >= $2
			AND ($4::uuid IS NULL OR id <> $4::uuid)
	`

	var exclude any
	if excludeID != nil && *excludeID != "" {
		exclude = *excludeID
	}

	var count int
	err := r.querier().QueryRowContext(ctx, query, StatusApproved, start, end, exclude).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) UpdateStatus(ctx context.Context, l *LeaveRequest) error {
	query := `
		UPDATE leave_requests
		SET status = $2,
			decided_by = $3,
			decided_at = $4,
			decision_comment = $5,
			canceled_at = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.execer().ExecContext(ctx, query,
		l.ID, l.Status, l.DecidedBy, l.DecidedAt, l.DecisionComment, l.CanceledAt,
	)
	return err
}

// LockAdmissionWindow takes the transaction-scoped advisory lock that
// serializes admission decisions. It must run inside a transaction; the
// lock releases on commit or rollback.
func (r *repository) LockAdmissionWindow(ctx context.Context) error {
	if r.tx == nil {
		return errors.New("leave: LockAdmissionWindow requires a transaction")
	}
	_, err := r.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", admissionLockKey)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
