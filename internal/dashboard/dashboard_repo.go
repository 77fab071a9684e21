package dashboard

import (
	"context"

	"go-leavedesk/internal/leave"

	"gorm.io/gorm"
)

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByStatusForYear(ctx context.Context, year int) (map[string]int64, error)
	ApprovedCountsByMonth(ctx context.Context, year int) ([12]int64, error)
	ApprovedWorkingDaysTotal(ctx context.Context, year int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&leave.LeaveRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) CountByStatusForYear(ctx context.Context, year int) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&leave.LeaveRequest{}).
		Select("status, COUNT(*) AS count").
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) ApprovedCountsByMonth(ctx context.Context, year int) ([12]int64, error) {
	var rows []struct {
		Month int
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&leave.LeaveRequest{}).
		Select("EXTRACT(MONTH FROM start_date)::int AS month, COUNT(*) AS count").
		Where("status = ?", leave.StatusApproved).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Group("month").
		Scan(&rows).Error

	var counts [12]int64
	if err != nil {
		return counts, err
	}
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			counts[row.Month-1] = row.Count
		}
	}
	return counts, nil
}

func (r *repository) ApprovedWorkingDaysTotal(ctx context.Context, year int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&leave.LeaveRequest{}).
		Select("COALESCE(SUM(working_days), 0)").
		Where("status = ?", leave.StatusApproved).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Scan(&total).Error
	return total, err
}
