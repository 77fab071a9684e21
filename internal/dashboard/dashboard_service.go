package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-leavedesk/internal/balance"
	"go-leavedesk/internal/leave"
	"go-leavedesk/internal/user"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cacheTTL keeps dashboard reads cheap without letting the numbers go
// stale for long.
const cacheTTL = 60 * time.Second

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	GetStats(ctx context.Context) (StatsResponse, error)
	GetYearlyStats(ctx context.Context, year int) (YearlyStatsResponse, error)
	GetLeaveCalendar(ctx context.Context, year, month int) (CalendarResponse, error)
	GetTeamSummary(ctx context.Context) (TeamSummaryResponse, error)
}

type service struct {
	repo     Repository
	users    user.Repository
	leaves   leave.Repository
	balances balance.Repository
	rdb      *redis.Client
	clock    clockwork.Clock
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	users user.Repository,
	leaves leave.Repository,
	balances balance.Repository,
	rdb *redis.Client,
	clock clockwork.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{
		repo:     repo,
		users:    users,
		leaves:   leaves,
		balances: balances,
		rdb:      rdb,
		clock:    clock,
		logger:   l,
	}
}

func (s *service) GetStats(ctx context.Context) (StatsResponse, error) {
	var cached StatsResponse
	if s.readCache(ctx, "dashboard:stats", &cached) {
		return cached, nil
	}

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	totalEmployees, err := s.users.CountByRole(ctx, user.RoleEmployee)
	if err != nil {
		return StatsResponse{}, err
	}
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return StatsResponse{}, err
	}

	today := s.today()
	active, err := s.leaves.FindActive(ctx, today)
	if err != nil {
		return StatsResponse{}, err
	}
	upcoming, err := s.leaves.FindUpcoming(ctx, today, today.AddDate(0, 0, 7))
	if err != nil {
		return StatsResponse{}, err
	}

	resp := StatsResponse{
		TotalUsers:       totalUsers,
		TotalEmployees:   totalEmployees,
		PendingRequests:  byStatus[leave.StatusPending],
		ApprovedRequests: byStatus[leave.StatusApproved],
		OnLeaveToday:     int64(len(active)),
		UpcomingLeaves:   int64(len(upcoming)),
	}
	s.writeCache(ctx, "dashboard:stats", resp)
	return resp, nil
}

func (s *service) GetYearlyStats(ctx context.Context, year int) (YearlyStatsResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:yearly:%d", year)
	var cached YearlyStatsResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	byStatus, err := s.repo.CountByStatusForYear(ctx, year)
	if err != nil {
		return YearlyStatsResponse{}, err
	}
	byMonth, err := s.repo.ApprovedCountsByMonth(ctx, year)
	if err != nil {
		return YearlyStatsResponse{}, err
	}
	workingDays, err := s.repo.ApprovedWorkingDaysTotal(ctx, year)
	if err != nil {
		return YearlyStatsResponse{}, err
	}

	resp := YearlyStatsResponse{
		Year:                year,
		ByStatus:            byStatus,
		ApprovedByMonth:     byMonth,
		ApprovedWorkingDays: workingDays,
	}
	s.writeCache(ctx, cacheKey, resp)
	return resp, nil
}

func (s *service) GetLeaveCalendar(ctx context.Context, year, month int) (CalendarResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:calendar:%d-%02d", year, month)
	var cached CalendarResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	approved, err := s.leaves.FindApprovedOverlapping(ctx, monthStart, monthEnd)
	if err != nil {
		return CalendarResponse{}, err
	}

	entries := make([]CalendarEntry, 0, len(approved))
	for _, l := range approved {
		from := maxDate(l.StartDate, monthStart)
		to := minDate(l.EndDate, monthEnd)
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				continue
			}
			entry := CalendarEntry{
				Date:   d.Format("2006-01-02"),
				UserID: l.UserID.String(),
			}
			if l.User != nil {
				entry.UserName = l.User.FullName()
			}
			entries = append(entries, entry)
		}
	}

	resp := CalendarResponse{Year: year, Month: month, Entries: entries}
	s.writeCache(ctx, cacheKey, resp)
	return resp, nil
}

func (s *service) GetTeamSummary(ctx context.Context) (TeamSummaryResponse, error) {
	var cached TeamSummaryResponse
	if s.readCache(ctx, "dashboard:team", &cached) {
		return cached, nil
	}

	year := s.clock.Now().UTC().Year()

	employees, err := s.users.FindByRole(ctx, user.RoleEmployee)
	if err != nil {
		return TeamSummaryResponse{}, err
	}
	balances, err := s.balances.FindAllByYear(ctx, year)
	if err != nil {
		return TeamSummaryResponse{}, err
	}
	active, err := s.leaves.FindActive(ctx, s.today())
	if err != nil {
		return TeamSummaryResponse{}, err
	}

	balanceByUser := make(map[string]balance.LeaveBalance, len(balances))
	for _, b := range balances {
		balanceByUser[b.UserID.String()] = b
	}
	onLeave := make(map[string]bool, len(active))
	for _, l := range active {
		onLeave[l.UserID.String()] = true
	}

	members := make([]TeamMemberSummary, 0, len(employees))
	for _, e := range employees {
		member := TeamMemberSummary{
			UserID:     e.ID.String(),
			FullName:   e.FullName(),
			Email:      e.Email,
			OnLeaveNow: onLeave[e.ID.String()],
		}
		if b, ok := balanceByUser[e.ID.String()]; ok {
			member.TotalDays = b.TotalDays
			member.UsedDays = b.UsedDays
			member.RemainingDays = b.RemainingDays
		}
		members = append(members, member)
	}

	resp := TeamSummaryResponse{Year: year, Members: members}
	s.writeCache(ctx, "dashboard:team", resp)
	return resp, nil
}

func (s *service) today() time.Time {
	now := s.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// readCache is best effort: a cold or unreachable redis only costs the
// recomputation below.
func (s *service) readCache(ctx context.Context, key string, dest any) bool {
	if s.rdb == nil {
		return false
	}
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		s.logger.Warn("dashboard cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, key string, value any) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
