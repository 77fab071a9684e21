package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-leavedesk/internal/balance"
	balanceerrors "go-leavedesk/internal/balance/errors"
	"go-leavedesk/internal/events"
	leaveerrors "go-leavedesk/internal/leave/errors"
	"go-leavedesk/internal/messaging/kafka"
	"go-leavedesk/internal/shared/contextutil"
	"go-leavedesk/internal/user"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxConflictRetries bounds how often a lifecycle operation is replayed
// after the database reports a serialization failure.
const maxConflictRetries = 3

// upcomingWindowDays is the horizon of the "upcoming" listing.
const upcomingWindowDays = 7

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	GetByUser(ctx context.Context, userID string) ([]LeaveRequestResponse, error)
	GetByUserAndYear(ctx context.Context, userID string, year int) ([]LeaveRequestResponse, error)
	GetPending(ctx context.Context) ([]LeaveRequestResponse, error)
	GetActive(ctx context.Context) ([]LeaveRequestResponse, error)
	GetUpcoming(ctx context.Context) ([]LeaveRequestResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, actorID, id, comment string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, actorID, actorRole, id string) (LeaveRequestResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	balances     balance.Repository
	outbox       kafka.OutboxRepository
	admission    AdmissionPolicy
	cancellation CancellationPolicy
	clock        clockwork.Clock
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances balance.Repository,
	outbox kafka.OutboxRepository,
	admission AdmissionPolicy,
	cancellation CancellationPolicy,
	clock clockwork.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{
		db:           db,
		repo:         repo,
		balances:     balances,
		outbox:       outbox,
		admission:    admission,
		cancellation: cancellation,
		clock:        clock,
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("user_id", userID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidUserID
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave request validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	today := truncateToDay(s.clock.Now().UTC())
	if startDate.Before(today) {
		return LeaveRequestResponse{}, leaveerrors.ErrPastStartDate
	}

	workingDays := WorkingDays(startDate, endDate)

	var resp LeaveRequestResponse
	err = s.withConflictRetry(ctx, "create", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)

		duplicate, err := qtx.HasApprovedLeaveInPeriod(ctx, userID, startDate, endDate)
		if err != nil {
			return mapRepositoryError(err)
		}
		if duplicate {
			return leaveerrors.ErrDuplicateApprovedLeave
		}

		overlapping, err := qtx.CountApprovedOverlapping(ctx, startDate, endDate, nil)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !s.admission.Admit(overlapping) {
			s.logger.Warn("create leave request admission denied",
				zap.String("user_id", userID),
				zap.Int("overlapping_approved", overlapping),
			)
			return leaveerrors.ErrAdmissionDenied
		}

		// Advisory check only. The authoritative deduction happens at
		// approval time with an atomic guarded UPDATE.
		if req.LeaveType == TypePaid {
			bal, err := s.balances.FindByUserAndYear(ctx, userID, startDate.Year())
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return balanceerrors.ErrInsufficientBalance
				}
				return err
			}
			if bal.RemainingDays < workingDays {
				return balanceerrors.ErrInsufficientBalance
			}
		}

		l := &LeaveRequest{
			ID:          uuid.New(),
			UserID:      userUUID,
			LeaveType:   req.LeaveType,
			StartDate:   startDate,
			EndDate:     endDate,
			WorkingDays: workingDays,
			Comment:     req.Comment,
			Status:      StatusPending,
			CreatedAt:   s.clock.Now().UTC(),
		}
		if err := qtx.Create(ctx, l); err != nil {
			return mapRepositoryError(err)
		}

		if err := s.enqueueLifecycleEvent(ctx, tx, events.EventLeaveRequested, l); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return mapRepositoryError(err)
		}

		resp = mapToResponse(*l)
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("create leave request success",
		zap.String("request_id", resp.ID),
		zap.String("user_id", userID),
		zap.Int("working_days", workingDays),
	)
	return resp, nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveRequestResponse, error) {
	s.logger.Debug("approve leave request",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidUserID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidRequestID
	}

	var resp LeaveRequestResponse
	err = s.withConflictRetry(ctx, "approve", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)

		// Serialize admission decisions: two approvals for the same window
		// must not both pass the count below.
		if err := qtx.LockAdmissionWindow(ctx); err != nil {
			return mapRepositoryError(err)
		}

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrRequestNotFound
			}
			return mapRepositoryError(err)
		}
		if l.Status != StatusPending {
			return leaveerrors.ErrInvalidStatusTransition
		}

		overlapping, err := qtx.CountApprovedOverlapping(ctx, l.StartDate, l.EndDate, &id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !s.admission.Admit(overlapping) {
			s.logger.Warn("approve leave request admission denied",
				zap.String("request_id", id),
				zap.Int("overlapping_approved", overlapping),
			)
			return leaveerrors.ErrAdmissionDenied
		}

		if l.LeaveType == TypePaid {
			applied, err := s.balances.WithTx(tx).UseDays(ctx, l.UserID.String(), l.StartDate.Year(), l.WorkingDays)
			if err != nil {
				return mapRepositoryError(err)
			}
			if !applied {
				exists, err := s.balances.Exists(ctx, l.UserID.String(), l.StartDate.Year())
				if err != nil {
					return err
				}
				if !exists {
					return balanceerrors.ErrBalanceNotFound
				}
				return balanceerrors.ErrInsufficientBalance
			}
		}

		now := s.clock.Now().UTC()
		l.Status = StatusApproved
		l.DecidedBy = &actorUUID
		l.DecidedAt = &now
		if err := qtx.UpdateStatus(ctx, l); err != nil {
			return mapRepositoryError(err)
		}

		if err := s.enqueueLifecycleEvent(ctx, tx, events.EventLeaveApproved, l); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return mapRepositoryError(err)
		}

		resp = mapToResponse(*l)
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("approve leave request success",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
	)
	return resp, nil
}

func (s *service) Reject(ctx context.Context, actorID, id, comment string) (LeaveRequestResponse, error) {
	s.logger.Debug("reject leave request",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidUserID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidRequestID
	}

	var resp LeaveRequestResponse
	err = s.withConflictRetry(ctx, "reject", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrRequestNotFound
			}
			return mapRepositoryError(err)
		}
		if l.Status != StatusPending {
			return leaveerrors.ErrInvalidStatusTransition
		}

		now := s.clock.Now().UTC()
		l.Status = StatusRejected
		l.DecidedBy = &actorUUID
		l.DecidedAt = &now
		if comment != "" {
			l.DecisionComment = &comment
		}
		if err := qtx.UpdateStatus(ctx, l); err != nil {
			return mapRepositoryError(err)
		}

		if err := s.enqueueLifecycleEvent(ctx, tx, events.EventLeaveRejected, l); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return mapRepositoryError(err)
		}

		resp = mapToResponse(*l)
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("reject leave request success",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
	)
	return resp, nil
}

func (s *service) Cancel(ctx context.Context, actorID, actorRole, id string) (LeaveRequestResponse, error) {
	s.logger.Debug("cancel leave request",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
		zap.String("actor_role", actorRole),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidUserID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidRequestID
	}

	var resp LeaveRequestResponse
	err := s.withConflictRetry(ctx, "cancel", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrRequestNotFound
			}
			return mapRepositoryError(err)
		}
		if l.Status != StatusApproved {
			return leaveerrors.ErrInvalidStatusTransition
		}
		if l.UserID.String() != actorID && actorRole != user.RoleAdmin {
			return leaveerrors.ErrNotRequestOwner
		}
		if !s.cancellation.CanCancel(s.clock.Now().UTC(), l.StartDate) {
			s.logger.Warn("cancel leave request window closed",
				zap.String("request_id", id),
				zap.Time("start_date", l.StartDate),
			)
			return leaveerrors.ErrCancellationWindowClosed
		}

		if l.LeaveType == TypePaid {
			applied, err := s.balances.WithTx(tx).ReturnDays(ctx, l.UserID.String(), l.StartDate.Year(), l.WorkingDays)
			if err != nil {
				return mapRepositoryError(err)
			}
			if !applied {
				return balanceerrors.ErrBalanceNotFound
			}
		}

		now := s.clock.Now().UTC()
		l.Status = StatusCanceled
		l.CanceledAt = &now
		if err := qtx.UpdateStatus(ctx, l); err != nil {
			return mapRepositoryError(err)
		}

		if err := s.enqueueLifecycleEvent(ctx, tx, events.EventLeaveCancelled, l); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return mapRepositoryError(err)
		}

		resp = mapToResponse(*l)
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("cancel leave request success",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
	)
	return resp, nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidRequestID
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) GetByUser(ctx context.Context, userID string) ([]LeaveRequestResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, leaveerrors.ErrInvalidUserID
	}
	requests, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByUserAndYear(ctx context.Context, userID string, year int) ([]LeaveRequestResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, leaveerrors.ErrInvalidUserID
	}
	requests, err := s.repo.FindByUserAndYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetActive(ctx context.Context) ([]LeaveRequestResponse, error) {
	today := truncateToDay(s.clock.Now().UTC())
	requests, err := s.repo.FindActive(ctx, today)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetUpcoming(ctx context.Context) ([]LeaveRequestResponse, error) {
	today := truncateToDay(s.clock.Now().UTC())
	requests, err := s.repo.FindUpcoming(ctx, today, today.AddDate(0, 0, upcomingWindowDays))
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

// withConflictRetry replays attempt while the database keeps reporting
// retryable conflicts, up to maxConflictRetries attempts in total.
func (s *service) withConflictRetry(ctx context.Context, op string, attempt func() error) error {
	var err error
	for i := 1; i <= maxConflictRetries; i++ {
		err = attempt()
		if !errors.Is(err, leaveerrors.ErrConcurrencyConflict) {
			return err
		}
		s.logger.Warn("leave operation hit concurrent conflict, retrying",
			zap.String("operation", op),
			zap.Int("attempt", i),
		)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType string, l *LeaveRequest) error {
	payload, err := json.Marshal(events.LeaveLifecycleEvent{
		EventType:   eventType,
		RequestID:   l.ID.String(),
		UserID:      l.UserID.String(),
		LeaveType:   l.LeaveType,
		Status:      l.Status,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		WorkingDays: l.WorkingDays,
		OccurredAt:  s.clock.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	startDate, err := parseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:          l.ID.String(),
		UserID:      l.UserID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		WorkingDays: l.WorkingDays,
		Comment:     l.Comment,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
	if l.User != nil {
		resp.UserName = l.User.FullName()
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	resp.DecisionComment = l.DecisionComment
	if l.CanceledAt != nil {
		v := l.CanceledAt.Format(time.RFC3339)
		resp.CanceledAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
