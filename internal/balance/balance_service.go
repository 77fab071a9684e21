package balance

import (
	"context"
	"database/sql"
	"errors"

	balanceerrors "go-leavedesk/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetByUserAndYear(ctx context.Context, userID string, year int) (BalanceResponse, error)
	GetCurrentYear(ctx context.Context, userID string) (BalanceResponse, error)
	GetAllForUser(ctx context.Context, userID string) ([]BalanceResponse, error)
	GetAllForYear(ctx context.Context, year int) ([]BalanceResponse, error)
	HasEnough(ctx context.Context, userID string, year, days int) (bool, error)

	CreateDefault(ctx context.Context, userID string, year, totalDays int) (BalanceResponse, error)
	Create(ctx context.Context, req CreateBalanceRequest) (BalanceResponse, error)
	Update(ctx context.Context, id string, req UpdateBalanceRequest) (BalanceResponse, error)

	Use(ctx context.Context, userID string, year, days int) error
	Return(ctx context.Context, userID string, year, days int) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	clock  clockwork.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, clock clockwork.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{db: db, repo: repo, clock: clock, logger: l}
}

func (s *service) GetByUserAndYear(ctx context.Context, userID string, year int) (BalanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidUserID
	}

	b, err := s.repo.FindByUserAndYear(ctx, userID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) GetCurrentYear(ctx context.Context, userID string) (BalanceResponse, error) {
	return s.GetByUserAndYear(ctx, userID, s.clock.Now().Year())
}

func (s *service) GetAllForUser(ctx context.Context, userID string) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, balanceerrors.ErrInvalidUserID
	}

	balances, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(balances), nil
}

func (s *service) GetAllForYear(ctx context.Context, year int) ([]BalanceResponse, error) {
	balances, err := s.repo.FindAllByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(balances), nil
}

// HasEnough is the non-authoritative sufficiency gate used at request
// creation. The authoritative check is the atomic UseDays at approval time.
func (s *service) HasEnough(ctx context.Context, userID string, year, days int) (bool, error) {
	b, err := s.repo.FindByUserAndYear(ctx, userID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return b.RemainingDays >= days, nil
}

func (s *service) CreateDefault(ctx context.Context, userID string, year, totalDays int) (BalanceResponse, error) {
	s.logger.Debug("create default balance requested",
		zap.String("user_id", userID),
		zap.Int("year", year),
		zap.Int("total_days", totalDays),
	)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidUserID
	}
	if totalDays < 0 {
		return BalanceResponse{}, balanceerrors.ErrInvalidDays
	}

	exists, err := s.repo.Exists(ctx, userID, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	if exists {
		return BalanceResponse{}, balanceerrors.ErrBalanceAlreadyExists
	}

	b := &LeaveBalance{
		ID:            uuid.New(),
		UserID:        userUUID,
		Year:          year,
		TotalDays:     totalDays,
		UsedDays:      0,
		RemainingDays: totalDays,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.logger.Error("create default balance persist failed", zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create default balance success",
		zap.String("balance_id", b.ID.String()),
		zap.String("user_id", userID),
		zap.Int("year", year),
	)
	return mapToResponse(*b), nil
}

func (s *service) Create(ctx context.Context, req CreateBalanceRequest) (BalanceResponse, error) {
	resp, err := s.CreateDefault(ctx, req.UserID, req.Year, req.TotalDays)
	if err != nil {
		return BalanceResponse{}, err
	}
	if req.UsedDays == nil || *req.UsedDays == 0 {
		return resp, nil
	}
	return s.Update(ctx, resp.ID, UpdateBalanceRequest{
		TotalDays: req.TotalDays,
		UsedDays:  req.UsedDays,
	})
}

func (s *service) Update(ctx context.Context, id string, req UpdateBalanceRequest) (BalanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
	}
	if req.TotalDays < 0 || (req.UsedDays != nil && *req.UsedDays < 0) {
		return BalanceResponse{}, balanceerrors.ErrInvalidDays
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}

	b.TotalDays = req.TotalDays
	if req.UsedDays != nil {
		b.UsedDays = *req.UsedDays
	}
	b.RemainingDays = b.TotalDays - b.UsedDays

	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.Error("update balance persist failed",
			zap.String("balance_id", id),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	s.logger.Info("update balance success",
		zap.String("balance_id", id),
		zap.Int("total_days", b.TotalDays),
		zap.Int("used_days", b.UsedDays),
	)
	return mapToResponse(*b), nil
}

func (s *service) Use(ctx context.Context, userID string, year, days int) error {
	if days < 0 {
		return balanceerrors.ErrInvalidDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	applied, err := qtx.UseDays(ctx, userID, year, days)
	if err != nil {
		return err
	}
	if !applied {
		exists, err := s.repo.Exists(ctx, userID, year)
		if err != nil {
			return err
		}
		if !exists {
			return balanceerrors.ErrBalanceNotFound
		}
		return balanceerrors.ErrInsufficientBalance
	}

	return tx.Commit()
}

func (s *service) Return(ctx context.Context, userID string, year, days int) error {
	if days < 0 {
		return balanceerrors.ErrInvalidDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	applied, err := qtx.ReturnDays(ctx, userID, year, days)
	if err != nil {
		return err
	}
	if !applied {
		return balanceerrors.ErrBalanceNotFound
	}

	return tx.Commit()
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	resp := BalanceResponse{
		ID:            b.ID.String(),
		UserID:        b.UserID.String(),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
	}
	if b.User != nil {
		resp.UserEmail = b.User.Email
		resp.UserFullName = b.User.FirstName + " " + b.User.LastName
	}
	return resp
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
