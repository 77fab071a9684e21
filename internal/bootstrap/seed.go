package bootstrap

import (
	"context"

	"go-leavedesk/internal/config"
	"go-leavedesk/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SeedDefaultAdmin creates the configured administrator account when no
// admin exists yet. With an empty SEED_ADMIN_PASSWORD the seed is skipped,
// which is the expected state for environments provisioned by hand.
func SeedDefaultAdmin(ctx context.Context, users user.Repository, cfg config.SeedConfig) error {
	logger := zap.L().Named("bootstrap.seed")

	if cfg.AdminPassword == "" {
		logger.Debug("admin seed skipped, no password configured")
		return nil
	}

	count, err := users.CountByRole(ctx, user.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &user.User{
		ID:        uuid.New(),
		Email:     cfg.AdminEmail,
		Password:  string(hashed),
		FirstName: cfg.AdminFirstName,
		LastName:  cfg.AdminLastName,
		Role:      user.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("default admin seeded",
		zap.String("user_id", admin.ID.String()),
		zap.String("email", admin.Email),
	)
	return nil
}
