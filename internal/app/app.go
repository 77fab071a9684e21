package app

import (
	"context"

	"go-leavedesk/internal/bootstrap"
	"go-leavedesk/internal/config"
	"go-leavedesk/internal/shared/connection"
	"go-leavedesk/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure, seeds the default admin and wires
// every module onto the router.
func BuildApp(router *gin.Engine, cfg config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	userRepo := user.NewRepository(gormDB)
	if err := bootstrap.SeedDefaultAdmin(context.Background(), userRepo, cfg.Seed); err != nil {
		return err
	}

	return registerModules(router, cfg, db, gormDB, rdb)
}
