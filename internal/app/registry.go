package app

import (
	"database/sql"

	"go-leavedesk/internal/auth"
	"go-leavedesk/internal/balance"
	"go-leavedesk/internal/config"
	"go-leavedesk/internal/dashboard"
	"go-leavedesk/internal/leave"
	"go-leavedesk/internal/messaging/kafka"
	"go-leavedesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	clock := clockwork.NewRealClock()

	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB, db)
	leaveRepo := leave.NewRepository(gormDB, db)
	dashboardRepo := dashboard.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	userService := user.NewService(userRepo)
	balanceService := balance.NewService(db, balanceRepo, clock)
	leaveService := leave.NewService(
		db,
		leaveRepo,
		balanceRepo,
		outboxRepo,
		leave.AdmissionPolicy{MaxConcurrentLeaves: cfg.Leave.MaxConcurrentLeaves},
		leave.CancellationPolicy{LeadDays: cfg.Leave.CancelLeadDays},
		clock,
	)
	authService := auth.NewService(userRepo, balanceService, cfg.Auth, cfg.Leave.DefaultAnnualDays, clock)
	dashboardService := dashboard.NewService(dashboardRepo, userRepo, leaveRepo, balanceRepo, rdb, clock)

	// --- Handlers ---
	userHandler := user.NewHandler(userService)
	balanceHandler := balance.NewHandler(balanceService)
	leaveHandler := leave.NewHandler(leaveService, rdb)
	authHandler := auth.NewHandler(authService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, cfg.Auth.JWTSecret)
		user.RegisterRoutes(api, userHandler, cfg.Auth.JWTSecret)
		balance.RegisterRoutes(api, balanceHandler, cfg.Auth.JWTSecret)
		leave.RegisterRoutes(api, leaveHandler, rdb, cfg.Auth.JWTSecret)
		dashboard.RegisterRoutes(api, dashboardHandler, cfg.Auth.JWTSecret)
	}

	return nil
}
