package app

import (
	"context"
	"database/sql"
	"time"

	"pharmacy-hr/internal/auth"
	"pharmacy-hr/internal/config"
	"pharmacy-hr/internal/messaging/kafka"
	"pharmacy-hr/internal/middleware"
	"pharmacy-hr/internal/payroll"
	"pharmacy-hr/internal/profile"
	"pharmacy-hr/internal/rbac"
	"pharmacy-hr/internal/rbac/infra"
	"pharmacy-hr/internal/worklog"

	"github.com/gin-gonic/gin"
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
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	profileRepo := profile.NewRepository(gormDB)
	worklogRepo := worklog.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rbacService.Load(ctx); err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(profileRepo, cfg.JWTSecret)
	profileService := profile.NewServiceWithOutbox(db, profileRepo, outboxRepo)
	worklogService := worklog.NewServiceWithOutbox(db, worklogRepo, outboxRepo)
	payrollService := payroll.NewService(
		payroll.NewRepository(profileRepo, worklogService),
		rdb,
		payroll.Options{DefaultDays: cfg.PayrollDefaultDays, Location: cfg.PayrollLocation},
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction())
	profileHandler := profile.NewHandler(profileService)
	worklogHandler := worklog.NewHandlerWithRedis(worklogService, rdb)
	payrollHandler := payroll.NewHandler(payrollService)
	rbacHandler := rbac.NewHandler(rbacService)

	authMiddleware := middleware.AuthMiddlewareWithLookup(cfg.JWTSecret, profile.NewPrincipalLookup(profileRepo))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMiddleware)
		profile.RegisterRoutes(api, profileHandler, authMiddleware, rbacService)
		worklog.RegisterRoutes(api, worklogHandler, authMiddleware, rbacService, rdb)
		payroll.RegisterRoutes(api, payrollHandler, authMiddleware, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, authMiddleware, rbacService)
	}

	return nil
}
