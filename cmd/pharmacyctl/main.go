package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pharmacy-hr/internal/app"
	"pharmacy-hr/internal/bootstrap"
	"pharmacy-hr/internal/cli"
	"pharmacy-hr/internal/config"
	"pharmacy-hr/internal/payroll"
	"pharmacy-hr/internal/profile"
	"pharmacy-hr/internal/shared/connection"
	"pharmacy-hr/internal/worklog"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()

	// Quiet by default; operators get errors on stderr.
	logger := zap.NewNop()
	if os.Getenv("PHARMACYCTL_DEBUG") != "" {
		l, err := bootstrap.NewLogger(false)
		if err != nil {
			return err
		}
		logger = l
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 1)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	profileRepo := profile.NewRepository(gormDB)
	worklogService := worklog.NewService(sqlDB, worklog.NewRepository(gormDB))

	a := &cli.App{
		Migrate: func(ctx context.Context) error {
			return app.Migrate(ctx, gormDB)
		},
		SeedAdmin: func(ctx context.Context, email, name, password string) (*profile.Profile, error) {
			return profile.SeedAdmin(ctx, sqlDB, profileRepo, email, name, password)
		},
		// No redis: the CLI always reads fresh numbers.
		Payroll: payroll.NewService(payroll.NewRepository(profileRepo, worklogService), nil, payroll.Options{
			DefaultDays: cfg.PayrollDefaultDays,
			Location:    cfg.PayrollLocation,
		}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(a).ExecuteContext(ctx)
}
