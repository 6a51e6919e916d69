package main

import (
	"pharmacy-hr/internal/app"
	"pharmacy-hr/internal/bootstrap"
	"pharmacy-hr/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := bootstrap.NewLogger(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := app.RunWorker(cfg); err != nil {
		logger.Fatal("worker stopped", zap.Error(err))
	}
}
