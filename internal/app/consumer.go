package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"pharmacy-hr/internal/config"
	"pharmacy-hr/internal/events"
	"pharmacy-hr/internal/mailer"
	"pharmacy-hr/internal/messaging/kafka/consumer"
	"pharmacy-hr/internal/payroll"
	"pharmacy-hr/internal/profile"
	"pharmacy-hr/internal/shared/connection"
	"pharmacy-hr/internal/worklog"

	"go.uber.org/zap"
)

const consumerGroupPrefix = "pharmacy-hr-"

func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if err := cfg.Require("KAFKA_BROKER", "REDIS_ADDR", "SMTP_HOST", "SMTP_FROM"); err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	profileRepo := profile.NewRepository(gormDB)
	worklogService := worklog.NewService(sqlDB, worklog.NewRepository(gormDB))
	payrollService := payroll.NewService(
		payroll.NewRepository(profileRepo, worklogService),
		redisClient,
		payroll.Options{DefaultDays: cfg.PayrollDefaultDays, Location: cfg.PayrollLocation},
	)
	inviteMailer := mailer.New(cfg.SMTP, cfg.SiteURL)

	subscriptions := []struct {
		topic  string
		group  string
		name   string
		handle consumer.HandleFunc
	}{
		{events.WorkLogReviewedTopic, "payroll-cache-worklog", "worklog_reviewed", consumer.HandleWorkLogReviewed(payrollService, logger)},
		{events.ProfileUpdatedTopic, "payroll-cache-profile", "profile_updated", consumer.HandleProfileUpdated(payrollService, logger)},
		{events.ProfileInvitedTopic, "invite-mailer", "profile_invited", consumer.HandleProfileInvited(inviteMailer, logger)},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for _, sub := range subscriptions {
		reader := connection.NewKafkaReader(cfg.KafkaBroker, sub.topic, consumerGroupPrefix+sub.group)
		defer reader.Close()

		wg.Add(1)
		go func(name string, handle consumer.HandleFunc) {
			defer wg.Done()
			consumer.Run(ctx, reader, name, handle, logger)
		}(sub.name, sub.handle)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
