package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"pharmacy-hr/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PayrollCache is the part of payroll.Service the consumers need.
type PayrollCache interface {
	InvalidateUser(ctx context.Context, userID string) error
}

// HandleWorkLogReviewed drops the owner's cached payroll summaries after approve or reject.
func HandleWorkLogReviewed(cache PayrollCache, logger *zap.Logger) HandleFunc {
	log := logger.Named("kafka.consumer.worklog_reviewed")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.WorkLogReviewedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode worklog reviewed event: %v", ErrSkip, err)
		}
		if event.UserID == "" {
			return fmt.Errorf("%w: worklog reviewed event without user_id", ErrSkip)
		}

		if err := cache.InvalidateUser(ctx, event.UserID); err != nil {
			return err
		}

		log.Info("payroll cache invalidated from worklog review",
			zap.String("request_id", event.RequestID),
			zap.String("work_log_id", event.WorkLogID),
			zap.String("user_id", event.UserID),
			zap.String("status", event.Status),
		)
		return nil
	}
}
