package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"pharmacy-hr/internal/events"
	"pharmacy-hr/internal/mailer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func HandleProfileUpdated(cache PayrollCache, logger *zap.Logger) HandleFunc {
	log := logger.Named("kafka.consumer.profile_updated")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.ProfileUpdatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode profile updated event: %v", ErrSkip, err)
		}

		if err := cache.InvalidateUser(ctx, event.ProfileID); err != nil {
			return err
		}

		log.Info("payroll cache invalidated from pay config change",
			zap.String("request_id", event.RequestID),
			zap.String("profile_id", event.ProfileID),
		)
		return nil
	}
}

type InviteSender interface {
	SendInvite(ctx context.Context, inv mailer.Invite) error
}

// HandleProfileInvited mails the invite link. Delivery is at-least-once, so a
// redelivered event can send the same link twice.
func HandleProfileInvited(sender InviteSender, logger *zap.Logger) HandleFunc {
	log := logger.Named("kafka.consumer.profile_invited")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.ProfileInvitedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode profile invited event: %v", ErrSkip, err)
		}
		if event.Email == "" || event.InviteToken == "" {
			return fmt.Errorf("%w: invite event missing email or token", ErrSkip)
		}

		if err := sender.SendInvite(ctx, mailer.Invite{
			To:        event.Email,
			Name:      event.Name,
			Role:      event.Role,
			Token:     event.InviteToken,
			ExpiresAt: event.ExpiresAt,
		}); err != nil {
			return err
		}

		log.Info("invite mail sent",
			zap.String("request_id", event.RequestID),
			zap.String("profile_id", event.ProfileID),
		)
		return nil
	}
}
