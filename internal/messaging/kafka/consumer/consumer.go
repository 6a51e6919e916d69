package consumer

import (
	"context"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrSkip marks a message that can never succeed (bad payload). It is committed and dropped.
var ErrSkip = errors.New("skip message")

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type HandleFunc func(ctx context.Context, msg kafkago.Message) error

// Backoff bounds the wait between attempts at the same message.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

var DefaultBackoff = Backoff{Initial: time.Second, Max: time.Minute}

func (b Backoff) next(d time.Duration) time.Duration {
	if d <= 0 {
		return b.Initial
	}
	d *= 2
	if d > b.Max {
		return b.Max
	}
	return d
}

// Run is RunWithBackoff with DefaultBackoff.
func Run(ctx context.Context, reader MessageReader, name string, handle HandleFunc, logger *zap.Logger) {
	RunWithBackoff(ctx, reader, name, handle, DefaultBackoff, logger)
}

// RunWithBackoff fetches until ctx is cancelled. A failing message is retried in place
// until handle returns nil or ErrSkip; only then is it committed and the next one fetched.
// A message that never succeeds stalls its partition.
func RunWithBackoff(ctx context.Context, reader MessageReader, name string, handle HandleFunc, backoff Backoff, logger *zap.Logger) {
	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if !handleUntilDone(ctx, msg, handle, backoff, log) {
			log.Info("consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// handleUntilDone returns false only when ctx is cancelled before the message is done.
func handleUntilDone(ctx context.Context, msg kafkago.Message, handle HandleFunc, backoff Backoff, log *zap.Logger) bool {
	reqID := headerValue(msg, "request_id")
	var wait time.Duration

	for attempt := 1; ; attempt++ {
		err := handle(ctx, msg)
		if err == nil {
			return true
		}
		if errors.Is(err, ErrSkip) {
			log.Warn("message skipped",
				zap.String("request_id", reqID),
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return true
		}

		wait = backoff.next(wait)
		log.Error("handle message failed, retrying",
			zap.String("request_id", reqID),
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
	}
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
