package bootstrap

import (
	"context"
	"testing"

	"pharmacy-hr/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audit := NewZapAuditLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "req-9")
	audit.Log(ctx, AuditLog{Action: "SERVER_SHUTDOWN", Message: "bye", Meta: map[string]any{"signal": "terminated"}})
	audit.Log(context.Background(), AuditLog{Action: "SERVER_START", Message: "hi"})

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "audit", entries[0].LoggerName)

	first := entries[0].ContextMap()
	assert.Equal(t, "SERVER_SHUTDOWN", first["action"])
	assert.Equal(t, "req-9", first["request_id"])
	assert.Contains(t, first, "meta")

	second := entries[1].ContextMap()
	assert.NotContains(t, second, "request_id")
	assert.NotContains(t, second, "meta")
}
