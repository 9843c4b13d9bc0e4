package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/finguard/user-service/internal/events"
)

func TestAuditWorkerLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, zap.New(core))

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventLoginSucceeded,
		Subject:   "alice@example.com",
		Timestamp: time.Now(),
	}))

	entries := logs.FilterMessage("auth event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, "login_succeeded", entries[0].ContextMap()["event"])
	assert.Equal(t, "alice@example.com", entries[0].ContextMap()["subject"])
}
