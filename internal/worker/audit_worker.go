package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/finguard/user-service/internal/events"
)

// StartAuditWorker writes every authentication event to the audit logger.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}
	audit := logger.Named("audit")
	for _, eventType := range events.AllTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			fields := []zap.Field{
				zap.String("event_id", e.ID),
				zap.String("event", string(e.Type)),
				zap.String("subject", e.Subject),
				zap.Time("at", e.Timestamp),
			}
			if len(e.Payload) > 0 {
				fields = append(fields, zap.Any("payload", e.Payload))
			}
			audit.Info("auth event", fields...)
			return nil
		})
	}
}
