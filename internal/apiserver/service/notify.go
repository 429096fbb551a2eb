package service

import (
	"context"
	"time"

	"github.com/dharashakti/backoffice/internal/apiserver/notifier"

	"go.uber.org/zap"
)

// publish sends the event if a sender is configured. Failures are logged and
// never fail the caller.
func publish(ctx context.Context, logger *zap.Logger, n notifier.Notifier, event *notifier.SessionEvent) {
	if n == nil || !n.CanSend() {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	if err := n.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.Warn("failed to publish session event",
			zap.String("kind", string(event.Kind)),
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err))
	}
}
