package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/user-directory/internal/events"
	"github.com/spec-kit/user-directory/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to dispatcher.
// sink may be nil to only log events.
func StartNotificationWorker(dispatcher events.Dispatcher, sink events.StreamSink, logger *zap.Logger) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	notifications := service.NewNotificationService(dispatcher, sink, logger)
	notifications.RegisterHandlers()
	return notifications
}
