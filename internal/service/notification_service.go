package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/user-directory/internal/events"
)

// NotificationService fans user events out to the log and the event stream.
type NotificationService struct {
	dispatcher events.Dispatcher
	sink       events.StreamSink
	logger     *zap.Logger
}

// NewNotificationService creates the service. sink may be nil, in which case
// events are only logged.
func NewNotificationService(dispatcher events.Dispatcher, sink events.StreamSink, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sink:       sink,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleUserEvent)
	n.dispatcher.Subscribe(events.EventUserUpdated, n.handleUserEvent)
	n.dispatcher.Subscribe(events.EventUserArchived, n.handleUserEvent)
}

func (n *NotificationService) handleUserEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload))

	if n.sink == nil {
		return nil
	}
	return n.sink.Append(ctx, event)
}
