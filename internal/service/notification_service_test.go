package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/user-directory/internal/events"
)

// MockStreamSink mocks the StreamSink interface
type MockStreamSink struct {
	mock.Mock
}

func (m *MockStreamSink) Append(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestNotificationService_ForwardsEventsToSink(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sink := new(MockStreamSink)
	svc := NewNotificationService(dispatcher, sink, zap.NewNop())
	svc.RegisterHandlers()

	event := events.NewEvent(events.EventUserArchived, "u1", time.Now(), events.UserArchivedPayload{ArchivedAt: time.Now()})
	sink.On("Append", mock.Anything, event).Return(nil).Once()

	require.NoError(t, dispatcher.Publish(context.Background(), event))
	sink.AssertExpectations(t)
}

func TestNotificationService_SinkErrorsPropagateToDispatcher(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sink := new(MockStreamSink)
	sinkErr := errors.New("redis down")
	sink.On("Append", mock.Anything, mock.Anything).Return(sinkErr)

	NewNotificationService(dispatcher, sink, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventUserCreated, "u1", time.Now(), nil))
	assert.ErrorIs(t, err, sinkErr)
}

func TestNotificationService_WithoutSink(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, nil, zap.NewNop()).RegisterHandlers()

	assert.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventUserUpdated, "u1", time.Now(), nil)))
}

func TestNotificationService_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNotificationService(nil, nil, zap.NewNop()).RegisterHandlers()
	})
}
