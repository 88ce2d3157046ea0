package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []string
	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.UserID)
		return nil
	})
	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.UserID)
		return nil
	})
	d.Subscribe(EventUserArchived, func(_ context.Context, e Event) error {
		got = append(got, "archived:"+e.UserID)
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventUserCreated, "u1", time.Now(), nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"first:u1", "second:u1"}, got)
}

func TestDispatcher_PublishContinuesAfterFailure(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	called := false
	d.Subscribe(EventUserUpdated, func(context.Context, Event) error { return boom })
	d.Subscribe(EventUserUpdated, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventUserUpdated, "u1", time.Now(), nil))
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}

func TestDispatcher_PublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventUserArchived, "u1", time.Now(), nil)))
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a := NewEvent(EventUserCreated, "u1", at, UserCreatedPayload{Name: "Alice"})
	b := NewEvent(EventUserCreated, "u1", at, nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, at, a.Timestamp)
	assert.Equal(t, UserCreatedPayload{Name: "Alice"}, a.Payload)
}
