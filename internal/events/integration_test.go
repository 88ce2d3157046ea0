//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/spec-kit/user-directory/internal/events"
)

var redisAddr string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	redisAddr = fmt.Sprintf("%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRedisStreamSink_DispatcherRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	t.Cleanup(func() { _ = client.Close() })

	const stream = "user-directory:test-events"
	require.NoError(t, client.Del(ctx, stream).Err())

	sink := events.NewRedisStreamSink(client, stream, 100)
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventUserCreated, sink.Append)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	event := events.NewEvent(events.EventUserCreated, "u-1", at, events.UserCreatedPayload{Name: "Alice", Email: "a@x.com"})
	require.NoError(t, dispatcher.Publish(ctx, event))

	entries, err := client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, event.ID, values["id"])
	assert.Equal(t, "user_created", values["type"])
	assert.Equal(t, "u-1", values["user_id"])
	assert.Equal(t, at.Format(time.RFC3339Nano), values["timestamp"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &payload))
	assert.Equal(t, "Alice", payload["name"])
}
