package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamSink appends events to an external log.
type StreamSink interface {
	Append(ctx context.Context, event Event) error
}

// RedisStreamSink writes events to a Redis stream with XADD, one entry per event.
type RedisStreamSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamSink builds a sink. maxLen caps the stream approximately; zero disables trimming.
func NewRedisStreamSink(client *redis.Client, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

// Append serializes the event payload as JSON and adds it to the stream.
func (s *RedisStreamSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.Type, err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":        event.ID,
			"type":      string(event.Type),
			"user_id":   event.UserID,
			"timestamp": event.Timestamp.UTC().Format(time.RFC3339Nano),
			"payload":   string(payload),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
