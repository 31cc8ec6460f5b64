package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"media-tracker/internal/media"
)

const publishTimeout = 5 * time.Second

// Publisher is the part of *redis.Client the Redis sink needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes every delivered event as a JSON Envelope on a Redis
// pub/sub channel.
type RedisSink struct {
	client  Publisher
	channel string
	log     *slog.Logger
	now     func() time.Time
}

// NewRedisSink returns a sink publishing on channel through client.
func NewRedisSink(client Publisher, channel string, log *slog.Logger) *RedisSink {
	return &RedisSink{client: client, channel: channel, log: log, now: time.Now}
}

// LogBaseEvent implements media.Sink.
func (s *RedisSink) LogBaseEvent(ev media.BaseEvent) error {
	body, err := Encode(ev, s.now())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.client.Publish(ctx, s.channel, body).Err(); err != nil {
		s.log.Error("redis publish failed",
			slog.String("channel", s.channel),
			slog.String("event", ev.EventName()),
			slog.String("error", err.Error()))
		return fmt.Errorf("publish %s: %w", ev.EventName(), err)
	}
	return nil
}

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
