package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"surveillance-dashboard/internal/config"
	"surveillance-dashboard/internal/model"
	"surveillance-dashboard/internal/realtime"
)

// Broadcaster takes encoded live alert frames.
type Broadcaster interface {
	Broadcast(ctx context.Context, data []byte) error
}

type envelope struct {
	Origin string          `json:"origin"`
	Frame  json.RawMessage `json:"frame"`
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisFanout shares live alerts between dashboard instances. Events stored
// here are published on the channel; frames from other instances are handed
// to the local hub.
type RedisFanout struct {
	client  *redis.Client
	channel string
	origin  string
	log     zerolog.Logger
}

func NewRedisFanout(client *redis.Client, channel string, log zerolog.Logger) *RedisFanout {
	return &RedisFanout{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		log:     log.With().Str("component", "redis_fanout").Logger(),
	}
}

func (f *RedisFanout) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

func (f *RedisFanout) Publish(ctx context.Context, event model.Event) error {
	frame, err := realtime.EncodeEvent(event)
	if err != nil {
		return err
	}
	b, err := json.Marshal(envelope{Origin: f.origin, Frame: frame})
	if err != nil {
		return err
	}
	if err := f.client.Publish(ctx, f.channel, b).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Run relays frames published by other instances until ctx is done.
func (f *RedisFanout) Run(ctx context.Context, dst Broadcaster) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	f.log.Info().Str("channel", f.channel).Msg("subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			f.relay(ctx, dst, msg.Payload)
		}
	}
}

func (f *RedisFanout) relay(ctx context.Context, dst Broadcaster, payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		f.log.Warn().Err(err).Msg("bad fanout message")
		return
	}
	if env.Origin == f.origin {
		return
	}
	if err := dst.Broadcast(ctx, env.Frame); err != nil {
		f.log.Warn().Err(err).Msg("relay failed")
	}
}

func (f *RedisFanout) Close() error {
	return f.client.Close()
}
