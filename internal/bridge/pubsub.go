// Package bridge replicates outbound events between peer instances over
// redis pub/sub, so a deployment running several server processes delivers
// room broadcasts and user notifications to connections on any of them.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Uzbeksil125/chatcore/internal/config"
)

// Scope of an envelope's target.
const (
	ScopeRoom = "room"
	ScopeUser = "user"
)

// Envelope is one replicated delivery. Payload is the already-encoded
// outbound frame; Origin identifies the publishing instance so it can skip
// its own envelopes.
type Envelope struct {
	Origin  string          `json:"origin"`
	Scope   string          `json:"scope"`
	Target  string          `json:"target"`
	Payload json.RawMessage `json:"payload"`
}

// RedisPubSub carries envelopes over a single redis channel.
type RedisPubSub struct {
	client  *redis.Client
	channel string
}

// NewRedisPubSub connects to redis and verifies the connection.
func NewRedisPubSub(cfg config.BridgeConfig) (*RedisPubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPubSub{
		client:  client,
		channel: cfg.Channel,
	}, nil
}

// Publish sends an envelope to every subscribed instance.
func (p *RedisPubSub) Publish(ctx context.Context, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

// Subscribe returns a channel of envelopes published by any instance,
// including this one. The channel closes when ctx is done.
func (p *RedisPubSub) Subscribe(ctx context.Context) (<-chan *Envelope, error) {
	pubsub := p.client.Subscribe(ctx, p.channel)

	envCh := make(chan *Envelope, 100)

	go func() {
		defer close(envCh)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					continue
				}

				select {
				case envCh <- &env:
				case <-ctx.Done():
					return
				default:
					// Channel full, skip envelope.
				}
			}
		}
	}()

	return envCh, nil
}

// Close closes the redis client.
func (p *RedisPubSub) Close() error {
	return p.client.Close()
}
