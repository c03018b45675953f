package bridge

import (
	"context"
	"encoding/json"

	"github.com/Uzbeksil125/chatcore/internal/hub"
	"github.com/Uzbeksil125/chatcore/pkg/log"
)

// Relay wraps the local hub as a router that also replicates every
// broadcast and unicast to peer instances. Subscription state stays local;
// only deliveries cross the wire.
type Relay struct {
	hub    *hub.Hub
	pubsub *RedisPubSub
	origin string
}

// NewRelay creates a relay identified by origin among its peers.
func NewRelay(h *hub.Hub, ps *RedisPubSub, origin string) *Relay {
	return &Relay{
		hub:    h,
		pubsub: ps,
		origin: origin,
	}
}

func (r *Relay) Subscribe(c *hub.Client, room string)   { r.hub.Subscribe(c, room) }
func (r *Relay) Unsubscribe(c *hub.Client, room string) { r.hub.Unsubscribe(c, room) }
func (r *Relay) JoinUser(c *hub.Client, user string)    { r.hub.JoinUser(c, user) }

// Broadcast delivers locally and replicates to peers.
func (r *Relay) Broadcast(room string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	r.hub.BroadcastRaw(room, data)
	return r.replicate(ScopeRoom, room, data)
}

// Unicast delivers locally and replicates to peers.
func (r *Relay) Unicast(user string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	r.hub.UnicastRaw(user, data)
	return r.replicate(ScopeUser, user, data)
}

func (r *Relay) replicate(scope, target string, payload []byte) error {
	err := r.pubsub.Publish(context.Background(), &Envelope{
		Origin:  r.origin,
		Scope:   scope,
		Target:  target,
		Payload: payload,
	})
	if err != nil {
		// Local delivery already happened; peer delivery is best-effort.
		l := log.L()
		l.Warn().Str("scope", scope).Str("target", target).Err(err).Msg("bridge replication failed")
	}
	return nil
}

// Run applies envelopes from peer instances to the local hub until ctx is
// done.
func (r *Relay) Run(ctx context.Context) error {
	envCh, err := r.pubsub.Subscribe(ctx)
	if err != nil {
		return err
	}

	l := log.L()
	l.Info().Str("origin", r.origin).Msg("bridge relay started")

	for env := range envCh {
		if env.Origin == r.origin {
			continue
		}
		switch env.Scope {
		case ScopeRoom:
			r.hub.BroadcastRaw(env.Target, env.Payload)
		case ScopeUser:
			r.hub.UnicastRaw(env.Target, env.Payload)
		}
	}
	return nil
}
