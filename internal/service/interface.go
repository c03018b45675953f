package service

import (
	"context"

	"github.com/Uzbeksil125/chatcore/internal/hub"
)

// Router is the fan-out surface the engine emits through. *hub.Hub
// implements it directly; bridge.Relay wraps it for multi-instance
// deployments.
type Router interface {
	Subscribe(c *hub.Client, room string)
	Unsubscribe(c *hub.Client, room string)
	JoinUser(c *hub.Client, user string)
	Broadcast(room string, event interface{}) error
	Unicast(user string, event interface{}) error
}

// ChatService validates inbound events against presence and authorization,
// applies them to the message store and account directory, and emits the
// resulting events.
type ChatService interface {
	HandleConnect(ctx context.Context, c *hub.Client, user string) error
	HandleJoin(ctx context.Context, c *hub.Client, room string) error
	HandleText(ctx context.Context, c *hub.Client, room, text, replyTo string) error
	HandleImage(ctx context.Context, c *hub.Client, room, payload string) error
	HandleFile(ctx context.Context, c *hub.Client, room, data, name, mime string) error
	HandleRead(ctx context.Context, c *hub.Client, room string) error
	HandleChatRequest(ctx context.Context, c *hub.Client, to string) error
	HandleAcceptChat(ctx context.Context, c *hub.Client, from string) error
	HandleGetNotifications(ctx context.Context, c *hub.Client) error
	HandleGetChats(ctx context.Context, c *hub.Client) error
	HandleDisconnect(ctx context.Context, c *hub.Client) error
}
