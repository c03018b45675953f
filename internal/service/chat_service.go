package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Uzbeksil125/chatcore/internal/account"
	"github.com/Uzbeksil125/chatcore/internal/domain"
	"github.com/Uzbeksil125/chatcore/internal/hub"
	"github.com/Uzbeksil125/chatcore/internal/presence"
	"github.com/Uzbeksil125/chatcore/internal/storage"
	"github.com/Uzbeksil125/chatcore/internal/store"
	"github.com/Uzbeksil125/chatcore/pkg/log"
)

type chatService struct {
	presence *presence.Table
	router   Router
	messages store.MessageStore
	accounts account.Directory
	blobs    storage.Store
}

func NewChatService(
	p *presence.Table,
	router Router,
	messages store.MessageStore,
	accounts account.Directory,
	blobs storage.Store,
) ChatService {
	return &chatService{
		presence: p,
		router:   router,
		messages: messages,
		accounts: accounts,
		blobs:    blobs,
	}
}

// HandleConnect binds an externally-authenticated user to the connection:
// presence entry, global room subscription, and the user's unicast group.
func (s *chatService) HandleConnect(ctx context.Context, c *hub.Client, user string) error {
	user = domain.NormalizeUser(user)
	if user == "" {
		return ErrDenied
	}

	if err := s.presence.Register(c.ID, user); err != nil {
		return err
	}

	if _, err := s.accounts.GetOrCreate(ctx, user); err != nil {
		s.presence.Unregister(c.ID)
		return err
	}

	s.router.Subscribe(c, domain.GlobalRoom)
	s.router.JoinUser(c, user)

	l := log.L()
	l.Info().Str(log.FieldClientID, c.ID).Str(log.FieldUser, user).Msg("connection authenticated")
	return nil
}

// authorize resolves the connection's user and checks room access.
func (s *chatService) authorize(c *hub.Client, room string) (string, error) {
	user, ok := s.presence.User(c.ID)
	if !ok {
		return "", ErrDenied
	}
	if !domain.RoomAuthorized(room, user) {
		return "", ErrDenied
	}
	return user, nil
}

// HandleJoin switches the connection's current room and replays the room's
// history to it, attachments inlined. Replay waits for send buffer space so
// a long history arrives whole.
func (s *chatService) HandleJoin(ctx context.Context, c *hub.Client, room string) error {
	if _, err := s.authorize(c, room); err != nil {
		return err
	}

	s.presence.SetRoom(c.ID, room)
	s.router.Subscribe(c, room)

	history, err := s.messages.ReadAll(ctx, room)
	if err != nil {
		return err
	}
	for i := range history {
		m := &history[i]
		if err := c.SendEventWait(domain.NewMessageOut(m, s.inlineContent(ctx, m))); err != nil {
			return err
		}
	}

	return c.SendEventWait(&domain.RoomJoinedOut{Type: domain.EventRoomJoined, Room: room})
}

// HandleText publishes a text message to a room.
func (s *chatService) HandleText(ctx context.Context, c *hub.Client, room, text, replyTo string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrInvalid
	}
	user, err := s.authorize(c, room)
	if err != nil {
		return err
	}

	msg := &domain.Message{
		Kind:    domain.KindText,
		Body:    text,
		ReplyTo: replyTo,
	}
	return s.publish(ctx, room, user, msg, "")
}

// HandleImage persists the image payload as an attachment blob and
// publishes the event. The blob is written only for an authorized publish.
func (s *chatService) HandleImage(ctx context.Context, c *hub.Client, room, payload string) error {
	if payload == "" {
		return ErrInvalid
	}
	user, err := s.authorize(c, room)
	if err != nil {
		return err
	}

	key := uuid.NewString()
	if err := s.blobs.Write(ctx, key, strings.NewReader(payload)); err != nil {
		return err
	}

	msg := &domain.Message{
		Kind:    domain.KindImage,
		FileKey: key,
	}
	return s.publish(ctx, room, user, msg, payload)
}

// HandleFile persists the file content under a key carrying the original
// extension and publishes the event. The blob is written only for an
// authorized publish.
func (s *chatService) HandleFile(ctx context.Context, c *hub.Client, room, data, name, mime string) error {
	if data == "" {
		return ErrInvalid
	}
	user, err := s.authorize(c, room)
	if err != nil {
		return err
	}

	key := uuid.NewString() + filepath.Ext(name)
	if err := s.blobs.Write(ctx, key, strings.NewReader(data)); err != nil {
		return err
	}

	msg := &domain.Message{
		Kind:     domain.KindFile,
		FileKey:  key,
		FileName: name,
		MimeType: mime,
	}
	return s.publish(ctx, room, user, msg, data)
}

// publish materializes, appends, and broadcasts one already-authorized
// event.
func (s *chatService) publish(ctx context.Context, room, user string, msg *domain.Message, inline string) error {
	msg.ID = uuid.NewString()
	msg.RoomID = room
	msg.Author = user
	msg.CreatedAt = time.Now().UTC()
	msg.SeenBy = []string{user}

	if err := s.messages.Append(ctx, msg); err != nil {
		return err
	}

	l := log.L()
	l.Debug().
		Str(log.FieldUser, user).
		Str(log.FieldRoom, room).
		Str(log.FieldEventID, msg.ID).
		Str("kind", msg.Kind).
		Msg("message published")

	return s.router.Broadcast(room, domain.NewMessageOut(msg, inline))
}

// HandleRead marks every event in the room as seen by the requesting user
// and, if anything changed, broadcasts a coarse caught-up signal.
func (s *chatService) HandleRead(ctx context.Context, c *hub.Client, room string) error {
	user, err := s.authorize(c, room)
	if err != nil {
		return err
	}

	history, err := s.messages.ReadAll(ctx, room)
	if err != nil {
		return err
	}

	var unseen []string
	for i := range history {
		if !history[i].Seen(user) {
			unseen = append(unseen, history[i].ID)
		}
	}

	newly, err := s.messages.MarkSeen(ctx, room, unseen, user)
	if err != nil {
		return err
	}
	if len(newly) == 0 {
		return nil
	}

	return s.router.Broadcast(room, &domain.ReadOut{
		Type: domain.EventRead,
		Room: room,
		User: user,
	})
}

// HandleChatRequest places the sender in to's request inbox and notifies
// every live connection of to.
func (s *chatService) HandleChatRequest(ctx context.Context, c *hub.Client, to string) error {
	user, ok := s.presence.User(c.ID)
	if !ok {
		return ErrDenied
	}
	to = domain.NormalizeUser(to)
	if to == "" || to == user {
		return ErrInvalid
	}

	if _, err := s.accounts.AddRequest(ctx, user, to); err != nil {
		return err
	}

	pending, err := s.accounts.ListRequests(ctx, to)
	if err != nil {
		return err
	}

	s.router.Unicast(to, &domain.NotificationOut{Type: domain.EventNotification, From: user})
	return s.router.Unicast(to, &domain.NotifCountOut{Type: domain.EventNotifCount, Count: len(pending)})
}

// HandleAcceptChat wires the deterministic private room for both parties
// and tells each of them about it.
func (s *chatService) HandleAcceptChat(ctx context.Context, c *hub.Client, from string) error {
	user, ok := s.presence.User(c.ID)
	if !ok {
		return ErrDenied
	}
	from = domain.NormalizeUser(from)
	if from == "" || from == user {
		return ErrInvalid
	}

	room, err := s.accounts.AcceptRequest(ctx, user, from)
	if err != nil {
		return err
	}

	l := log.L()
	l.Info().Str(log.FieldUser, user).Str("with", from).Str(log.FieldRoom, room).Msg("chat accepted")

	s.router.Unicast(user, &domain.ChatAddedOut{Type: domain.EventChatAdded, Room: room, With: from})
	return s.router.Unicast(from, &domain.ChatAddedOut{Type: domain.EventChatAdded, Room: room, With: user})
}

// HandleGetNotifications returns the pending request inbox to the
// requesting connection only.
func (s *chatService) HandleGetNotifications(ctx context.Context, c *hub.Client) error {
	user, ok := s.presence.User(c.ID)
	if !ok {
		return ErrDenied
	}

	pending, err := s.accounts.ListRequests(ctx, user)
	if err != nil {
		return err
	}

	c.SendEvent(&domain.NotifCountOut{Type: domain.EventNotifCount, Count: len(pending)})
	for _, requester := range pending {
		c.SendEvent(&domain.NotificationOut{Type: domain.EventNotification, From: requester})
	}
	return nil
}

// HandleGetChats returns the joined-room list to the requesting connection
// only.
func (s *chatService) HandleGetChats(ctx context.Context, c *hub.Client) error {
	user, ok := s.presence.User(c.ID)
	if !ok {
		return ErrDenied
	}

	chats, err := s.accounts.ListChats(ctx, user)
	if err != nil {
		return err
	}

	return c.SendEvent(&domain.ChatListOut{Type: domain.EventChatList, Rooms: chats})
}

// HandleDisconnect drops the connection's presence entry. Hub membership
// is cleaned up by the connection's own read pump.
func (s *chatService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	s.presence.Unregister(c.ID)
	return nil
}

// inlineContent loads stored attachment content for delivery. A missing
// blob degrades to an event without inline content.
func (s *chatService) inlineContent(ctx context.Context, m *domain.Message) string {
	if m.FileKey == "" {
		return ""
	}

	rc, err := s.blobs.Read(ctx, m.FileKey)
	if err != nil {
		l := log.L()
		l.Warn().Str(log.FieldEventID, m.ID).Str("key", m.FileKey).Err(err).Msg("attachment blob unavailable")
		return ""
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}
	return string(data)
}
