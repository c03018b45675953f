package domain

import "time"

// WebSocket event types from client.
const (
	EventJoin             = "join"
	EventMessage          = "message"
	EventImage            = "image"
	EventFile             = "file"
	EventRead             = "read"
	EventGetNotifications = "get_notifications"
	EventChatRequest      = "chat_request"
	EventAcceptChat       = "accept_chat"
	EventGetChats         = "get_chats"
)

// WebSocket event types to client.
const (
	EventRoomJoined   = "room_joined"
	EventNotification = "notification"
	EventNotifCount   = "notif_count"
	EventChatAdded    = "chat_added"
	EventChatList     = "chat_list"
)

// BaseEvent is the envelope shared by all WebSocket frames.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> Server events

type JoinEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type MessageEvent struct {
	Type    string `json:"type"`
	Room    string `json:"room"`
	Msg     string `json:"msg"`
	ReplyTo string `json:"reply_to,omitempty"`
}

type ImageEvent struct {
	Type  string `json:"type"`
	Room  string `json:"room"`
	Image string `json:"image"`
}

type FileEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
	Name string `json:"name"`
	Mime string `json:"mime"`
}

type ReadEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type ChatRequestEvent struct {
	Type string `json:"type"`
	To   string `json:"to"`
}

type AcceptChatEvent struct {
	Type string `json:"type"`
	From string `json:"from"`
}

// Server -> Client events

// MessageOut is the fully materialized event broadcast to a room and
// replayed as history. Image and Data carry inline attachment content.
type MessageOut struct {
	Type     string    `json:"type"`
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Room     string    `json:"room"`
	Username string    `json:"username"`
	Msg      string    `json:"msg,omitempty"`
	ReplyTo  string    `json:"reply_to,omitempty"`
	Image    string    `json:"image,omitempty"`
	Data     string    `json:"data,omitempty"`
	Name     string    `json:"name,omitempty"`
	Mime     string    `json:"mime,omitempty"`
	Time     time.Time `json:"time"`
	SeenBy   []string  `json:"seen_by"`
}

type RoomJoinedOut struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

type ReadOut struct {
	Type string `json:"type"`
	Room string `json:"room"`
	User string `json:"user"`
}

type NotificationOut struct {
	Type string `json:"type"`
	From string `json:"from"`
}

type NotifCountOut struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type ChatAddedOut struct {
	Type string `json:"type"`
	Room string `json:"room"`
	With string `json:"with"`
}

type ChatListOut struct {
	Type  string   `json:"type"`
	Rooms []string `json:"rooms"`
}

// NewMessageOut builds the outbound frame for a message event. inline is the
// attachment content to embed, empty for text messages or missing blobs.
func NewMessageOut(m *Message, inline string) *MessageOut {
	out := &MessageOut{
		Type:     EventMessage,
		ID:       m.ID,
		Kind:     m.Kind,
		Room:     m.RoomID,
		Username: m.Author,
		Msg:      m.Body,
		ReplyTo:  m.ReplyTo,
		Name:     m.FileName,
		Mime:     m.MimeType,
		Time:     m.CreatedAt,
		SeenBy:   m.SeenBy,
	}
	switch m.Kind {
	case KindImage:
		out.Image = inline
	case KindFile:
		out.Data = inline
	}
	return out
}
