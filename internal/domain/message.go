package domain

import "time"

// Message kinds.
const (
	KindText  = "text"
	KindImage = "image"
	KindFile  = "file"
)

// Message is a single immutable event in a room's log. Only SeenBy grows
// after creation.
type Message struct {
	ID        string
	Kind      string
	RoomID    string
	Author    string
	Body      string // text content, empty for binary kinds
	ReplyTo   string // id of an earlier event in the same room, optional
	FileKey   string // attachment storage key for image/file kinds
	FileName  string // original filename, file kind only
	MimeType  string // media type, file kind only
	CreatedAt time.Time
	SeenBy    []string
}

// Seen reports whether user is already in the read-receipt set.
func (m *Message) Seen(user string) bool {
	for _, u := range m.SeenBy {
		if u == user {
			return true
		}
	}
	return false
}
