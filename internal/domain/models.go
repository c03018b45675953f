package domain

import "time"

// MessageModel is the GORM model for the messages table. Seq preserves
// append order within a room.
type MessageModel struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement"`
	EventID   string    `gorm:"column:event_id;type:varchar(36);uniqueIndex;not null"`
	RoomID    string    `gorm:"column:room_id;type:varchar(255);index;not null"`
	Kind      string    `gorm:"type:varchar(16);not null"`
	Author    string    `gorm:"type:varchar(255);not null"`
	Body      string    `gorm:"type:text"`
	ReplyTo   string    `gorm:"column:reply_to;type:varchar(36)"`
	FileKey   string    `gorm:"column:file_key;type:varchar(255)"`
	FileName  string    `gorm:"column:file_name;type:varchar(255)"`
	MimeType  string    `gorm:"column:mime_type;type:varchar(127)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (MessageModel) TableName() string { return "messages" }

// ReceiptModel is the GORM model for the read-receipt index. One row per
// (event, user); the unique index makes the receipt set append-only.
type ReceiptModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	RoomID    string    `gorm:"column:room_id;type:varchar(255);index;not null"`
	EventID   string    `gorm:"column:event_id;type:varchar(36);uniqueIndex:idx_receipts_event_user;not null"`
	Username  string    `gorm:"type:varchar(255);uniqueIndex:idx_receipts_event_user;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ReceiptModel) TableName() string { return "receipts" }

// AccountModel is the GORM model for user account records. Rows are created
// on first sight of a username and never deleted.
type AccountModel struct {
	Username  string    `gorm:"primaryKey;type:varchar(255)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AccountModel) TableName() string { return "accounts" }

// RequestModel is a pending friend request in owner's inbox.
type RequestModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Owner     string    `gorm:"type:varchar(255);uniqueIndex:idx_requests_owner_requester;not null"`
	Requester string    `gorm:"type:varchar(255);uniqueIndex:idx_requests_owner_requester;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RequestModel) TableName() string { return "chat_requests" }

// ChatModel records a room in a user's joined-room list.
type ChatModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Username  string    `gorm:"type:varchar(255);uniqueIndex:idx_chats_user_room;not null"`
	RoomID    string    `gorm:"column:room_id;type:varchar(255);uniqueIndex:idx_chats_user_room;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatModel) TableName() string { return "chats" }

// Models returns every model the schema migration must cover.
func Models() []interface{} {
	return []interface{}{
		&MessageModel{},
		&ReceiptModel{},
		&AccountModel{},
		&RequestModel{},
		&ChatModel{},
	}
}
