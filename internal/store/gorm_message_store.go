package store

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/Uzbeksil125/chatcore/internal/domain"
)

// GormMessageStore implements MessageStore using GORM. A lazily populated
// per-room mutex serializes read-modify-write cycles on one room's log
// without blocking unrelated rooms.
type GormMessageStore struct {
	db    *gorm.DB
	mu    sync.Mutex
	locks map[string]*sync.Mutex // roomID -> lock
}

// NewGormMessageStore creates a GORM-backed message store.
func NewGormMessageStore(db *gorm.DB) *GormMessageStore {
	return &GormMessageStore{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *GormMessageStore) roomLock(roomID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[roomID] = l
	}
	return l
}

// Append adds an event to its room's log.
func (s *GormMessageStore) Append(ctx context.Context, msg *domain.Message) error {
	l := s.roomLock(msg.RoomID)
	l.Lock()
	defer l.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := domain.MessageModel{
			EventID:   msg.ID,
			RoomID:    msg.RoomID,
			Kind:      msg.Kind,
			Author:    msg.Author,
			Body:      msg.Body,
			ReplyTo:   msg.ReplyTo,
			FileKey:   msg.FileKey,
			FileName:  msg.FileName,
			MimeType:  msg.MimeType,
			CreatedAt: msg.CreatedAt,
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}

		receipt := domain.ReceiptModel{
			RoomID:   msg.RoomID,
			EventID:  msg.ID,
			Username: msg.Author,
		}
		return tx.Create(&receipt).Error
	})
}

// ReadAll returns the full log of a room in append order.
func (s *GormMessageStore) ReadAll(ctx context.Context, roomID string) ([]domain.Message, error) {
	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	return s.readAll(ctx, roomID)
}

func (s *GormMessageStore) readAll(ctx context.Context, roomID string) ([]domain.Message, error) {
	var models []domain.MessageModel
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("seq ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	var receipts []domain.ReceiptModel
	err = s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id ASC").
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}

	seenBy := make(map[string][]string, len(models))
	for _, r := range receipts {
		seenBy[r.EventID] = append(seenBy[r.EventID], r.Username)
	}

	messages := make([]domain.Message, 0, len(models))
	for _, m := range models {
		// The author has always seen their own event, whether or not a
		// receipt row was ever written for them.
		seen := seenBy[m.EventID]
		if !contains(seen, m.Author) {
			seen = append([]string{m.Author}, seen...)
		}
		messages = append(messages, domain.Message{
			ID:        m.EventID,
			Kind:      m.Kind,
			RoomID:    m.RoomID,
			Author:    m.Author,
			Body:      m.Body,
			ReplyTo:   m.ReplyTo,
			FileKey:   m.FileKey,
			FileName:  m.FileName,
			MimeType:  m.MimeType,
			CreatedAt: m.CreatedAt,
			SeenBy:    seen,
		})
	}
	return messages, nil
}

// MarkSeen adds user to the receipt set of each listed event.
func (s *GormMessageStore) MarkSeen(ctx context.Context, roomID string, eventIDs []string, user string) ([]string, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	var existing []domain.ReceiptModel
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND username = ? AND event_id IN ?", roomID, user, eventIDs).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		seen[r.EventID] = struct{}{}
	}

	var newly []string
	for _, id := range eventIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		receipt := domain.ReceiptModel{
			RoomID:   roomID,
			EventID:  id,
			Username: user,
		}
		if err := s.db.WithContext(ctx).Create(&receipt).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return newly, err
		}
		newly = append(newly, id)
	}
	return newly, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Ensure interface is satisfied at compile time.
var _ MessageStore = (*GormMessageStore)(nil)
