package account

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Uzbeksil125/chatcore/internal/domain"
)

// GormDirectory implements Directory using GORM.
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a GORM-backed account directory.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (d *GormDirectory) ensure(tx *gorm.DB, user string) error {
	err := tx.Create(&domain.AccountModel{Username: user}).Error
	if err != nil && !isUniqueViolation(err) {
		return err
	}
	return nil
}

func (d *GormDirectory) exists(tx *gorm.DB, user string) (bool, error) {
	var count int64
	err := tx.Model(&domain.AccountModel{}).
		Where("username = ?", user).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetOrCreate returns the account for user, creating it if missing.
func (d *GormDirectory) GetOrCreate(ctx context.Context, user string) (*Account, error) {
	user = domain.NormalizeUser(user)

	if err := d.ensure(d.db.WithContext(ctx), user); err != nil {
		return nil, err
	}

	requests, err := d.ListRequests(ctx, user)
	if err != nil {
		return nil, err
	}
	chats, err := d.ListChats(ctx, user)
	if err != nil {
		return nil, err
	}

	return &Account{
		Username: user,
		Requests: requests,
		Chats:    chats,
	}, nil
}

// AddRequest places from in to's request inbox.
func (d *GormDirectory) AddRequest(ctx context.Context, from, to string) (bool, error) {
	from, to = domain.NormalizeUser(from), domain.NormalizeUser(to)
	if from == "" || to == "" || from == to {
		return false, nil
	}

	added := false
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := d.exists(tx, to)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownUser
		}

		req := domain.RequestModel{Owner: to, Requester: from}
		if err := tx.Create(&req).Error; err != nil {
			if isUniqueViolation(err) {
				// Already pending, idempotent.
				return nil
			}
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// AcceptRequest wires the private room for both users and clears the
// pending request.
func (d *GormDirectory) AcceptRequest(ctx context.Context, accepter, requester string) (string, error) {
	accepter, requester = domain.NormalizeUser(accepter), domain.NormalizeUser(requester)
	room := domain.PrivateRoom(accepter, requester)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := d.exists(tx, requester)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownUser
		}
		if err := d.ensure(tx, accepter); err != nil {
			return err
		}

		for _, user := range []string{accepter, requester} {
			chat := domain.ChatModel{Username: user, RoomID: room}
			if err := tx.Create(&chat).Error; err != nil && !isUniqueViolation(err) {
				return err
			}
		}

		return tx.
			Where("owner = ? AND requester = ?", accepter, requester).
			Delete(&domain.RequestModel{}).Error
	})
	if err != nil {
		return "", err
	}
	return room, nil
}

// ListChats returns user's joined rooms in insertion order.
func (d *GormDirectory) ListChats(ctx context.Context, user string) ([]string, error) {
	user = domain.NormalizeUser(user)

	var models []domain.ChatModel
	err := d.db.WithContext(ctx).
		Where("username = ?", user).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	rooms := make([]string, 0, len(models))
	for _, m := range models {
		rooms = append(rooms, m.RoomID)
	}
	return rooms, nil
}

// ListRequests returns user's pending requesters, oldest first.
func (d *GormDirectory) ListRequests(ctx context.Context, user string) ([]string, error) {
	user = domain.NormalizeUser(user)

	var models []domain.RequestModel
	err := d.db.WithContext(ctx).
		Where("owner = ?", user).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	requesters := make([]string, 0, len(models))
	for _, m := range models {
		requesters = append(requesters, m.Requester)
	}
	return requesters, nil
}

// Ensure interface is satisfied at compile time.
var _ Directory = (*GormDirectory)(nil)
