package account

import (
	"context"
	"errors"
)

// ErrUnknownUser is returned when an operation targets a user that has
// never authenticated.
var ErrUnknownUser = errors.New("unknown user")

// Account is a user's directory record.
type Account struct {
	Username string
	Requests []string // pending requester usernames, oldest first
	Chats    []string // joined room ids, insertion order
}

// Directory holds per-user friend-request inboxes and joined-room lists.
// Operations on one user are atomic; users never block each other.
type Directory interface {
	// GetOrCreate returns the account for user, creating an empty record
	// on first sight.
	GetOrCreate(ctx context.Context, user string) (*Account, error)

	// AddRequest places from in to's request inbox. It returns false
	// without error when the request is a self-request or already pending;
	// an unknown target yields ErrUnknownUser.
	AddRequest(ctx context.Context, from, to string) (bool, error)

	// AcceptRequest derives the private room for (accepter, requester),
	// records it in both users' chat lists, and clears the pending request
	// from accepter's inbox. Re-accepting is a no-op beyond returning the
	// same room id.
	AcceptRequest(ctx context.Context, accepter, requester string) (string, error)

	// ListChats returns user's joined rooms in insertion order.
	ListChats(ctx context.Context, user string) ([]string, error)

	// ListRequests returns user's pending requesters, oldest first.
	ListRequests(ctx context.Context, user string) ([]string, error)
}
