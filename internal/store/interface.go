package store

import (
	"context"

	"github.com/Uzbeksil125/chatcore/internal/domain"
)

// MessageStore is the append-only per-room event log. Operations on the
// same room are serialized; different rooms proceed concurrently.
type MessageStore interface {
	// Append adds an event to its room's log and seeds the read-receipt
	// set with the author.
	Append(ctx context.Context, msg *domain.Message) error

	// ReadAll returns the full log of a room in append order, receipt sets
	// assembled. A room with no history yields an empty slice.
	ReadAll(ctx context.Context, roomID string) ([]domain.Message, error)

	// MarkSeen adds user to the receipt set of each listed event and
	// returns the ids actually newly marked. Already-seen events are
	// skipped, so the operation is idempotent.
	MarkSeen(ctx context.Context, roomID string, eventIDs []string, user string) ([]string, error)
}
