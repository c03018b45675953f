// Package presence tracks which user each live connection is authenticated
// as and which room it is currently viewing. Entries exist only for the
// lifetime of their connection; nothing here is persisted.
package presence

import (
	"fmt"
	"sync"

	"github.com/Uzbeksil125/chatcore/internal/domain"
)

// Entry is the presence record for one connection.
type Entry struct {
	User string
	Room string
}

// Table is the process-wide connection -> presence mapping.
type Table struct {
	mu      sync.RWMutex
	entries map[string]Entry // clientID -> entry
}

func NewTable() *Table {
	return &Table{
		entries: make(map[string]Entry),
	}
}

// Register binds a connection to its authenticated user, starting in the
// global room. Registering an already-registered connection is an error.
func (t *Table) Register(clientID, user string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[clientID]; ok {
		return fmt.Errorf("connection %s already registered", clientID)
	}
	t.entries[clientID] = Entry{User: user, Room: domain.GlobalRoom}
	return nil
}

// SetRoom records the room a connection is currently viewing.
func (t *Table) SetRoom(clientID, room string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[clientID]
	if !ok {
		return
	}
	e.Room = room
	t.entries[clientID] = e
}

// User returns the authenticated user for a connection.
func (t *Table) User(clientID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[clientID]
	return e.User, ok
}

// Room returns the room a connection is currently viewing.
func (t *Table) Room(clientID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[clientID]
	return e.Room, ok
}

// Unregister drops a connection's entry on disconnect.
func (t *Table) Unregister(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.entries, clientID)
}

// Len returns the number of live registered connections.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}
