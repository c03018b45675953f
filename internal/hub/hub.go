// Package hub fans events out to live websocket connections. Rooms group
// connections by the channel they joined; user groups hold every connection
// belonging to one user so notifications reach all of their devices.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/Uzbeksil125/chatcore/internal/config"
	"github.com/Uzbeksil125/chatcore/pkg/log"
)

type Hub struct {
	clients    map[string]*Client            // clientID -> client
	rooms      map[string]map[string]*Client // roomID -> clientID -> client
	users      map[string]map[string]*Client // username -> clientID -> client
	register   chan *Client
	unregister chan *Client
	outbound   chan *delivery
	mu         sync.RWMutex
	config     config.WebSocketConfig
}

// delivery is one fan-out unit: exactly one of Room or User is set.
type delivery struct {
	Room    string
	User    string
	Message []byte
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		users:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan *delivery, 256),
		config:     cfg,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldClientID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for room, members := range h.rooms {
					delete(members, client.ID)
					if len(members) == 0 {
						delete(h.rooms, room)
					}
				}
				for user, conns := range h.users {
					delete(conns, client.ID)
					if len(conns) == 0 {
						delete(h.users, user)
					}
				}
				delete(h.clients, client.ID)
				client.Close()
			}
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldClientID, client.ID).Msg("client unregistered")

		case d := <-h.outbound:
			h.mu.RLock()
			var targets map[string]*Client
			if d.Room != "" {
				targets = h.rooms[d.Room]
			} else {
				targets = h.users[d.User]
			}
			for _, client := range targets {
				if client.Closed() {
					continue
				}
				select {
				case client.Send <- d.Message:
				default:
					go h.removeClient(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe adds a connection to a room's broadcast group.
func (h *Hub) Subscribe(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][client.ID] = client
	l := log.L()
	l.Debug().Str(log.FieldClientID, client.ID).Str(log.FieldRoom, room).Msg("client subscribed")
}

// Unsubscribe removes a connection from a room's broadcast group.
func (h *Hub) Unsubscribe(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// JoinUser adds a connection to its user's unicast group.
func (h *Hub) JoinUser(client *Client, user string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[user]; !ok {
		h.users[user] = make(map[string]*Client)
	}
	h.users[user][client.ID] = client
}

// Broadcast delivers an event to every connection subscribed to room.
// Delivery is best-effort: connections with a full send buffer are dropped.
func (h *Hub) Broadcast(room string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.BroadcastRaw(room, data)
	return nil
}

// BroadcastRaw delivers pre-encoded bytes to every connection in room.
func (h *Hub) BroadcastRaw(room string, data []byte) {
	h.outbound <- &delivery{Room: room, Message: data}
}

// Unicast delivers an event to every live connection of one user.
func (h *Hub) Unicast(user string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.UnicastRaw(user, data)
	return nil
}

// UnicastRaw delivers pre-encoded bytes to every live connection of user.
func (h *Hub) UnicastRaw(user string, data []byte) {
	h.outbound <- &delivery{User: user, Message: data}
}

// RoomClientCount returns the number of connections subscribed to room.
func (h *Hub) RoomClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}
