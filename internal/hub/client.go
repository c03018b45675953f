package hub

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Uzbeksil125/chatcore/internal/config"
	"github.com/Uzbeksil125/chatcore/pkg/log"
)

var (
	// ErrClientGone is returned when an event is queued for a connection
	// that has already been shut down.
	ErrClientGone = errors.New("client connection closed")

	// ErrSendTimeout is returned when a connection's send buffer stays
	// full past the write deadline.
	ErrSendTimeout = errors.New("client send buffer full")
)

type Client struct {
	ID     string
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	done   chan struct{}
	closer sync.Once
	config config.WebSocketConfig
}

func NewClient(id string, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:     id,
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		done:   make(chan struct{}),
		config: cfg,
	}
}

// Close shuts down the connection's outbound side. Send stays open so a
// handler still running for this connection never panics on a late send;
// the write pump observes done and exits.
func (c *Client) Close() {
	c.closer.Do(func() {
		close(c.done)
	})
}

// Closed reports whether the connection has been shut down.
func (c *Client) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := log.L()
				l.Debug().Str(log.FieldClientID, c.ID).Err(err).Msg("websocket read error")
			}
			break
		}

		handler(c, message)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues an event for this connection only. A shut-down
// connection or a full send buffer drops the event rather than blocking
// the caller.
func (c *Client) SendEvent(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if c.Closed() {
		return nil
	}
	select {
	case c.Send <- data:
	default:
	}
	return nil
}

// SendEventWait queues an event for this connection, waiting up to the
// write deadline for buffer space. Used where dropping is not acceptable,
// like history replay.
func (c *Client) SendEventWait(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	timer := time.NewTimer(c.config.WriteWait)
	defer timer.Stop()

	select {
	case c.Send <- data:
		return nil
	case <-c.done:
		return ErrClientGone
	case <-timer.C:
		return ErrSendTimeout
	}
}
