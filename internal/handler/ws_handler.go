package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Uzbeksil125/chatcore/internal/auth"
	"github.com/Uzbeksil125/chatcore/internal/config"
	"github.com/Uzbeksil125/chatcore/internal/domain"
	"github.com/Uzbeksil125/chatcore/internal/hub"
	"github.com/Uzbeksil125/chatcore/internal/service"
	"github.com/Uzbeksil125/chatcore/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub      *hub.Hub
	service  service.ChatService
	verifier auth.Verifier
	wsCfg    config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, svc service.ChatService, verifier auth.Verifier, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:      h,
		service:  svc,
		verifier: verifier,
		wsCfg:    wsCfg,
	}
}

// bearerToken extracts the identity token from the Authorization header or
// the token query parameter.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, found := strings.CutPrefix(h, "Bearer "); found {
			return tok
		}
	}
	return r.URL.Query().Get("token")
}

// HandleWebSocket authenticates the connection, registers it, and starts
// its pumps. A connection without a valid identity is rejected before any
// event is processed.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	l := log.L()

	user, err := h.verifier.Verify(bearerToken(r))
	if err != nil {
		l.Debug().Str(log.FieldRemote, r.RemoteAddr).Err(err).Msg("connection rejected")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.NewString(), h.hub, conn, h.wsCfg)
	h.hub.Register(client)

	if err := h.service.HandleConnect(r.Context(), client, user); err != nil {
		l.Warn().Str(log.FieldClientID, client.ID).Err(err).Msg("connect failed")
		h.hub.Unregister(client)
		conn.Close()
		return
	}

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleEvent)
		h.service.HandleDisconnect(context.Background(), client)
	}()
}

// handleEvent dispatches one inbound frame. Malformed, unauthorized, and
// invalid events are dropped without a reply; the drop reason is logged.
func (h *WSHandler) handleEvent(client *hub.Client, message []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(message, &base); err != nil {
		h.drop(client, "?", err)
		return
	}

	ctx := context.Background()
	var err error

	switch base.Type {
	case domain.EventJoin:
		var ev domain.JoinEvent
		if err = json.Unmarshal(message, &ev); err == nil {
			err = h.service.HandleJoin(ctx, client, ev.Room)
		}

	case domain.EventMessage:
		var ev domain.MessageEvent
		if err = json.Unmarshal(message, &ev); err == nil {
			err = h.service.HandleText(ctx, client, ev.Room, ev.Msg, ev.ReplyTo)
		}

	case domain.EventImage:
		var ev domain.ImageEvent
		if err = json.Unmarshal(message, &ev); err == nil {
			err = h.service.HandleImage(ctx, client, ev.Room, ev.Image)
		}

	case domain.EventFile:
		var ev domain.FileEvent
		if err = json.Unmarshal(message, &ev); err == nil {
			err = h.service.HandleFile(ctx, client, ev.Room, ev.Data, ev.Name, ev.Mime)
		}

	case domain.EventRead:
		var ev domain.ReadEvent
		if err = json.Unmarshal(message, &ev); err == nil {
			err = h.service.HandleRead(ctx, client, ev.Room)
		}

	case domain.EventChatRequest:
		var ev domain.ChatRequestEvent
		if err = json.Unmarshal(message, &ev); err == nil {
			err = h.service.HandleChatRequest(ctx, client, ev.To)
		}

	case domain.EventAcceptChat:
		var ev domain.AcceptChatEvent
		if err = json.Unmarshal(message, &ev); err == nil {
			err = h.service.HandleAcceptChat(ctx, client, ev.From)
		}

	case domain.EventGetNotifications:
		err = h.service.HandleGetNotifications(ctx, client)

	case domain.EventGetChats:
		err = h.service.HandleGetChats(ctx, client)

	default:
		h.drop(client, base.Type, nil)
		return
	}

	if err != nil {
		h.drop(client, base.Type, err)
	}
}

func (h *WSHandler) drop(client *hub.Client, event string, err error) {
	l := log.L()
	l.Debug().Str(log.FieldClientID, client.ID).Str(log.FieldEvent, event).Err(err).Msg("event dropped")
}

func (h *WSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleWebSocket)
}
