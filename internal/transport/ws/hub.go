package ws

import (
	"encoding/json"
	"log/slog"

	"tradehub/internal/domain"
	"tradehub/internal/service"
)

// Hub manages all active WebSocket clients and fans lifecycle events
// out to the subscribers of the event's room. A single goroutine owns
// the registry, so delivery order matches the order events were
// committed.
type Hub struct {
	messages *service.MessageService
	log      *slog.Logger

	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
}

type broadcastMsg struct {
	room domain.Room
	data []byte
}

func NewHub(messages *service.MessageService, log *slog.Logger) *Hub {
	return &Hub{
		messages:   messages,
		log:        log,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.log.Info("client connected", "user", client.identity.Username, "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				close(client.done)
				h.log.Info("client disconnected", "user", client.identity.Username, "total", len(h.clients))
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if !client.InRoom(msg.room) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, client)
					close(client.send)
					close(client.done)
				}
			}
		}
	}
}

// BroadcastToRoom sends an event to every client subscribed to room.
func (h *Hub) BroadcastToRoom(room domain.Room, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal broadcast", "err", err)
		return
	}
	h.broadcast <- &broadcastMsg{room: room, data: data}
}
