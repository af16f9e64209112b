package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"tradehub/internal/domain"
	"tradehub/internal/service"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single WebSocket connection. The identity was
// resolved at handshake and stays fixed for the connection's lifetime.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	identity domain.Identity

	// rooms tracks which rooms this client receives broadcasts for.
	rooms map[domain.Room]struct{}
	mu    sync.RWMutex

	send chan []byte
	done chan struct{}
}

// NewClient subscribes the connection to every room; clients narrow the
// set with unsubscribeRoom if they want to.
func NewClient(hub *Hub, conn *websocket.Conn, identity domain.Identity) *Client {
	c := &Client{
		hub:      hub,
		conn:     conn,
		identity: identity,
		rooms:    make(map[domain.Room]struct{}, len(domain.Rooms)),
		send:     make(chan []byte, sendBufSize),
		done:     make(chan struct{}),
	}
	for _, room := range domain.Rooms {
		c.rooms[room] = struct{}{}
	}
	return c
}

// InRoom checks if this client is subscribed to a room.
func (c *Client) InRoom(room domain.Room) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.rooms[room]
	return ok
}

// Subscribe adds a room subscription.
func (c *Client) Subscribe(room domain.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[room] = struct{}{}
}

// Unsubscribe removes a room subscription.
func (c *Client) Unsubscribe(room domain.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, room)
}

// ReadPump reads intents from the WebSocket and handles each to
// completion before reading the next.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.hub.log.Debug("client disconnected", "user", c.identity.Username)
			} else {
				c.hub.log.Debug("read error", "user", c.identity.Username, "err", err)
			}
			return
		}

		c.handleEvent(context.Background(), &event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.hub.log.Debug("write error", "user", c.identity.Username, "err", err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				c.hub.log.Debug("ping error", "user", c.identity.Username, "err", err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming intent. Failures of any kind are
// dropped without a reply: the event interface has no per-intent error
// channel, and a failed mutation must not leak anything to anyone.
func (c *Client) handleEvent(ctx context.Context, event *Event) {
	switch event.Type {
	case EventTypeSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.logMalformed(event.Type, err)
			return
		}
		if _, err := c.hub.messages.Send(ctx, c.identity, p); err != nil {
			c.logDropped(event.Type, err)
		}

	case EventTypeEditMessage:
		var p EditMessagePayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.logMalformed(event.Type, err)
			return
		}
		if _, err := c.hub.messages.Edit(ctx, c.identity, p.ID, p.Text); err != nil {
			c.logDropped(event.Type, err)
		}

	case EventTypeDeleteMessage:
		var p DeleteMessagePayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.logMalformed(event.Type, err)
			return
		}
		if err := c.hub.messages.Delete(ctx, c.identity, p.ID); err != nil {
			c.logDropped(event.Type, err)
		}

	case EventTypeSubscribeRoom:
		var p RoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.logMalformed(event.Type, err)
			return
		}
		c.Subscribe(domain.NormalizeRoom(p.Room))

	case EventTypeUnsubscribeRoom:
		var p RoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.logMalformed(event.Type, err)
			return
		}
		c.Unsubscribe(domain.NormalizeRoom(p.Room))

	default:
		c.hub.log.Debug("unknown event type", "user", c.identity.Username, "type", event.Type)
	}
}

func (c *Client) logMalformed(intent string, err error) {
	c.hub.log.Debug("malformed intent dropped", "intent", intent, "user", c.identity.Username, "err", err)
}

func (c *Client) logDropped(intent string, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrNotAuthorized):
		c.hub.log.Debug("intent dropped", "intent", intent, "user", c.identity.Username, "reason", err)
	default:
		c.hub.log.Error("intent failed", "intent", intent, "user", c.identity.Username, "err", err)
	}
}
