package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"tradehub/internal/domain"
	"tradehub/internal/service"
)

// Event types - Client → Server
const (
	EventTypeSendMessage     = "sendMessage"
	EventTypeEditMessage     = "editMessage"
	EventTypeDeleteMessage   = "deleteMessage"
	EventTypeSubscribeRoom   = "subscribeRoom"
	EventTypeUnsubscribeRoom = "unsubscribeRoom"
)

// Event types - Server → Client
const (
	EventTypeNewMessage     = "newMessage"
	EventTypeMessageEdited  = "messageEdited"
	EventTypeMessageDeleted = "messageDeleted"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type SendMessagePayload = service.SendMessageInput

type EditMessagePayload struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

type DeleteMessagePayload struct {
	ID uuid.UUID `json:"id"`
}

type RoomPayload struct {
	Room string `json:"room"`
}

// --- Server → Client payloads ---

type MessageEditedPayload struct {
	ID       uuid.UUID   `json:"id"`
	Text     string      `json:"text"`
	Room     domain.Room `json:"room"`
	IsEdited bool        `json:"isEdited"`
}

type MessageDeletedPayload struct {
	ID   uuid.UUID   `json:"id"`
	Room domain.Room `json:"room"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
