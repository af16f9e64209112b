package ws

import (
	"github.com/google/uuid"

	"tradehub/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeNewMessage, msg)
	if err != nil {
		n.hub.log.Error("marshal newMessage", "err", err)
		return
	}
	n.hub.BroadcastToRoom(msg.Room, evt)
}

func (n *HubNotifier) NotifyEditedMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeMessageEdited, MessageEditedPayload{
		ID:       msg.ID,
		Text:     msg.Text,
		Room:     msg.Room,
		IsEdited: msg.IsEdited,
	})
	if err != nil {
		n.hub.log.Error("marshal messageEdited", "err", err)
		return
	}
	n.hub.BroadcastToRoom(msg.Room, evt)
}

func (n *HubNotifier) NotifyDeletedMessage(room domain.Room, messageID uuid.UUID) {
	evt, err := NewEvent(EventTypeMessageDeleted, MessageDeletedPayload{ID: messageID, Room: room})
	if err != nil {
		n.hub.log.Error("marshal messageDeleted", "err", err)
		return
	}
	n.hub.BroadcastToRoom(room, evt)
}
