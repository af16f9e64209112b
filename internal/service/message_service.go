package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tradehub/internal/domain"
	"tradehub/internal/media"
	"tradehub/internal/repository"
)

var (
	ErrEmptyMessage    = errors.New("message has no text and no attachment")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotAuthorized   = errors.New("identity may not modify this message")
)

const historyLimit = 200

// Notifier broadcasts lifecycle outcomes to connected clients. Only
// successful transitions reach it; failures stay inside the service.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyEditedMessage(msg *domain.Message)
	NotifyDeletedMessage(room domain.Room, messageID uuid.UUID)
}

// MessageService owns the message lifecycle: it validates, authorizes,
// persists and emits the outbound event for every mutation. It holds no
// message state of its own; every edit and delete re-reads the record
// from the store first.
type MessageService struct {
	messages repository.MessageRepository
	notifier Notifier
	log      *slog.Logger
}

func NewMessageService(messages repository.MessageRepository, log *slog.Logger) *MessageService {
	return &MessageService{messages: messages, log: log}
}

// SetNotifier wires the real-time notifier (optional dependency).
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

type SendMessageInput struct {
	Text  string               `json:"text"`
	Room  string               `json:"room"`
	Media *media.RawAttachment `json:"media"`
}

// Send persists a new message authored by identity. Author fields come
// from the identity bound at handshake, never from the payload. An
// invalid attachment is dropped; if nothing valid remains the whole
// intent is dropped with ErrEmptyMessage.
func (s *MessageService) Send(ctx context.Context, identity domain.Identity, input SendMessageInput) (*domain.Message, error) {
	room := domain.NormalizeRoom(input.Room)
	text := strings.TrimSpace(input.Text)

	attachment := media.Validate(input.Media)
	if input.Media != nil && attachment == nil {
		s.log.Debug("attachment dropped", "user", identity.Username, "room", room)
	}

	if text == "" && attachment == nil {
		return nil, ErrEmptyMessage
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		Room:           room,
		Text:           text,
		Media:          attachment,
		AuthorUsername: identity.Username,
		AuthorRole:     identity.Role,
		AuthorID:       identity.ID,
		CreatedAt:      time.Now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(msg)
	}
	return msg, nil
}

// Edit replaces the text of an existing message. The record is re-read
// before mutating; a message deleted in the meantime is a not-found.
// IsEdited latches to true on the first successful edit.
func (s *MessageService) Edit(ctx context.Context, identity domain.Identity, messageID uuid.UUID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if messageID == uuid.Nil || text == "" {
		return nil, ErrEmptyMessage
	}

	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("loading message: %w", err)
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if !identity.CanMutate(msg) {
		return nil, ErrNotAuthorized
	}

	msg.Text = text
	msg.IsEdited = true
	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("updating message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyEditedMessage(msg)
	}
	return msg, nil
}

// Delete removes a message for good.
func (s *MessageService) Delete(ctx context.Context, identity domain.Identity, messageID uuid.UUID) error {
	if messageID == uuid.Nil {
		return ErrMessageNotFound
	}

	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("loading message: %w", err)
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if !identity.CanMutate(msg) {
		return ErrNotAuthorized
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyDeletedMessage(msg.Room, msg.ID)
	}
	return nil
}

// History returns a room's messages ascending by creation time, capped
// at 200 records.
func (s *MessageService) History(ctx context.Context, room string) ([]domain.Message, error) {
	messages, err := s.messages.ListByRoom(ctx, domain.NormalizeRoom(room), historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}
