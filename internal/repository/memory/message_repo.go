// Package memory holds map-backed repository implementations. They back
// the test suites and are handy for running the server without a
// database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"tradehub/internal/domain"
)

type MessageRepo struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]domain.Message
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{messages: make(map[uuid.UUID]domain.Message)}
}

func (r *MessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ID] = *msg
	return nil
}

func (r *MessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	return &msg, nil
}

func (r *MessageRepo) ListByRoom(_ context.Context, room domain.Room, limit int) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var messages []domain.Message
	for _, msg := range r.messages {
		if msg.Room == room {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

func (r *MessageRepo) Update(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[msg.ID]; ok {
		r.messages[msg.ID] = *msg
	}
	return nil
}

func (r *MessageRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, id)
	return nil
}

// Len reports the number of stored messages.
func (r *MessageRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}
