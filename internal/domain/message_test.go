package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoom(t *testing.T) {
	tests := []struct {
		raw  string
		want Room
	}{
		{"general", RoomGeneral},
		{"feeds", RoomFeeds},
		{"unknown-value", RoomGeneral},
		{"", RoomGeneral},
		{"GENERAL", RoomGeneral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRoom(tt.raw), "NormalizeRoom(%q)", tt.raw)
	}
}

func TestCanMutate(t *testing.T) {
	authorID := uuid.New()
	msg := &Message{ID: uuid.New(), AuthorID: authorID}

	author := Identity{ID: authorID, Role: RoleUser}
	stranger := Identity{ID: uuid.New(), Role: RoleUser}
	admin := Identity{ID: uuid.New(), Role: RoleAdmin}

	assert.True(t, author.CanMutate(msg))
	assert.False(t, stranger.CanMutate(msg))
	assert.True(t, admin.CanMutate(msg))
}
