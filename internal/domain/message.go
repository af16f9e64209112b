package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Room is a fixed partition key on messages, not an entity of its own.
type Room string

const (
	RoomGeneral Room = "general"
	RoomFeeds   Room = "feeds"
)

var Rooms = []Room{RoomGeneral, RoomFeeds}

// NormalizeRoom maps arbitrary client input onto the closed room enum.
// Anything unrecognized lands in general.
func NormalizeRoom(raw string) Room {
	if lo.Contains(Rooms, Room(raw)) {
		return Room(raw)
	}
	return RoomGeneral
}

type MediaCategory string

const (
	MediaImage MediaCategory = "image"
	MediaVideo MediaCategory = "video"
)

// MediaAttachment only ever holds values that passed media.Validate.
// Payload is an inline data URL whose prefix matches MimeType.
type MediaAttachment struct {
	Category  MediaCategory `json:"category"`
	MimeType  string        `json:"mimeType"`
	Payload   string        `json:"payload"`
	FileName  string        `json:"fileName,omitempty"`
	SizeBytes int64         `json:"sizeBytes"`
}

// Message must carry non-empty trimmed Text or a validated Media
// attachment. Author fields are denormalized from the identity that
// created it and never come from client payloads.
type Message struct {
	ID             uuid.UUID        `json:"id"`
	Room           Room             `json:"room"`
	Text           string           `json:"text"`
	Media          *MediaAttachment `json:"media,omitempty"`
	AuthorUsername string           `json:"username"`
	AuthorRole     Role             `json:"role"`
	AuthorID       uuid.UUID        `json:"userId"`
	IsEdited       bool             `json:"isEdited"`
	CreatedAt      time.Time        `json:"createdAt"`
}
