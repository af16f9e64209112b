package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleSystem Role = "system"
)

// User is the durable account record.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Username      string     `json:"username"`
	PasswordHash  string     `json:"-"`
	Role          Role       `json:"role"`
	Verified      bool       `json:"verified"`
	CodeHash      string     `json:"-"`
	CodeExpiresAt *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Identity is the authenticated subject bound to a connection. It is
// captured once at handshake and never mutated for the life of the
// connection.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
	Verified bool      `json:"verified"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role, Verified: u.Verified}
}

// CanMutate reports whether the identity may edit or delete msg: the
// author may, and so may an admin. The rule is the same for both
// operations.
func (i Identity) CanMutate(msg *Message) bool {
	return i.ID == msg.AuthorID || i.Role == RoleAdmin
}
