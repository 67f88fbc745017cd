package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultChatTitle is the placeholder title a chat carries until a real one
// has been synthesized from its first message.
const DefaultChatTitle = "New Chat"

// User represents a user in the database.
type User struct {
	ID             uuid.UUID `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Chat represents a persisted conversation owned by a single user.
// Messages holds the raw JSONB message array as stored; services unmarshal it
// into []Message when building API responses.
type Chat struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Title     string          `db:"title"`
	Messages  json.RawMessage `db:"messages"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
