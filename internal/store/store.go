package store

import (
	"context"
	"errors"

	"llmchat-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found, including the
// case where it exists but belongs to a different user. Callers cannot tell
// the two apart, which is what keeps ownership from leaking.
var ErrNotFound = errors.New("record not found")

// CreateChatParams contains parameters for creating a chat.
// Messages carries the JSON-marshaled message array written to the JSONB column.
type CreateChatParams struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Title    string
	Messages []byte
}

// AppendMessagesParams contains parameters for appending messages to a chat.
// Title is optional; when nil the stored title is left untouched.
type AppendMessagesParams struct {
	ChatID   uuid.UUID
	UserID   uuid.UUID
	Messages []models.Message
	Title    *string
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	// Chat operations. Every operation is scoped to the owning user; a chat
	// owned by someone else behaves exactly like a missing one.
	ListChatsByUser(ctx context.Context, userID uuid.UUID) ([]models.Chat, error)
	CreateChat(ctx context.Context, arg CreateChatParams) (*models.Chat, error)
	GetChatByID(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error)
	AppendMessages(ctx context.Context, arg AppendMessagesParams) (*models.Chat, error)
	DeleteChat(ctx context.Context, chatID, userID uuid.UUID) error
}
