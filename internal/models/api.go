package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// RegisterRequest defines the expected body for the register endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendMessageRequest defines the body for posting a message to a chat.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Never include the password hash here.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// ChatResponse defines the chat entity returned by the API, with the message
// array decoded from storage.
type ChatResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListChatsResponse wraps the chat list endpoint payload.
type ListChatsResponse struct {
	Chats []ChatResponse `json:"chats"`
}

// ErrorResponse defines the standard structure for API errors.
// Details carries the causing error text where the endpoint exposes it.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
