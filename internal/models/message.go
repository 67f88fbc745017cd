package models

import (
	"time"
)

// Role identifies the author of a persisted message. Only user and assistant
// turns are stored; the system instruction lives in the LLM gateway and never
// enters a transcript.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
// This structure is what's stored in the JSONB messages field in the 'chats' table.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}
