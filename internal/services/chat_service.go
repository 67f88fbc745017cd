package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"llmchat-backend/internal/models"
	"llmchat-backend/internal/store"

	"github.com/google/uuid"
)

// Custom errors for the chat service.
var (
	// ErrEmptyMessage rejects a send with no message text, before any I/O.
	ErrEmptyMessage = errors.New("message is required")
	// ErrGenerationFailed wraps any gateway failure during reply generation.
	// When it surfaces, nothing was persisted and the caller can retry.
	ErrGenerationFailed = errors.New("failed to generate assistant response")
)

// ChatTarget addresses either an existing chat or one that does not exist yet.
// The wire format still uses the literal path segment "new"; ParseChatTarget
// confines that to the transport boundary.
type ChatTarget struct {
	id    uuid.UUID
	isNew bool
}

// NewChatTarget addresses a chat to be created by this request.
func NewChatTarget() ChatTarget { return ChatTarget{isNew: true} }

// ExistingChatTarget addresses a chat already in the store.
func ExistingChatTarget(id uuid.UUID) ChatTarget { return ChatTarget{id: id} }

// ParseChatTarget interprets a chat id path segment.
func ParseChatTarget(s string) (ChatTarget, error) {
	if s == "new" {
		return NewChatTarget(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return ChatTarget{}, fmt.Errorf("invalid chat id %q: %w", s, err)
	}
	return ExistingChatTarget(id), nil
}

// IsNew reports whether the target addresses a not-yet-created chat.
func (t ChatTarget) IsNew() bool { return t.isNew }

// ID returns the addressed chat id; uuid.Nil for a new-chat target.
func (t ChatTarget) ID() uuid.UUID { return t.id }

// ChatService orchestrates conversations: it sequences store access, title
// synthesis and reply generation for each inbound message.
type ChatService struct {
	store     store.Store
	generator Generator
}

// NewChatService creates a new ChatService. The generator is injected rather
// than shared as a package-level instance; it carries no per-call state.
func NewChatService(s store.Store, gen Generator) *ChatService {
	return &ChatService{
		store:     s,
		generator: gen,
	}
}

// mapChatToResponse converts a DB chat model to an API response DTO,
// decoding the stored message array.
func mapChatToResponse(chat *models.Chat) (*models.ChatResponse, error) {
	var messages []models.Message
	if len(chat.Messages) > 0 {
		if err := json.Unmarshal(chat.Messages, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse chat messages: %w", err)
		}
	}
	if messages == nil {
		messages = []models.Message{}
	}

	return &models.ChatResponse{
		ID:        chat.ID,
		UserID:    chat.UserID,
		Title:     chat.Title,
		Messages:  messages,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}, nil
}

// HandleMessage processes one inbound user message end to end: resolve the
// target chat, append the user turn, synthesize a title when the chat still
// carries the placeholder, generate the assistant reply, then persist both new
// turns atomically. On any reply-generation failure nothing is written, so a
// failed send leaves an existing chat untouched and creates no new one.
func (s *ChatService) HandleMessage(ctx context.Context, userID uuid.UUID, target ChatTarget, message string) (*models.ChatResponse, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}

	// Resolve the target transcript. A new chat stays in memory until the
	// assistant reply has been obtained.
	var history []models.Message
	title := models.DefaultChatTitle
	if !target.IsNew() {
		chat, err := s.store.GetChatByID(ctx, target.ID(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to get chat from store: %w", err)
		}
		if len(chat.Messages) > 0 {
			if err := json.Unmarshal(chat.Messages, &history); err != nil {
				return nil, fmt.Errorf("failed to parse chat messages: %w", err)
			}
		}
		title = chat.Title
	}

	userMsg := models.NewMessage(models.RoleUser, message)
	history = append(history, userMsg)

	// First message, or the title was never synthesized (e.g. the chat was
	// created empty via CreateChat).
	var titleOverride *string
	if len(history) == 1 || title == models.DefaultChatTitle {
		title = GenerateChatTitle(ctx, s.generator, message)
		titleOverride = &title
	}

	reply, err := s.generator.GenerateResponse(ctx, message)
	if err != nil {
		log.Printf("Reply generation failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	assistantMsg := models.NewMessage(models.RoleAssistant, reply)

	if target.IsNew() {
		data, err := json.Marshal(append(history, assistantMsg))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal messages: %w", err)
		}
		created, err := s.store.CreateChat(ctx, store.CreateChatParams{
			ID:       uuid.New(),
			UserID:   userID,
			Title:    title,
			Messages: data,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create chat in store: %w", err)
		}
		return mapChatToResponse(created)
	}

	updated, err := s.store.AppendMessages(ctx, store.AppendMessagesParams{
		ChatID:   target.ID(),
		UserID:   userID,
		Messages: []models.Message{userMsg, assistantMsg},
		Title:    titleOverride,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to append messages in store: %w", err)
	}
	return mapChatToResponse(updated)
}

// ListChats returns all chats owned by the user, newest-created first.
func (s *ChatService) ListChats(ctx context.Context, userID uuid.UUID) (*models.ListChatsResponse, error) {
	chats, err := s.store.ListChatsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats from store: %w", err)
	}

	responses := make([]models.ChatResponse, 0, len(chats))
	for i := range chats {
		resp, err := mapChatToResponse(&chats[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map chat %s: %w", chats[i].ID, err)
		}
		responses = append(responses, *resp)
	}
	return &models.ListChatsResponse{Chats: responses}, nil
}

// GetChat retrieves a single chat scoped to its owner.
func (s *ChatService) GetChat(ctx context.Context, userID, chatID uuid.UUID) (*models.ChatResponse, error) {
	chat, err := s.store.GetChatByID(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get chat from store: %w", err)
	}
	return mapChatToResponse(chat)
}

// CreateChat creates an empty chat carrying the placeholder title. The title
// is synthesized later, when the first message arrives.
func (s *ChatService) CreateChat(ctx context.Context, userID uuid.UUID) (*models.ChatResponse, error) {
	created, err := s.store.CreateChat(ctx, store.CreateChatParams{
		ID:     uuid.New(),
		UserID: userID,
		Title:  models.DefaultChatTitle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat in store: %w", err)
	}
	return mapChatToResponse(created)
}

// DeleteChat removes a chat owned by the user.
func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error {
	if err := s.store.DeleteChat(ctx, chatID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete chat from store: %w", err)
	}
	return nil
}
