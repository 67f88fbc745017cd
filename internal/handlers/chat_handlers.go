package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"llmchat-backend/internal/auth"
	"llmchat-backend/internal/models"
	"llmchat-backend/internal/services"
	"llmchat-backend/internal/store"
	"llmchat-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ChatHandlers handles HTTP requests related to chats.
type ChatHandlers struct {
	chatService *services.ChatService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService *services.ChatService) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatService,
	}
}

// HandleListChats handles GET /v1/chats.
func (h *ChatHandlers) HandleListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resp, err := h.chatService.ListChats(r.Context(), userID)
	if err != nil {
		log.Printf("ListChats handler failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch chats")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleCreateChat handles POST /v1/chats/new, creating an empty chat.
func (h *ChatHandlers) HandleCreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chat, err := h.chatService.CreateChat(r.Context(), userID)
	if err != nil {
		log.Printf("CreateChat handler failed for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create chat")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, chat)
}

// HandleGetChat handles GET /v1/chats/{chatID}.
func (h *ChatHandlers) HandleGetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chatID, err := uuid.Parse(chi.URLParam(r, "chatID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	chat, err := h.chatService.GetChat(r.Context(), userID, chatID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Chat not found")
			return
		}
		log.Printf("GetChat handler failed for chat %s: %v", chatID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch chat")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chat)
}

// HandleSendMessage handles POST /v1/chats/{chatID}/messages. The chatID path
// segment is either an existing chat id or the literal "new".
func (h *ChatHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	target, err := services.ParseChatTarget(chi.URLParam(r, "chatID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	chat, err := h.chatService.HandleMessage(r.Context(), userID, target, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			httputil.RespondError(w, http.StatusBadRequest, "Message is required")
		case errors.Is(err, store.ErrNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Chat not found")
		case errors.Is(err, services.ErrGenerationFailed):
			log.Printf("SendMessage handler: generation failed for user %s: %v", userID, err)
			httputil.RespondErrorDetails(w, http.StatusBadGateway, "Failed to process message", err.Error())
		default:
			log.Printf("SendMessage handler failed for user %s: %v", userID, err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to process message")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chat)
}

// HandleDeleteChat handles DELETE /v1/chats/{chatID}.
func (h *ChatHandlers) HandleDeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chatID, err := uuid.Parse(chi.URLParam(r, "chatID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), userID, chatID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Chat not found")
			return
		}
		log.Printf("DeleteChat handler failed for chat %s: %v", chatID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "Chat deleted successfully"})
}
