package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"llmchat-backend/internal/api"
	"llmchat-backend/internal/auth"
	"llmchat-backend/internal/config"
	"llmchat-backend/internal/handlers"
	"llmchat-backend/internal/models"
	"llmchat-backend/internal/services"
	"llmchat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// --- fakes wired through the real router ---

type stubGenerator struct {
	responses []string
	err       error
}

func (s *stubGenerator) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("stubGenerator: no responses queued")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

type stubStore struct {
	users map[uuid.UUID]models.User
	chats map[uuid.UUID]models.Chat
}

func newStubStore() *stubStore {
	return &stubStore{
		users: map[uuid.UUID]models.User{},
		chats: map[uuid.UUID]models.Chat{},
	}
}

func (s *stubStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubStore) CreateUser(ctx context.Context, user *models.User) error {
	s.users[user.ID] = *user
	return nil
}

func (s *stubStore) ListChatsByUser(ctx context.Context, userID uuid.UUID) ([]models.Chat, error) {
	var chats []models.Chat
	for _, c := range s.chats {
		if c.UserID == userID {
			chats = append(chats, c)
		}
	}
	return chats, nil
}

func (s *stubStore) CreateChat(ctx context.Context, arg store.CreateChatParams) (*models.Chat, error) {
	messages := arg.Messages
	if messages == nil {
		messages = []byte("[]")
	}
	now := time.Now().UTC()
	chat := models.Chat{ID: arg.ID, UserID: arg.UserID, Title: arg.Title, Messages: messages, CreatedAt: now, UpdatedAt: now}
	s.chats[chat.ID] = chat
	return &chat, nil
}

func (s *stubStore) GetChatByID(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	chat, ok := s.chats[chatID]
	if !ok || chat.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &chat, nil
}

func (s *stubStore) AppendMessages(ctx context.Context, arg store.AppendMessagesParams) (*models.Chat, error) {
	chat, ok := s.chats[arg.ChatID]
	if !ok || chat.UserID != arg.UserID {
		return nil, store.ErrNotFound
	}
	var messages []models.Message
	if err := json.Unmarshal(chat.Messages, &messages); err != nil {
		return nil, err
	}
	messages = append(messages, arg.Messages...)
	data, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	chat.Messages = data
	if arg.Title != nil {
		chat.Title = *arg.Title
	}
	chat.UpdatedAt = time.Now().UTC()
	s.chats[chat.ID] = chat
	return &chat, nil
}

func (s *stubStore) DeleteChat(ctx context.Context, chatID, userID uuid.UUID) error {
	chat, ok := s.chats[chatID]
	if !ok || chat.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.chats, chatID)
	return nil
}

// --- harness ---

type testEnv struct {
	router http.Handler
	store  *stubStore
	gen    *stubGenerator
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := newStubStore()
	gen := &stubGenerator{}
	cfg := &config.Config{JWTSecret: "test-secret", TokenExpiration: time.Hour}

	authHandler := handlers.NewAuthHandler(services.NewAuthService(st, cfg))
	chatHandler := handlers.NewChatHandlers(services.NewChatService(st, gen))

	router := api.NewRouter(api.RouterDependencies{
		AuthHandler: authHandler,
		ChatHandler: chatHandler,
		Config:      cfg,
	})
	return &testEnv{router: router, store: st, gen: gen, cfg: cfg}
}

func (e *testEnv) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.NewAccessToken(userID, e.cfg.JWTSecret, e.cfg.TokenExpiration)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestChatRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/chats", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/chats/new/messages", "", models.SendMessageRequest{Message: "hi"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendMessage_NewChat(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	env.gen.responses = []string{"Binary Search Basics", "It halves the search space."}

	rec := env.do(t, http.MethodPost, "/v1/chats/new/messages", env.token(t, userID),
		models.SendMessageRequest{Message: "Explain binary search"})
	require.Equal(t, http.StatusOK, rec.Code)

	var chat models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chat))
	require.Equal(t, "Binary Search Basics", chat.Title)
	require.Len(t, chat.Messages, 2)
	require.Equal(t, models.RoleUser, chat.Messages[0].Role)
	require.Equal(t, models.RoleAssistant, chat.Messages[1].Role)

	// And the chat is fetchable afterwards.
	rec = env.do(t, http.MethodGet, "/v1/chats/"+chat.ID.String(), env.token(t, userID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSendMessage_EmptyMessage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/chats/new/messages", env.token(t, uuid.New()),
		models.SendMessageRequest{Message: ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, env.store.chats)
}

func TestSendMessage_UnknownChat(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/chats/"+uuid.NewString()+"/messages", env.token(t, uuid.New()),
		models.SendMessageRequest{Message: "hi"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessage_GenerationFailure(t *testing.T) {
	env := newTestEnv(t)
	env.gen.err = errors.New("connection refused")

	rec := env.do(t, http.MethodPost, "/v1/chats/new/messages", env.token(t, uuid.New()),
		models.SendMessageRequest{Message: "hello there, tell me about Go generics"})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, "Failed to process message", errResp.Error)
	require.NotEmpty(t, errResp.Details)
	require.Empty(t, env.store.chats)
}

func TestCreateAndListChats(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	token := env.token(t, userID)

	rec := env.do(t, http.MethodPost, "/v1/chats/new", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var chat models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chat))
	require.Equal(t, models.DefaultChatTitle, chat.Title)
	require.Empty(t, chat.Messages)

	rec = env.do(t, http.MethodGet, "/v1/chats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.ListChatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Chats, 1)
}

func TestDeleteChat_Handler(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	token := env.token(t, userID)

	rec := env.do(t, http.MethodPost, "/v1/chats/new", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var chat models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chat))

	rec = env.do(t, http.MethodDelete, "/v1/chats/"+chat.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/v1/chats/"+chat.ID.String(), token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Another user can never delete someone else's chat.
	rec = env.do(t, http.MethodPost, "/v1/chats/new", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chat))
	rec = env.do(t, http.MethodDelete, "/v1/chats/"+chat.ID.String(), env.token(t, uuid.New()), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/auth/register", "",
		models.RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "pw123456"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var authResp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authResp))
	require.NotEmpty(t, authResp.AccessToken)

	// The issued token works against protected routes.
	rec = env.do(t, http.MethodGet, "/v1/chats", authResp.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Duplicate registration conflicts.
	rec = env.do(t, http.MethodPost, "/v1/auth/register", "",
		models.RegisterRequest{Username: "carol2", Email: "carol@example.com", Password: "pw123456"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/auth/login", "",
		models.LoginRequest{Email: "carol@example.com", Password: "pw123456"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/auth/login", "",
		models.LoginRequest{Email: "carol@example.com", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
