package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"llmchat-backend/internal/models"
	"llmchat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// --- User Methods ---

const getUserByEmail = `
	SELECT id, username, email, hashed_password, created_at, updated_at
	FROM users
	WHERE email = $1;
`

// GetUserByEmail retrieves a user by their email address.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, getUserByEmail, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetUserByEmail: query failed for %s: %v", email, err)
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}
	return user, nil
}

const getUserByUsername = `
	SELECT id, username, email, hashed_password, created_at, updated_at
	FROM users
	WHERE username = $1;
`

// GetUserByUsername retrieves a user by their username.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, getUserByUsername, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetUserByUsername: query failed for %s: %v", username, err)
		return nil, fmt.Errorf("database error fetching user by username: %w", err)
	}
	return user, nil
}

const createUser = `
	INSERT INTO users (id, username, email, hashed_password)
	VALUES ($1, $2, $3, $4);
`

// CreateUser inserts a new user record. created_at and updated_at come from
// database defaults.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.Exec(ctx, createUser,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			log.Printf("ERROR [PostgresStore] CreateUser: insert failed for %s: Code=%s, Message=%s", user.Email, pgErr.Code, pgErr.Message)
		} else {
			log.Printf("ERROR [PostgresStore] CreateUser: insert failed for %s: %v", user.Email, err)
		}
		return fmt.Errorf("database error creating user: %w", err)
	}
	log.Printf("[PostgresStore] CreateUser: inserted user %s (%s)", user.ID, user.Email)
	return nil
}

// --- Chat Methods ---

const listChatsByUser = `
	SELECT id, user_id, title, messages, created_at, updated_at
	FROM chats
	WHERE user_id = $1
	ORDER BY created_at DESC;
`

// ListChatsByUser returns all chats owned by the user, newest-created first.
func (s *PostgresStore) ListChatsByUser(ctx context.Context, userID uuid.UUID) ([]models.Chat, error) {
	rows, err := s.db.Query(ctx, listChatsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(
			&chat.ID,
			&chat.UserID,
			&chat.Title,
			&chat.Messages,
			&chat.CreatedAt,
			&chat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning chat row: %w", err)
		}
		chats = append(chats, chat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}
	return chats, nil
}

const createChat = `
	INSERT INTO chats (id, user_id, title, messages)
	VALUES ($1, $2, $3, $4)
	RETURNING id, user_id, title, messages, created_at, updated_at;
`

// CreateChat inserts a chat with its initial message array in one statement.
func (s *PostgresStore) CreateChat(ctx context.Context, arg store.CreateChatParams) (*models.Chat, error) {
	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	messages := arg.Messages
	if messages == nil {
		messages = []byte("[]")
	}
	title := arg.Title
	if title == "" {
		title = models.DefaultChatTitle
	}

	row := s.db.QueryRow(ctx, createChat, id, arg.UserID, title, messages)

	var chat models.Chat
	err := row.Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.Messages,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning created chat: %w", err)
	}
	log.Printf("[PostgresStore] CreateChat: inserted chat %s for user %s", chat.ID, chat.UserID)
	return &chat, nil
}

const getChatByID = `
	SELECT id, user_id, title, messages, created_at, updated_at
	FROM chats
	WHERE id = $1 AND user_id = $2;
`

// GetChatByID retrieves a chat scoped to its owner.
// Returns store.ErrNotFound when absent or owned by a different user.
func (s *PostgresStore) GetChatByID(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	row := s.db.QueryRow(ctx, getChatByID, chatID, userID)

	var chat models.Chat
	err := row.Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.Messages,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning chat: %w", err)
	}
	return &chat, nil
}

const appendMessages = `
	UPDATE chats
	SET messages = messages || $1::jsonb,
	    title = COALESCE($2, title),
	    updated_at = NOW()
	WHERE id = $3 AND user_id = $4
	RETURNING id, user_id, title, messages, created_at, updated_at;
`

// AppendMessages appends messages to the chat's JSONB array and optionally
// updates the title, all in a single UPDATE. Concurrent appends to the same
// chat interleave at the database rather than overwriting each other.
func (s *PostgresStore) AppendMessages(ctx context.Context, arg store.AppendMessagesParams) (*models.Chat, error) {
	data, err := json.Marshal(arg.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal messages: %w", err)
	}

	row := s.db.QueryRow(ctx, appendMessages, data, arg.Title, arg.ChatID, arg.UserID)

	var chat models.Chat
	err = row.Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.Messages,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning updated chat: %w", err)
	}
	return &chat, nil
}

const deleteChat = `
	DELETE FROM chats
	WHERE id = $1 AND user_id = $2;
`

// DeleteChat removes a chat and its embedded messages.
// Returns store.ErrNotFound when nothing matched the id/owner pair.
func (s *PostgresStore) DeleteChat(ctx context.Context, chatID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, deleteChat, chatID, userID)
	if err != nil {
		return fmt.Errorf("error executing delete chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	log.Printf("[PostgresStore] DeleteChat: deleted chat %s for user %s", chatID, userID)
	return nil
}
