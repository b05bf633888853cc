package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/pubsub"
	"github.com/google/uuid"
)

// New creates a Chat backed by db. New messages are announced on feed.
func New(db *sql.DB, feed pubsub.PubSubClient) Chat {
	return &store{
		db:   db,
		feed: feed,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *store) Post(ctx context.Context, gameID, userID, content string) (*game.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message is empty", game.ErrInvalid)
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, fmt.Errorf("%w: message longer than %d characters", game.ErrInvalid, MaxMessageLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, gameID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", gameID, game.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to check game: %w", err)
	}

	msg := &game.Message{
		ID:        uuid.NewString(),
		GameID:    gameID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (id, game_id, user_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.GameID, msg.UserID, msg.Content, msg.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	log.Debug("Posted message", "gameID", gameID, "userID", userID, "messageID", msg.ID)

	change := pubsub.Change{Table: pubsub.TableMessages, Op: pubsub.OpInsert, GameID: gameID, UserID: userID, At: msg.CreatedAt}
	if err := s.feed.Publish(ctx, change); err != nil {
		log.Warn("Failed to publish message change", "error", err, "gameID", gameID)
	}
	return msg, nil
}

// List returns a game's messages oldest first.
func (s *store) List(ctx context.Context, gameID string) ([]game.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.game_id, m.user_id, p.display_name, m.content, m.created_at
		FROM messages m
		LEFT JOIN profiles p ON p.id = m.user_id
		WHERE m.game_id = ?
		ORDER BY m.created_at ASC, m.rowid ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []game.Message{}
	for rows.Next() {
		var (
			m         game.Message
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.GameID, &m.UserID, &m.DisplayName, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
