package chat

import (
	"context"

	"github.com/gatorpickup/pickup/internal/game"
)

// Chat posts and lists the messages of a game.
type Chat interface {
	Post(ctx context.Context, gameID, userID, content string) (*game.Message, error)
	List(ctx context.Context, gameID string) ([]game.Message, error)
}
