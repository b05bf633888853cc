package roster

import (
	"context"
	"time"

	"github.com/gatorpickup/pickup/internal/game"
)

// Store defines the persistence operations behind the roster.
// Join and Leave are single transactions: the participant write, the joined-count
// re-read and the game status compare-and-set either all commit or none do.
type Store interface {
	CreateGame(ctx context.Context, g *game.Game) error
	GetGame(ctx context.Context, gameID string) (*game.Game, error)
	ListUpcoming(ctx context.Context, now time.Time, filter game.Filter) ([]game.Game, error)
	Roster(ctx context.Context, gameID string) ([]game.Participant, error)
	Join(ctx context.Context, gameID, userID string, now time.Time) (game.RosterResult, error)
	Leave(ctx context.Context, gameID, userID string, now time.Time) (game.RosterResult, error)
	CompletePastGames(ctx context.Context, before time.Time) ([]string, error)
	ListLocations(ctx context.Context) ([]game.Location, error)
	LocationExists(ctx context.Context, locationID string) (bool, error)
}
