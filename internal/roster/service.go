package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/metrics"
	"github.com/gatorpickup/pickup/internal/pubsub"
	"github.com/google/uuid"
)

// NewService creates a roster Service.
func NewService(store Store, metrics metrics.Metrics, feed pubsub.PubSubClient) *Service {
	return &Service{
		store:   store,
		metrics: metrics,
		feed:    feed,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the service clock. Used by tests and the seeder.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateGame validates the request and stores a new open game with the host already joined.
func (s *Service) CreateGame(ctx context.Context, req game.NewGame) (*game.Game, error) {
	now := s.now()
	if err := req.Validate(now); err != nil {
		return nil, err
	}
	if req.LocationID != nil {
		ok, err := s.store.LocationExists(ctx, *req.LocationID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: unknown location %q", game.ErrInvalid, *req.LocationID)
		}
	}

	g := &game.Game{
		ID:             uuid.NewString(),
		HostID:         req.HostID,
		Sport:          req.Sport,
		SkillLevel:     req.SkillLevel,
		LocationID:     req.LocationID,
		StartsAt:       req.StartsAt.UTC(),
		MaxPlayers:     req.MaxPlayers,
		Status:         game.StatusOpen,
		HasEquipment:   req.HasEquipment,
		ExtraEquipment: req.ExtraEquipment,
		TimeFlexible:   req.TimeFlexible,
		Notes:          req.Notes,
		CreatedAt:      now,
	}
	if err := s.store.CreateGame(ctx, g); err != nil {
		return nil, err
	}
	s.metrics.IncGamesCreated()
	s.publish(ctx, pubsub.TableGames, pubsub.OpInsert, g.ID, g.HostID, now)
	s.publish(ctx, pubsub.TableParticipants, pubsub.OpInsert, g.ID, g.HostID, now)
	return g, nil
}

// Join adds userID to the game. Joining a game the caller is already in succeeds without
// changing anything and reports AlreadyJoined.
func (s *Service) Join(ctx context.Context, gameID, userID string) (game.RosterResult, error) {
	now := s.now()
	result, err := s.store.Join(ctx, gameID, userID, now)
	switch {
	case errors.Is(err, game.ErrAlreadyJoined):
		log.Debug("Join is a no-op, user already joined", "gameID", gameID, "userID", userID)
		result.AlreadyJoined = true
		return result, nil
	case errors.Is(err, game.ErrCapacityExceeded):
		s.metrics.IncCapacityRejections()
		return result, err
	case err != nil:
		return result, err
	}

	s.metrics.IncJoins()
	s.publish(ctx, pubsub.TableParticipants, pubsub.OpUpdate, gameID, userID, now)
	if result.StatusChanged {
		s.publish(ctx, pubsub.TableGames, pubsub.OpUpdate, gameID, "", now)
	}
	return result, nil
}

// Leave removes userID from the game's active roster.
func (s *Service) Leave(ctx context.Context, gameID, userID string) (game.RosterResult, error) {
	now := s.now()
	result, err := s.store.Leave(ctx, gameID, userID, now)
	if err != nil {
		return result, err
	}

	s.metrics.IncLeaves()
	s.publish(ctx, pubsub.TableParticipants, pubsub.OpUpdate, gameID, userID, now)
	if result.StatusChanged {
		s.publish(ctx, pubsub.TableGames, pubsub.OpUpdate, gameID, "", now)
	}
	return result, nil
}

func (s *Service) GetGame(ctx context.Context, gameID string) (*game.Game, error) {
	return s.store.GetGame(ctx, gameID)
}

// ListGames returns the upcoming games feed.
func (s *Service) ListGames(ctx context.Context, filter game.Filter) ([]game.Game, error) {
	if filter.Sport != nil && !filter.Sport.Valid() {
		return nil, fmt.Errorf("%w: unknown sport %q", game.ErrInvalid, *filter.Sport)
	}
	return s.store.ListUpcoming(ctx, s.now(), filter)
}

func (s *Service) Roster(ctx context.Context, gameID string) ([]game.Participant, error) {
	return s.store.Roster(ctx, gameID)
}

func (s *Service) Locations(ctx context.Context) ([]game.Location, error) {
	return s.store.ListLocations(ctx)
}

// CompletePastGames marks games that started more than grace ago as completed.
func (s *Service) CompletePastGames(ctx context.Context, grace time.Duration) ([]string, error) {
	now := s.now()
	ids, err := s.store.CompletePastGames(ctx, now.Add(-grace))
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		s.publish(ctx, pubsub.TableGames, pubsub.OpUpdate, id, "", now)
	}
	return ids, nil
}

// publish announces a change. Feed failures are logged and never fail the caller.
func (s *Service) publish(ctx context.Context, table pubsub.Table, op pubsub.Op, gameID, userID string, at time.Time) {
	change := pubsub.Change{Table: table, Op: op, GameID: gameID, UserID: userID, At: at}
	if err := s.feed.Publish(ctx, change); err != nil {
		log.Warn("Failed to publish roster change", "error", err, "table", table, "gameID", gameID)
	}
}
