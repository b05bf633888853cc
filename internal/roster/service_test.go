package roster_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/metrics"
	"github.com/gatorpickup/pickup/internal/pubsub"
	"github.com/gatorpickup/pickup/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store roster.Store) (*roster.Service, *metrics.Mock, *pubsub.MockPubSubClient) {
	m := metrics.NewMock()
	feed := pubsub.NewMock()
	svc := roster.NewService(store, m, feed).WithClock(func() time.Time { return now })
	return svc, m, feed
}

func TestService_JoinAlreadyJoinedIsSuccess(t *testing.T) {
	store := roster.NewMock()
	store.JoinFunc = func(gameID, userID string, _ time.Time) (game.RosterResult, error) {
		return game.RosterResult{GameID: gameID, JoinedCount: 2, MaxPlayers: 4, Status: game.StatusOpen}, game.ErrAlreadyJoined
	}
	svc, m, feed := newTestService(store)

	res, err := svc.Join(context.Background(), "g1", "u1")
	require.NoError(t, err)
	assert.True(t, res.AlreadyJoined)
	assert.Equal(t, 2, res.JoinedCount)
	assert.Equal(t, 0, m.Joins())
	assert.Empty(t, feed.Calls(), "a no-op join publishes nothing")
}

func TestService_JoinPublishesChanges(t *testing.T) {
	store := roster.NewMock()
	store.JoinFunc = func(gameID, userID string, _ time.Time) (game.RosterResult, error) {
		return game.RosterResult{GameID: gameID, JoinedCount: 4, MaxPlayers: 4, Status: game.StatusFull, StatusChanged: true}, nil
	}
	svc, m, feed := newTestService(store)

	res, err := svc.Join(context.Background(), "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, game.StatusFull, res.Status)
	assert.Equal(t, 1, m.Joins())

	calls := feed.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, pubsub.TableParticipants, calls[0].Table)
	assert.Equal(t, "u1", calls[0].UserID)
	assert.Equal(t, pubsub.TableGames, calls[1].Table)
	assert.True(t, now.Equal(calls[1].At))

	require.Len(t, store.JoinCalls, 1)
	assert.True(t, now.Equal(store.JoinCalls[0].Now))
}

func TestService_JoinCapacityRejectionIsCounted(t *testing.T) {
	store := roster.NewMock()
	store.JoinFunc = func(gameID, userID string, _ time.Time) (game.RosterResult, error) {
		return game.RosterResult{}, game.ErrCapacityExceeded
	}
	svc, m, feed := newTestService(store)

	_, err := svc.Join(context.Background(), "g1", "u1")
	assert.ErrorIs(t, err, game.ErrCapacityExceeded)
	assert.Equal(t, 1, m.CapacityRejections())
	assert.Empty(t, feed.Calls())
}

func TestService_FeedFailureDoesNotFailLeave(t *testing.T) {
	store := roster.NewMock()
	svc, m, feed := newTestService(store)
	feed.PublishFunc = func(pubsub.Change) error { return errors.New("pubsub down") }

	_, err := svc.Leave(context.Background(), "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Leaves())
	assert.Len(t, feed.Calls(), 1)
}

func TestService_CreateGame(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		store := roster.NewMock()
		svc, m, feed := newTestService(store)

		g, err := svc.CreateGame(context.Background(), game.NewGame{
			HostID:     "host",
			Sport:      game.SportSpikeball,
			StartsAt:   now.Add(time.Hour),
			MaxPlayers: 4,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, game.SkillAny, g.SkillLevel)
		assert.Equal(t, game.StatusOpen, g.Status)
		assert.Len(t, store.CreateGameCalls, 1)
		assert.Equal(t, 1, m.GamesCreated())
		assert.Len(t, feed.Calls(), 2)
	})

	t.Run("unknown location", func(t *testing.T) {
		store := roster.NewMock()
		store.LocationExistsFunc = func(string) (bool, error) { return false, nil }
		svc, _, _ := newTestService(store)

		loc := "atlantis"
		_, err := svc.CreateGame(context.Background(), game.NewGame{
			HostID:     "host",
			Sport:      game.SportPickleball,
			LocationID: &loc,
			StartsAt:   now.Add(time.Hour),
			MaxPlayers: 4,
		})
		assert.ErrorIs(t, err, game.ErrInvalid)
		assert.Empty(t, store.CreateGameCalls)
	})

	t.Run("starting now", func(t *testing.T) {
		store := roster.NewMock()
		svc, _, _ := newTestService(store)

		g, err := svc.CreateGame(context.Background(), game.NewGame{
			HostID:     "host",
			Sport:      game.SportPickleball,
			StartsAt:   now.Add(-5 * time.Second),
			MaxPlayers: 4,
		})
		require.NoError(t, err)
		assert.Equal(t, game.StatusOpen, g.Status)
		assert.Len(t, store.CreateGameCalls, 1)
	})

	t.Run("in the past", func(t *testing.T) {
		store := roster.NewMock()
		svc, _, _ := newTestService(store)

		_, err := svc.CreateGame(context.Background(), game.NewGame{
			HostID:     "host",
			Sport:      game.SportPickleball,
			StartsAt:   now.Add(-game.StartGrace - time.Minute),
			MaxPlayers: 4,
		})
		assert.ErrorIs(t, err, game.ErrInvalid)
		assert.Empty(t, store.CreateGameCalls)
	})
}

func TestService_ListGamesRejectsUnknownSport(t *testing.T) {
	svc, _, _ := newTestService(roster.NewMock())
	sport := game.Sport("curling")
	_, err := svc.ListGames(context.Background(), game.Filter{Sport: &sport})
	assert.ErrorIs(t, err, game.ErrInvalid)
}

func TestService_CompletePastGamesUsesGrace(t *testing.T) {
	store := roster.NewMock()
	store.CompletePastGamesFunc = func(before time.Time) ([]string, error) {
		return []string{"g1", "g2"}, nil
	}
	svc, _, feed := newTestService(store)

	ids, err := svc.CompletePastGames(context.Background(), 3*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, ids)
	require.Len(t, store.CompleteCalls, 1)
	assert.True(t, now.Add(-3*time.Hour).Equal(store.CompleteCalls[0]))
	assert.Len(t, feed.Calls(), 2)
}
