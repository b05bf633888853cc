package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gatorpickup/pickup/internal/database"
	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestChat(t *testing.T) (*store, *pubsub.MockPubSubClient, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO profiles (id, display_name, created_at, updated_at) VALUES ('u1', 'Albert', 0, 0), ('u2', NULL, 0, 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO games (id, host_id, sport, skill_level, starts_at, max_players, created_at)
		VALUES ('g1', 'u1', 'pickleball', 'any', 0, 4, 0)`)
	require.NoError(t, err)

	feed := pubsub.NewMock()
	s := New(db, feed).(*store)
	return s, feed, teardown
}

func TestPostAndList(t *testing.T) {
	s, feed, teardown := setupTestChat(t)
	defer teardown()
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := s.Post(ctx, "g1", "u1", "  who has a ball?  ")
	require.NoError(t, err)
	assert.Equal(t, "who has a ball?", first.Content)
	_, err = s.Post(ctx, "g1", "u2", "me")
	require.NoError(t, err)

	messages, err := s.List(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first.ID, messages[0].ID)
	require.NotNil(t, messages[0].DisplayName)
	assert.Equal(t, "Albert", *messages[0].DisplayName)
	assert.Nil(t, messages[1].DisplayName)

	calls := feed.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, pubsub.TableMessages, calls[0].Table)
	assert.Equal(t, pubsub.OpInsert, calls[0].Op)
}

func TestPost_Rejects(t *testing.T) {
	s, feed, teardown := setupTestChat(t)
	defer teardown()
	ctx := context.Background()

	tests := []struct {
		name    string
		gameID  string
		content string
		want    error
	}{
		{"empty", "g1", "   ", game.ErrInvalid},
		{"too long", "g1", strings.Repeat("a", MaxMessageLength+1), game.ErrInvalid},
		{"unknown game", "nope", "hi", game.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Post(ctx, tt.gameID, "u1", tt.content)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, feed.Calls())

	_, err := s.Post(ctx, "g1", "u1", strings.Repeat("é", MaxMessageLength))
	assert.NoError(t, err, "length is counted in characters")
}
