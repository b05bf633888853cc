package roster_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gatorpickup/pickup/internal/database"
	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (roster.Store, *sql.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return roster.New(db), db, teardown
}

func addProfiles(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := db.Exec(`INSERT INTO profiles (id, display_name, created_at, updated_at) VALUES (?, ?, 0, 0)`, id, "Player "+id)
		require.NoError(t, err)
	}
}

// createGame inserts a game starting two hours after now, hosted by host.
func createGame(t *testing.T, store roster.Store, db *sql.DB, id, host string, maxPlayers int) *game.Game {
	t.Helper()
	addProfiles(t, db, host)
	g := &game.Game{
		ID:         id,
		HostID:     host,
		Sport:      game.SportPickleball,
		SkillLevel: game.SkillAny,
		StartsAt:   now.Add(2 * time.Hour),
		MaxPlayers: maxPlayers,
		CreatedAt:  now,
	}
	require.NoError(t, store.CreateGame(context.Background(), g))
	return g
}

func joinedRows(t *testing.T, db *sql.DB, gameID string) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM game_participants WHERE game_id = ? AND status = 'joined'`, gameID).Scan(&count))
	return count
}

func TestCreateGame_HostIsJoined(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	created := createGame(t, store, db, "g1", "host", 4)
	assert.Equal(t, game.StatusOpen, created.Status)
	assert.Equal(t, 1, created.JoinedCount)

	g, err := store.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "host", g.HostID)
	assert.Equal(t, game.StatusOpen, g.Status)
	assert.Equal(t, 1, g.JoinedCount)
	assert.True(t, g.StartsAt.Equal(now.Add(2*time.Hour)))
	assert.Nil(t, g.LocationID)
	assert.Nil(t, g.LocationName)

	participants, err := store.Roster(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "host", participants[0].UserID)
	require.NotNil(t, participants[0].DisplayName)
	assert.Equal(t, "Player host", *participants[0].DisplayName)
}

func TestJoin_FillsGameAndRejectsOverflow(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 3)
	addProfiles(t, db, "u1", "u2", "u3")

	res, err := store.Join(ctx, "g1", "u1", now)
	require.NoError(t, err)
	assert.Equal(t, 2, res.JoinedCount)
	assert.Equal(t, game.StatusOpen, res.Status)
	assert.False(t, res.StatusChanged)

	res, err = store.Join(ctx, "g1", "u2", now)
	require.NoError(t, err)
	assert.Equal(t, 3, res.JoinedCount)
	assert.Equal(t, game.StatusFull, res.Status)
	assert.True(t, res.StatusChanged)

	_, err = store.Join(ctx, "g1", "u3", now)
	assert.ErrorIs(t, err, game.ErrCapacityExceeded)

	assert.Equal(t, 3, joinedRows(t, db, "g1"), "joined count must never exceed max_players")
	g, err := store.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, game.StatusFull, g.Status)
}

func TestJoin_AlreadyJoinedWritesNothing(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 4)
	addProfiles(t, db, "u1")

	_, err := store.Join(ctx, "g1", "u1", now)
	require.NoError(t, err)
	before, err := store.GetGame(ctx, "g1")
	require.NoError(t, err)

	res, err := store.Join(ctx, "g1", "u1", now.Add(time.Minute))
	assert.ErrorIs(t, err, game.ErrAlreadyJoined)
	assert.Equal(t, 2, res.JoinedCount)

	after, err := store.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version, "an idempotent join must not touch the game row")

	t.Run("host", func(t *testing.T) {
		_, err := store.Join(ctx, "g1", "host", now)
		assert.ErrorIs(t, err, game.ErrAlreadyJoined)
	})
}

func TestJoin_RejoinKeepsSingleRow(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 4)
	addProfiles(t, db, "u1")

	_, err := store.Join(ctx, "g1", "u1", now)
	require.NoError(t, err)
	_, err = store.Leave(ctx, "g1", "u1", now.Add(time.Minute))
	require.NoError(t, err)
	res, err := store.Join(ctx, "g1", "u1", now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, res.JoinedCount)

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM game_participants WHERE game_id = 'g1' AND user_id = 'u1'`).Scan(&rows))
	assert.Equal(t, 1, rows)

	var joinedAt, updatedAt int64
	require.NoError(t, db.QueryRow(`SELECT joined_at, updated_at FROM game_participants WHERE game_id = 'g1' AND user_id = 'u1'`).Scan(&joinedAt, &updatedAt))
	assert.Equal(t, now.UnixMilli(), joinedAt, "first join time is kept")
	assert.Equal(t, now.Add(2*time.Minute).UnixMilli(), updatedAt)
}

func TestJoin_Errors(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 4)
	addProfiles(t, db, "u1")

	t.Run("unknown game", func(t *testing.T) {
		_, err := store.Join(ctx, "missing", "u1", now)
		assert.ErrorIs(t, err, game.ErrNotFound)
	})

	t.Run("cancelled game", func(t *testing.T) {
		createGame(t, store, db, "g2", "host2", 4)
		_, err := db.Exec(`UPDATE games SET status = 'cancelled' WHERE id = 'g2'`)
		require.NoError(t, err)

		_, err = store.Join(ctx, "g2", "u1", now)
		assert.ErrorIs(t, err, game.ErrGameNotOpen)
	})

	t.Run("completed game", func(t *testing.T) {
		createGame(t, store, db, "g3", "host3", 4)
		_, err := db.Exec(`UPDATE games SET status = 'completed' WHERE id = 'g3'`)
		require.NoError(t, err)

		_, err = store.Join(ctx, "g3", "u1", now)
		assert.ErrorIs(t, err, game.ErrGameNotOpen)
		assert.EqualError(t, err, "game g3 is completed: game is not open")
	})
}

func TestJoin_StartedOpenGameStillJoinable(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 4)
	addProfiles(t, db, "u1")

	res, err := store.Join(ctx, "g1", "u1", now.Add(2*time.Hour+time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, res.JoinedCount)
	assert.Equal(t, game.StatusOpen, res.Status)
	assert.Equal(t, 2, joinedRows(t, db, "g1"))
}

func TestJoin_ConcurrentJoinsForLastSlot(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 2)
	addProfiles(t, db, "u1", "u2")

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, user := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			_, errs[i] = store.Join(ctx, "g1", user, now)
		}(i, user)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, game.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 2, joinedRows(t, db, "g1"))
}

func TestJoin_ConcurrentJoinsAcrossConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pickup.db")
	dbA, teardownA, err := database.InitDB(path, "", "")
	require.NoError(t, err)
	defer teardownA()
	dbB, teardownB, err := database.InitDB(path, "", "")
	require.NoError(t, err)
	defer teardownB()

	storeA, storeB := roster.New(dbA), roster.New(dbB)
	ctx := context.Background()
	createGame(t, storeA, dbA, "g1", "host", 2)
	addProfiles(t, dbA, "u1", "u2")

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, s := range []roster.Store{storeA, storeB} {
		wg.Add(1)
		go func(i int, s roster.Store) {
			defer wg.Done()
			_, errs[i] = s.Join(ctx, "g1", []string{"u1", "u2"}[i], now)
		}(i, s)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, game.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of two racing joins may take the last slot")
	assert.Equal(t, 2, joinedRows(t, dbA, "g1"))
}

func TestLeave_ReopensFullGame(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 2)
	addProfiles(t, db, "u1", "u2")

	res, err := store.Join(ctx, "g1", "u1", now)
	require.NoError(t, err)
	require.Equal(t, game.StatusFull, res.Status)

	res, err = store.Leave(ctx, "g1", "u1", now)
	require.NoError(t, err)
	assert.Equal(t, game.StatusOpen, res.Status)
	assert.Equal(t, 1, res.JoinedCount)
	assert.True(t, res.StatusChanged)

	_, err = store.Join(ctx, "g1", "u2", now)
	assert.NoError(t, err, "the freed slot can be taken again")
}

func TestLeave_StartedGameKeepsStatus(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 2)
	addProfiles(t, db, "u1")
	_, err := store.Join(ctx, "g1", "u1", now)
	require.NoError(t, err)

	res, err := store.Leave(ctx, "g1", "u1", now.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, game.StatusFull, res.Status)
	assert.Equal(t, 1, res.JoinedCount)
}

func TestLeave_Errors(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 4)
	addProfiles(t, db, "u1")

	_, err := store.Leave(ctx, "missing", "u1", now)
	assert.ErrorIs(t, err, game.ErrNotFound)

	_, err = store.Leave(ctx, "g1", "u1", now)
	assert.ErrorIs(t, err, game.ErrNotFound, "leaving without an active row")

	_, err = store.Leave(ctx, "g1", "host", now)
	assert.ErrorIs(t, err, game.ErrHostCannotLeave)
	assert.Equal(t, 1, joinedRows(t, db, "g1"))

	_, err = store.Join(ctx, "g1", "u1", now)
	require.NoError(t, err)
	_, err = store.Leave(ctx, "g1", "u1", now)
	require.NoError(t, err)
	_, err = store.Leave(ctx, "g1", "u1", now)
	assert.ErrorIs(t, err, game.ErrNotFound, "leaving twice")
}

func TestListUpcoming(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO locations (id, name, lat, lng) VALUES ('hume', 'Hume Field', 29.6, -82.3)`)
	require.NoError(t, err)
	addProfiles(t, db, "host", "u1")

	hume := "hume"
	games := []*game.Game{
		{ID: "late", HostID: "host", Sport: game.SportPickleball, SkillLevel: game.SkillAny, StartsAt: now.Add(5 * time.Hour), MaxPlayers: 4, CreatedAt: now},
		{ID: "soon", HostID: "host", Sport: game.SportSpikeball, SkillLevel: game.SkillBeginner, LocationID: &hume, StartsAt: now.Add(time.Hour), MaxPlayers: 4, CreatedAt: now},
		{ID: "past", HostID: "host", Sport: game.SportPickleball, SkillLevel: game.SkillAny, StartsAt: now.Add(-time.Hour), MaxPlayers: 4, CreatedAt: now},
		{ID: "cancelled", HostID: "host", Sport: game.SportPickleball, SkillLevel: game.SkillAny, StartsAt: now.Add(time.Hour), MaxPlayers: 4, CreatedAt: now},
	}
	for _, g := range games {
		require.NoError(t, store.CreateGame(ctx, g))
	}
	_, err = db.Exec(`UPDATE games SET status = 'cancelled' WHERE id = 'cancelled'`)
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		list, err := store.ListUpcoming(ctx, now, game.Filter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "soon", list[0].ID)
		assert.Equal(t, "late", list[1].ID)
		require.NotNil(t, list[0].LocationName)
		assert.Equal(t, "Hume Field", *list[0].LocationName)
	})

	t.Run("sport", func(t *testing.T) {
		sport := game.SportPickleball
		list, err := store.ListUpcoming(ctx, now, game.Filter{Sport: &sport})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "late", list[0].ID)
	})

	t.Run("mine", func(t *testing.T) {
		list, err := store.ListUpcoming(ctx, now, game.Filter{MineFor: "u1"})
		require.NoError(t, err)
		assert.Empty(t, list)

		_, err = store.Join(ctx, "late", "u1", now)
		require.NoError(t, err)
		list, err = store.ListUpcoming(ctx, now, game.Filter{MineFor: "u1"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "late", list[0].ID)
		assert.Equal(t, 2, list[0].JoinedCount)
	})
}

func TestCompletePastGames(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	createGame(t, store, db, "g1", "host", 4)
	createGame(t, store, db, "g2", "host2", 4)
	_, err := db.Exec(`UPDATE games SET starts_at = ? WHERE id = 'g1'`, now.Add(-4*time.Hour).UnixMilli())
	require.NoError(t, err)

	ids, err := store.CompletePastGames(ctx, now.Add(-3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, ids)

	g, err := store.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, game.StatusCompleted, g.Status)

	ids, err = store.CompletePastGames(ctx, now.Add(-3*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ids, "completed games are not swept twice")
}

func TestLocations(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO locations (id, name, lat, lng) VALUES ('lake-alice', 'Lake Alice Field', 29.64, -82.36), ('flavet', 'Flavet Field', 29.65, -82.35)`)
	require.NoError(t, err)

	locations, err := store.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "flavet", locations[0].ID)

	ok, err := store.LocationExists(ctx, "lake-alice")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.LocationExists(ctx, "nowhere")
	require.NoError(t, err)
	assert.False(t, ok)
}
