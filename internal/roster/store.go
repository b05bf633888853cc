package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/game"
)

// New creates a new roster Store backed by db.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

const selectGame = `
	SELECT g.id, g.host_id, g.sport, g.skill_level, g.location_id, l.name, g.starts_at, g.max_players,
		g.status, g.has_equipment, g.extra_equipment, g.time_flexible, g.notes, g.version, g.created_at,
		(SELECT COUNT(*) FROM game_participants p WHERE p.game_id = g.id AND p.status = 'joined')
	FROM games g
	LEFT JOIN locations l ON l.id = g.location_id`

// CreateGame inserts the game and the host's joined participant row. The host
// occupies one of the game's slots.
func (s *store) CreateGame(ctx context.Context, g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO games (id, host_id, sport, skill_level, location_id, starts_at, max_players, status,
			has_equipment, extra_equipment, time_flexible, notes, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		g.ID, g.HostID, string(g.Sport), string(g.SkillLevel), g.LocationID, g.StartsAt.UnixMilli(), g.MaxPlayers,
		string(game.StatusOpen), g.HasEquipment, g.ExtraEquipment, g.TimeFlexible, g.Notes, g.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_participants (game_id, user_id, status, joined_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.HostID, string(game.ParticipantJoined), g.CreatedAt.UnixMilli(), g.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert host participant: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit game creation: %w", err)
	}
	g.Status = game.StatusOpen
	g.JoinedCount = 1
	log.Info("Created game", "gameID", g.ID, "host", g.HostID, "sport", g.Sport, "startsAt", g.StartsAt)
	return nil
}

func (s *store) GetGame(ctx context.Context, gameID string) (*game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getGame(ctx, s.db, gameID)
}

func getGame(ctx context.Context, q txQuerier, gameID string) (*game.Game, error) {
	g, err := scanGame(q.QueryRowContext(ctx, selectGame+` WHERE g.id = ?`, gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", gameID, game.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

// scanGame is a helper function to scan a single game row.
func scanGame(scanner interface{ Scan(...any) error }) (*game.Game, error) {
	var (
		g                   game.Game
		sport, skill, state string
		startsAt, createdAt int64
	)
	err := scanner.Scan(
		&g.ID, &g.HostID, &sport, &skill, &g.LocationID, &g.LocationName, &startsAt, &g.MaxPlayers,
		&state, &g.HasEquipment, &g.ExtraEquipment, &g.TimeFlexible, &g.Notes, &g.Version, &createdAt,
		&g.JoinedCount,
	)
	if err != nil {
		return nil, err
	}
	g.Sport = game.Sport(sport)
	g.SkillLevel = game.SkillLevel(skill)
	g.Status = game.Status(state)
	g.StartsAt = time.UnixMilli(startsAt).UTC()
	g.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &g, nil
}

// ListUpcoming returns open and full games starting at or after now, soonest first.
func (s *store) ListUpcoming(ctx context.Context, now time.Time, filter game.Filter) ([]game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		where = []string{"g.status IN (?, ?)", "g.starts_at >= ?"}
		args  = []any{string(game.StatusOpen), string(game.StatusFull), now.UnixMilli()}
	)
	if filter.Sport != nil {
		where = append(where, "g.sport = ?")
		args = append(args, string(*filter.Sport))
	}
	if filter.MineFor != "" {
		where = append(where, `(g.host_id = ? OR EXISTS (
			SELECT 1 FROM game_participants mp WHERE mp.game_id = g.id AND mp.user_id = ? AND mp.status = 'joined'))`)
		args = append(args, filter.MineFor, filter.MineFor)
	}
	query := selectGame + " WHERE " + strings.Join(where, " AND ") + " ORDER BY g.starts_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming games: %w", err)
	}
	defer rows.Close()

	games := []game.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// Roster returns the joined participants of a game in join order.
func (s *store) Roster(ctx context.Context, gameID string) ([]game.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, gameID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", gameID, game.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to check game: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.game_id, p.user_id, pr.display_name, p.status, p.joined_at, p.updated_at
		FROM game_participants p
		LEFT JOIN profiles pr ON pr.id = p.user_id
		WHERE p.game_id = ? AND p.status = ?
		ORDER BY p.joined_at ASC`, gameID, string(game.ParticipantJoined))
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	participants := []game.Participant{}
	for rows.Next() {
		var (
			p                   game.Participant
			status              string
			joinedAt, updatedAt int64
		)
		if err := rows.Scan(&p.GameID, &p.UserID, &p.DisplayName, &status, &joinedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		p.Status = game.ParticipantStatus(status)
		p.JoinedAt = time.UnixMilli(joinedAt).UTC()
		p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// Join adds userID to the game's roster.
//
// The joined count is re-read after the participant upsert, inside the same transaction,
// and the game row is only updated if its version is unchanged. Losing either check
// rolls the whole join back with ErrCapacityExceeded. A caller who is already joined gets
// the current result together with ErrAlreadyJoined and nothing is written.
func (s *store) Join(ctx context.Context, gameID, userID string, now time.Time) (game.RosterResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return game.RosterResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	g, err := getGame(ctx, tx, gameID)
	if err != nil {
		return game.RosterResult{}, err
	}
	result := game.RosterResult{GameID: g.ID, JoinedCount: g.JoinedCount, MaxPlayers: g.MaxPlayers, Status: g.Status}

	current, found, err := participantStatus(ctx, tx, gameID, userID)
	if err != nil {
		return game.RosterResult{}, err
	}
	if found && current == game.ParticipantJoined {
		return result, fmt.Errorf("user %s in game %s: %w", userID, gameID, game.ErrAlreadyJoined)
	}

	// Started games stay joinable until the completion sweep closes them.
	if g.Status.Closed() {
		return result, fmt.Errorf("game %s is %s: %w", gameID, g.Status, game.ErrGameNotOpen)
	}
	if g.Status == game.StatusFull {
		return result, fmt.Errorf("game %s is full: %w", gameID, game.ErrCapacityExceeded)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_participants (game_id, user_id, status, joined_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(game_id, user_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`,
		gameID, userID, string(game.ParticipantJoined), now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return game.RosterResult{}, fmt.Errorf("failed to upsert participant: %w", err)
	}

	count, err := countJoined(ctx, tx, gameID)
	if err != nil {
		return game.RosterResult{}, err
	}
	if count > g.MaxPlayers {
		log.Warn("Join would overbook game, rolling back", "gameID", gameID, "userID", userID, "joined", count, "max", g.MaxPlayers)
		return result, fmt.Errorf("game %s has %d of %d: %w", gameID, count-1, g.MaxPlayers, game.ErrCapacityExceeded)
	}

	status := game.DeriveStatus(g.Status, count, g.MaxPlayers)
	if err := compareAndSetStatus(ctx, tx, g, status); err != nil {
		if errors.Is(err, game.ErrConflict) {
			return result, fmt.Errorf("game %s changed during join: %w", gameID, game.ErrCapacityExceeded)
		}
		return game.RosterResult{}, err
	}

	if err = tx.Commit(); err != nil {
		return game.RosterResult{}, fmt.Errorf("failed to commit join: %w", err)
	}

	log.Info("Joined game", "gameID", gameID, "userID", userID, "joined", count, "max", g.MaxPlayers, "status", status)
	return game.RosterResult{
		GameID:        gameID,
		JoinedCount:   count,
		MaxPlayers:    g.MaxPlayers,
		Status:        status,
		StatusChanged: status != g.Status,
	}, nil
}

// Leave marks userID's participant row as left. The row is kept so a later join
// updates it in place. A full game that has not started reopens.
func (s *store) Leave(ctx context.Context, gameID, userID string, now time.Time) (game.RosterResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return game.RosterResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	g, err := getGame(ctx, tx, gameID)
	if err != nil {
		return game.RosterResult{}, err
	}
	if g.HostID == userID {
		return game.RosterResult{}, fmt.Errorf("user %s hosts game %s: %w", userID, gameID, game.ErrHostCannotLeave)
	}

	current, found, err := participantStatus(ctx, tx, gameID, userID)
	if err != nil {
		return game.RosterResult{}, err
	}
	if !found || current != game.ParticipantJoined {
		return game.RosterResult{}, fmt.Errorf("user %s has not joined game %s: %w", userID, gameID, game.ErrNotFound)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE game_participants SET status = ?, updated_at = ?
		WHERE game_id = ? AND user_id = ?`,
		string(game.ParticipantLeft), now.UnixMilli(), gameID, userID,
	)
	if err != nil {
		return game.RosterResult{}, fmt.Errorf("failed to update participant: %w", err)
	}

	count, err := countJoined(ctx, tx, gameID)
	if err != nil {
		return game.RosterResult{}, err
	}

	status := g.Status
	if !g.Started(now) {
		status = game.DeriveStatus(g.Status, count, g.MaxPlayers)
	}
	if err := compareAndSetStatus(ctx, tx, g, status); err != nil {
		return game.RosterResult{}, err
	}

	if err = tx.Commit(); err != nil {
		return game.RosterResult{}, fmt.Errorf("failed to commit leave: %w", err)
	}

	log.Info("Left game", "gameID", gameID, "userID", userID, "joined", count, "max", g.MaxPlayers, "status", status)
	return game.RosterResult{
		GameID:        gameID,
		JoinedCount:   count,
		MaxPlayers:    g.MaxPlayers,
		Status:        status,
		StatusChanged: status != g.Status,
	}, nil
}

func participantStatus(ctx context.Context, q txQuerier, gameID, userID string) (game.ParticipantStatus, bool, error) {
	var status string
	err := q.QueryRowContext(ctx, `
		SELECT status FROM game_participants WHERE game_id = ? AND user_id = ?`, gameID, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to get participant: %w", err)
	}
	return game.ParticipantStatus(status), true, nil
}

func countJoined(ctx context.Context, q txQuerier, gameID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM game_participants WHERE game_id = ? AND status = ?`,
		gameID, string(game.ParticipantJoined)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

// compareAndSetStatus writes status and bumps the version, but only if nobody else
// has touched the game since it was read. The version is bumped even when the
// status is unchanged so that concurrent roster writers always conflict.
func compareAndSetStatus(ctx context.Context, q txQuerier, g *game.Game, status game.Status) error {
	res, err := q.ExecContext(ctx, `
		UPDATE games SET status = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		string(status), g.ID, g.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update game status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("game %s version %d: %w", g.ID, g.Version, game.ErrConflict)
	}
	return nil
}

// CompletePastGames marks open and full games that started before the cutoff as
// completed and returns their ids.
func (s *store) CompletePastGames(ctx context.Context, before time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM games WHERE status IN (?, ?) AND starts_at < ?`,
		string(game.StatusOpen), string(game.StatusFull), before.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query past games: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE games SET status = ?, version = version + 1
		WHERE id IN (`+placeholders(len(ids))+`)`,
		append([]any{string(game.StatusCompleted)}, toAnySlice(ids)...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete games: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}
	log.Info("Completed past games", "count", len(ids), "before", before)
	return ids, nil
}

func (s *store) ListLocations(ctx context.Context) ([]game.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, lat, lng FROM locations ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locations := []game.Location{}
	for rows.Next() {
		var l game.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Lat, &l.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (s *store) LocationExists(ctx context.Context, locationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM locations WHERE id = ?`, locationID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to check location: %w", err)
	}
	return true, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toAnySlice[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
