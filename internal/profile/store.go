package profile

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
)

// New creates a new profile Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) Get(ctx context.Context, id string) (*game.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, id)
}

func (s *store) get(ctx context.Context, id string) (*game.Profile, error) {
	var (
		p                    game.Profile
		sport, skill         sql.NullString
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, avatar_url, expo_push_token, preferred_sport, skill_level,
			favorite_location_id, onboarded, created_at, updated_at
		FROM profiles WHERE id = ?`, id).Scan(
		&p.ID, &p.DisplayName, &p.AvatarURL, &p.ExpoPushToken, &sport, &skill,
		&p.FavoriteLocationID, &p.Onboarded, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, game.ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if sport.Valid {
		v := game.Sport(sport.String)
		p.PreferredSport = &v
	}
	if skill.Valid {
		v := game.SkillLevel(skill.String)
		p.SkillLevel = &v
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}

func (s *store) Ensure(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := time.Now().UnixMilli()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING`, id, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info("Created profile", "userID", id)
	}
	return nil
}

func (s *store) UpdateOnboarding(ctx context.Context, id string, o Onboarding) (*game.Profile, error) {
	name := strings.TrimSpace(o.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("%w: display name is required", game.ErrInvalid)
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return nil, fmt.Errorf("%w: display name longer than %d characters", game.ErrInvalid, MaxDisplayNameLength)
	}
	var sport, skill *string
	if o.PreferredSport != nil {
		if !o.PreferredSport.Valid() {
			return nil, fmt.Errorf("%w: unknown sport %q", game.ErrInvalid, *o.PreferredSport)
		}
		v := string(*o.PreferredSport)
		sport = &v
	}
	if o.SkillLevel != nil {
		if !o.SkillLevel.Valid() {
			return nil, fmt.Errorf("%w: unknown skill level %q", game.ErrInvalid, *o.SkillLevel)
		}
		v := string(*o.SkillLevel)
		skill = &v
	}
	if o.FavoriteLocationID != nil && *o.FavoriteLocationID == "" {
		o.FavoriteLocationID = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if o.FavoriteLocationID != nil {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM locations WHERE id = ?`, *o.FavoriteLocationID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: unknown location %q", game.ErrInvalid, *o.FavoriteLocationID)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check location: %w", err)
		}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET display_name = ?, preferred_sport = ?, skill_level = ?, favorite_location_id = ?,
			onboarded = 1, updated_at = ?
		WHERE id = ?`,
		name, sport, skill, o.FavoriteLocationID, time.Now().UnixMilli(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("profile %s: %w", id, game.ErrNotFound)
	}
	log.Info("Profile onboarded", "userID", id)
	return s.get(ctx, id)
}

func (s *store) SetPushToken(ctx context.Context, id string, token *string) error {
	if token != nil && strings.TrimSpace(*token) == "" {
		token = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET expo_push_token = ?, updated_at = ? WHERE id = ?`,
		token, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("failed to set push token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile %s: %w", id, game.ErrNotFound)
	}
	log.Debug("Updated push token", "userID", id, "cleared", token == nil)
	return nil
}

// Stats counts games the user hosts and games they are joined to. Hosted games count
// as joined too, since the host holds a joined row.
func (s *store) Stats(ctx context.Context, id string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{UserID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM games WHERE host_id = ?),
			(SELECT COUNT(*) FROM game_participants WHERE user_id = ? AND status = 'joined')`,
		id, id).Scan(&stats.GamesHosted, &stats.GamesJoined)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get profile stats: %w", err)
	}
	return stats, nil
}
