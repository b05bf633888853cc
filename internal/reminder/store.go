package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/game"
)

// NewStore creates a reminder Store backed by db.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) Targets(ctx context.Context, window Window) ([]Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.sport, l.name, g.starts_at, p.user_id, pr.expo_push_token
		FROM games g
		JOIN game_participants p ON p.game_id = g.id AND p.status = ?
		JOIN profiles pr ON pr.id = p.user_id
		LEFT JOIN locations l ON l.id = g.location_id
		WHERE g.status IN (?, ?)
			AND g.starts_at >= ? AND g.starts_at < ?
			AND pr.expo_push_token IS NOT NULL AND pr.expo_push_token <> ''
		ORDER BY g.starts_at ASC, g.id ASC, p.joined_at ASC`,
		string(game.ParticipantJoined), string(game.StatusOpen), string(game.StatusFull),
		window.Start.UnixMilli(), window.End.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder targets: %w", err)
	}
	defer rows.Close()

	var targets []Target
	for rows.Next() {
		var (
			t        Target
			sport    string
			startsAt int64
		)
		if err := rows.Scan(&t.GameID, &sport, &t.LocationName, &startsAt, &t.UserID, &t.Token); err != nil {
			return nil, fmt.Errorf("failed to scan reminder target: %w", err)
		}
		t.Sport = game.Sport(sport)
		t.StartsAt = time.UnixMilli(startsAt).UTC()
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

func (s *store) AcquireLock(ctx context.Context, name, holder string, now time.Time, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO job_locks (name, holder, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			holder = excluded.holder,
			expires_at = excluded.expires_at
		WHERE job_locks.expires_at <= ?`,
		name, holder, now.Add(ttl).UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		log.Debug("Lock is held by someone else", "lock", name, "holder", holder)
		return false, nil
	}
	return true, nil
}

func (s *store) ReleaseLock(ctx context.Context, name, holder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM job_locks WHERE name = ? AND holder = ?`, name, holder)
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", name, err)
	}
	return nil
}
