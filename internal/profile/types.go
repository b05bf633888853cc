package profile

import (
	"database/sql"
	"sync"

	"github.com/gatorpickup/pickup/internal/game"
)

// store handles all database operations for profiles.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// Onboarding is what a user fills in on first launch.
type Onboarding struct {
	DisplayName        string           `json:"display_name"`
	PreferredSport     *game.Sport      `json:"preferred_sport"`
	SkillLevel         *game.SkillLevel `json:"skill_level"`
	FavoriteLocationID *string          `json:"favorite_location_id"`
}

// Stats counts a player's games.
type Stats struct {
	UserID      string `json:"user_id"`
	GamesHosted int    `json:"games_hosted"`
	GamesJoined int    `json:"games_joined"`
}

const MaxDisplayNameLength = 50
