package game

import (
	"time"
)

// Sport is the kind of game being played.
type Sport string

const (
	SportPickleball Sport = "pickleball"
	SportSpikeball  Sport = "spikeball"
)

// Label is the human readable name used in notifications.
func (s Sport) Label() string {
	switch s {
	case SportPickleball:
		return "Pickleball"
	case SportSpikeball:
		return "Spikeball"
	default:
		return string(s)
	}
}

func (s Sport) Valid() bool {
	return s == SportPickleball || s == SportSpikeball
}

// SkillLevel is the level a game is aimed at.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillAny          SkillLevel = "any"
)

func (l SkillLevel) Valid() bool {
	switch l {
	case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillAny:
		return true
	}
	return false
}

// Status represents the lifecycle state of a game. Open and full are derived from the
// joined count; cancelled and completed are terminal.
type Status string

const (
	StatusOpen      Status = "open"
	StatusFull      Status = "full"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Closed reports whether the status is terminal.
func (s Status) Closed() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ParticipantStatus is a user's relationship to a game.
type ParticipantStatus string

const (
	ParticipantJoined ParticipantStatus = "joined"
	ParticipantLeft   ParticipantStatus = "left"
)

const (
	MinPlayers = 2
	MaxPlayers = 20
)

// Game is a scheduled pickup session.
type Game struct {
	ID             string     `json:"id"`
	HostID         string     `json:"host_id"`
	Sport          Sport      `json:"sport"`
	SkillLevel     SkillLevel `json:"skill_level"`
	LocationID     *string    `json:"location_id"`
	LocationName   *string    `json:"location_name,omitempty"`
	StartsAt       time.Time  `json:"starts_at"`
	MaxPlayers     int        `json:"max_players"`
	Status         Status     `json:"status"`
	HasEquipment   bool       `json:"has_equipment"`
	ExtraEquipment bool       `json:"extra_equipment"`
	TimeFlexible   bool       `json:"time_flexible"`
	Notes          *string    `json:"notes"`
	JoinedCount    int        `json:"joined_count"`
	Version        int64      `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Started reports whether the game's start time is at or before now.
func (g *Game) Started(now time.Time) bool {
	return !g.StartsAt.After(now)
}

// DeriveStatus returns the status a game should have for the given joined count.
// Terminal statuses are never changed by roster movement.
func DeriveStatus(current Status, joined, maxPlayers int) Status {
	if current.Closed() {
		return current
	}
	if joined >= maxPlayers {
		return StatusFull
	}
	return StatusOpen
}

// NewGame holds the fields supplied by a host when creating a game.
type NewGame struct {
	HostID         string     `json:"-"`
	Sport          Sport      `json:"sport"`
	SkillLevel     SkillLevel `json:"skill_level"`
	LocationID     *string    `json:"location_id"`
	StartsAt       time.Time  `json:"starts_at"`
	MaxPlayers     int        `json:"max_players"`
	HasEquipment   bool       `json:"has_equipment"`
	ExtraEquipment bool       `json:"extra_equipment"`
	TimeFlexible   bool       `json:"time_flexible"`
	Notes          *string    `json:"notes"`
}

// Participant is a retained join/leave row for one (game, user) pair.
type Participant struct {
	GameID      string            `json:"game_id"`
	UserID      string            `json:"user_id"`
	DisplayName *string           `json:"display_name"`
	Status      ParticipantStatus `json:"status"`
	JoinedAt    time.Time         `json:"joined_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// RosterResult is the outcome of a join or leave.
type RosterResult struct {
	GameID        string `json:"game_id"`
	JoinedCount   int    `json:"joined_count"`
	MaxPlayers    int    `json:"max_players"`
	Status        Status `json:"status"`
	AlreadyJoined bool   `json:"already_joined,omitempty"`
	StatusChanged bool   `json:"-"`
}

// Filter narrows the upcoming games feed.
type Filter struct {
	Sport *Sport
	// MineFor limits the feed to games hosted or joined by this user.
	MineFor string
}

// Location is a court or field games can be played at.
type Location struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Profile is a user's public profile plus their push destination.
type Profile struct {
	ID                 string      `json:"id"`
	DisplayName        *string     `json:"display_name"`
	AvatarURL          *string     `json:"avatar_url"`
	ExpoPushToken      *string     `json:"-"`
	PreferredSport     *Sport      `json:"preferred_sport"`
	SkillLevel         *SkillLevel `json:"skill_level"`
	FavoriteLocationID *string     `json:"favorite_location_id"`
	Onboarded          bool        `json:"onboarded"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Message is a chat message posted on a game.
type Message struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	UserID      string    `json:"user_id"`
	DisplayName *string   `json:"display_name"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
