package game

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxNotesLength = 500

// StartGrace is how far in the past starts_at may be, so a game created "now" survives
// the trip from the client.
const StartGrace = 5 * time.Minute

// Validate checks a new game against the rules a host must satisfy.
func (n *NewGame) Validate(now time.Time) error {
	if n.HostID == "" {
		return fmt.Errorf("%w: host is required", ErrInvalid)
	}
	if !n.Sport.Valid() {
		return fmt.Errorf("%w: unknown sport %q", ErrInvalid, n.Sport)
	}
	if n.SkillLevel == "" {
		n.SkillLevel = SkillAny
	}
	if !n.SkillLevel.Valid() {
		return fmt.Errorf("%w: unknown skill level %q", ErrInvalid, n.SkillLevel)
	}
	if n.MaxPlayers < MinPlayers || n.MaxPlayers > MaxPlayers {
		return fmt.Errorf("%w: max_players must be between %d and %d", ErrInvalid, MinPlayers, MaxPlayers)
	}
	if n.StartsAt.Before(now.Add(-StartGrace)) {
		return fmt.Errorf("%w: starts_at is more than %s in the past", ErrInvalid, StartGrace)
	}
	if n.LocationID != nil && *n.LocationID == "" {
		n.LocationID = nil
	}
	if n.Notes != nil {
		trimmed := strings.TrimSpace(*n.Notes)
		if trimmed == "" {
			n.Notes = nil
		} else if utf8.RuneCountInString(trimmed) > MaxNotesLength {
			return fmt.Errorf("%w: notes longer than %d characters", ErrInvalid, MaxNotesLength)
		} else {
			n.Notes = &trimmed
		}
	}
	return nil
}
