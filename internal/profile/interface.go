package profile

import (
	"context"

	"github.com/gatorpickup/pickup/internal/game"
)

// Store defines the operations on user profiles.
type Store interface {
	Get(ctx context.Context, id string) (*game.Profile, error)
	// Ensure creates an empty profile for id if none exists.
	Ensure(ctx context.Context, id string) error
	UpdateOnboarding(ctx context.Context, id string, o Onboarding) (*game.Profile, error)
	// SetPushToken stores the device's Expo push token. A nil token clears it.
	SetPushToken(ctx context.Context, id string, token *string) error
	Stats(ctx context.Context, id string) (Stats, error)
}
