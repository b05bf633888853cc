package push

import "context"

// Sender delivers push notifications. Send fails if any part of the batch could not be handed over.
type Sender interface {
	Send(ctx context.Context, messages []Message) error
}
