package pubsub

import "context"

type PubSubClient interface {
	Publish(ctx context.Context, change Change) error
	Decode(data []byte, change *Change) error
	Close()
}
