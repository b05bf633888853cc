package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to Google Pub/Sub. Changes are published to "<topicPrefix><table>".
func New(ctx context.Context, projectID, topicPrefix string) (PubSubClient, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &client{
		client:      pubSubC,
		topicPrefix: topicPrefix,
		topics:      make(map[Table]*pubsub.Topic),
	}, nil
}

func (c *client) topic(table Table) *pubsub.Topic {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.topics[table]
	if !ok {
		t = c.client.Topic(c.topicPrefix + string(table))
		c.topics[table] = t
	}
	return t
}

func (c *client) Publish(ctx context.Context, change Change) error {
	data, err := Encode(change)
	if err != nil {
		return err
	}
	message := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"table":   string(change.Table),
			"op":      string(change.Op),
			"game_id": change.GameID,
		},
	}
	result := c.topic(change.Table).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish change", "error", err, "table", change.Table, "gameID", change.GameID)
		return fmt.Errorf("failed to publish change: %w", err)
	}
	log.Debug("Published change", "serverID", serverID, "table", change.Table, "gameID", change.GameID)
	return nil
}

func (c *client) Decode(data []byte, change *Change) error {
	return Decode(data, change)
}

func (c *client) Close() {
	c.mu.Lock()
	for _, t := range c.topics {
		t.Stop()
	}
	c.mu.Unlock()
	if err := c.client.Close(); err != nil {
		log.Error("Failed to close pubsub client", "error", err)
	}
}

// Encode serializes a change with MessagePack.
func Encode(change Change) ([]byte, error) {
	data, err := msgpack.Marshal(change)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return nil, fmt.Errorf("failed to encode change: %w", err)
	}
	return data, nil
}

// Decode unmarshals MessagePack data into the provided change.
func Decode(data []byte, change *Change) error {
	if err := msgpack.Unmarshal(data, change); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return fmt.Errorf("failed to decode change: %w", err)
	}
	return nil
}

// logOnly is used when no project is configured. Changes are only logged.
type logOnly struct{}

// NewLogOnly returns a client that logs changes instead of publishing them.
func NewLogOnly() PubSubClient {
	return logOnly{}
}

func (logOnly) Publish(ctx context.Context, change Change) error {
	log.Debug("Change feed disabled, dropping change", "table", change.Table, "op", change.Op, "gameID", change.GameID)
	return nil
}

func (logOnly) Decode(data []byte, change *Change) error {
	return Decode(data, change)
}

func (logOnly) Close() {}
