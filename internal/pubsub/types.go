package pubsub

import (
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client      *pubsub.Client
	topicPrefix string

	mu     sync.Mutex
	topics map[Table]*pubsub.Topic
}

// Table identifies the change feed a change is published on. Each table has its own topic.
type Table string

const (
	TableGames        Table = "games"
	TableParticipants Table = "game_participants"
	TableMessages     Table = "messages"
)

// Op is the kind of row change.
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
)

// Change tells subscribers which record to re-fetch. It never carries row contents:
// clients always re-read the store rather than trusting pushed deltas.
type Change struct {
	Table  Table     `msgpack:"table"`
	Op     Op        `msgpack:"op"`
	GameID string    `msgpack:"game_id"`
	UserID string    `msgpack:"user_id,omitempty"`
	At     time.Time `msgpack:"at"`
}
