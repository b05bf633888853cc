package chat

import (
	"database/sql"
	"sync"
	"time"

	"github.com/gatorpickup/pickup/internal/pubsub"
)

const MaxMessageLength = 1000

type store struct {
	db   *sql.DB
	mu   sync.Mutex
	feed pubsub.PubSubClient
	now  func() time.Time
}
