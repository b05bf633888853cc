package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	change := Change{Table: TableParticipants, Op: OpUpdate, GameID: "g1", UserID: "u1", At: at}

	data, err := Encode(change)
	require.NoError(t, err)

	var decoded Change
	require.NoError(t, NewLogOnly().Decode(data, &decoded))
	assert.Equal(t, change.Table, decoded.Table)
	assert.Equal(t, change.GameID, decoded.GameID)
	assert.True(t, at.Equal(decoded.At))
}

func TestDecode_RejectsGarbage(t *testing.T) {
	var decoded Change
	assert.Error(t, Decode([]byte{0xc1}, &decoded))
}

func TestLogOnly_PublishNeverFails(t *testing.T) {
	c := NewLogOnly()
	defer c.Close()
	assert.NoError(t, c.Publish(context.Background(), Change{Table: TableGames, Op: OpInsert, GameID: "g1"}))
}
