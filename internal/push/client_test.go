package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(n int) []Message {
	out := make([]Message, n)
	for i := range out {
		out[i] = Message{To: fmt.Sprintf("ExponentPushToken[%d]", i), Title: "Pickleball in 30 min!", Body: "b", Data: map[string]string{"gameId": "g1"}}
	}
	return out
}

type sentMessage struct {
	To    []string          `json:"to"`
	Title string            `json:"title"`
	Data  map[string]string `json:"data"`
}

// okTickets answers every message of a chunk with an ok ticket.
func okTickets(t *testing.T, w http.ResponseWriter, r *http.Request) []sentMessage {
	t.Helper()
	var batch []sentMessage
	require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
	tickets := make([]string, len(batch))
	for i := range tickets {
		tickets[i] = fmt.Sprintf(`{"status":"ok","id":"ticket-%d"}`, i)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"data":[` + strings.Join(tickets, ",") + `]}`))
	return batch
}

func TestSend_ChunksRequests(t *testing.T) {
	var (
		mu    sync.Mutex
		sizes []int
		first sentMessage
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, APIURL+"/push/send", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		batch := okTickets(t, w, r)
		mu.Lock()
		if len(sizes) == 0 {
			first = batch[0]
		}
		sizes = append(sizes, len(batch))
		mu.Unlock()
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	require.NoError(t, client.Send(context.Background(), messages(250)))
	assert.Equal(t, []int{100, 100, 50}, sizes)
	assert.Equal(t, []string{"ExponentPushToken[0]"}, first.To)
	assert.Equal(t, "Pickleball in 30 min!", first.Title)
	assert.Equal(t, map[string]string{"gameId": "g1"}, first.Data)
}

func TestSend_EmptyBatchMakesNoRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL, "").Send(context.Background(), nil))
	assert.False(t, called)
}

func TestSend_SkipsInvalidTokens(t *testing.T) {
	var sent []sentMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent = append(sent, okTickets(t, w, r)...)
	}))
	defer server.Close()

	batch := append(messages(2), Message{To: "not-a-token", Title: "t", Body: "b"})
	require.NoError(t, NewClient(server.URL, "").Send(context.Background(), batch))
	require.Len(t, sent, 2)
	assert.Equal(t, []string{"ExponentPushToken[1]"}, sent[1].To)
}

func TestSend_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"request level error", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"errors":[{"code":"PUSH_TOO_MANY_EXPERIENCE_IDS","message":"nope"}]}`))
		}},
		{"missing tickets", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[]}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := NewClient(server.URL, "").Send(context.Background(), messages(3))
			assert.Error(t, err)
		})
	}
}

func TestSend_TicketErrorsDoNotFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"status":"error","message":"not registered","details":{"error":"DeviceNotRegistered"}}]}`))
	}))
	defer server.Close()

	assert.NoError(t, NewClient(server.URL, "").Send(context.Background(), messages(1)))
}

func TestSend_SecondChunkFailureFails(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		okTickets(t, w, r)
	}))
	defer server.Close()

	err := NewClient(server.URL, "").Send(context.Background(), messages(250))
	assert.Error(t, err)
	assert.Equal(t, 2, calls, "no chunk is sent after a failure")
}

func TestSend_StopsWhenContextDone(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewClient(server.URL, "").Send(ctx, messages(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
