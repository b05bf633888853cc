package push

import (
	"context"
	"net/http"
	"time"
)

const (
	// ChunkSize is the largest batch the Expo push API accepts in one request.
	ChunkSize = 100
	// APIURL is the Expo push API path below the host.
	APIURL = "/--/api/v2"
	// RequestTimeout bounds one chunk request.
	RequestTimeout = 10 * time.Second
)

// Message is one Expo push notification.
type Message struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// ExpoClient sends notifications through the Expo push API.
type ExpoClient struct {
	host        string
	accessToken string
	transport   http.RoundTripper
}

// requestTransport binds each outgoing request to the caller's context and adds the
// access token when one is configured.
type requestTransport struct {
	ctx         context.Context
	accessToken string
	base        http.RoundTripper
}
