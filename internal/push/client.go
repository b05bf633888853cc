package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

// NewClient creates an Expo push client for host (e.g. https://exp.host). accessToken is
// optional and only needed when enhanced push security is enabled on the Expo project.
func NewClient(host, accessToken string) *ExpoClient {
	return &ExpoClient{
		host:        host,
		accessToken: accessToken,
		transport:   http.DefaultTransport,
	}
}

// Ensure ExpoClient implements the Sender interface.
var _ Sender = (*ExpoClient)(nil)

// Send publishes messages in chunks of ChunkSize. The first failing chunk aborts the send;
// chunks already accepted are not recalled. Messages whose token is not an Expo push token
// are skipped.
func (c *ExpoClient) Send(ctx context.Context, messages []Message) error {
	batch := make([]expo.PushMessage, 0, len(messages))
	for _, m := range messages {
		token, err := expo.NewExponentPushToken(m.To)
		if err != nil {
			log.Warn("Skipping invalid push token", "to", m.To, "error", err)
			continue
		}
		batch = append(batch, expo.PushMessage{
			To:    []expo.ExponentPushToken{token},
			Title: m.Title,
			Body:  m.Body,
			Data:  m.Data,
		})
	}
	if len(batch) == 0 {
		return nil
	}

	client := expo.NewPushClient(&expo.ClientConfig{
		Host:   c.host,
		APIURL: APIURL,
		HTTPClient: &http.Client{
			Timeout:   RequestTimeout,
			Transport: &requestTransport{ctx: ctx, accessToken: c.accessToken, base: c.transport},
		},
	})

	for start := 0; start < len(batch); start += ChunkSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("push send cancelled after %d of %d: %w", start, len(batch), err)
		}
		end := min(start+ChunkSize, len(batch))
		log.Debug("Publishing push chunk", "host", c.host, "size", end-start)
		responses, err := client.PublishMultiple(batch[start:end])
		if err != nil {
			return fmt.Errorf("failed to send push chunk %d-%d of %d: %w", start, end, len(batch), err)
		}
		logTicketErrors(responses)
	}
	log.Info("Sent push notifications", "count", len(batch))
	return nil
}

// logTicketErrors reports per-device failures. They do not fail the batch.
func logTicketErrors(responses []expo.PushResponse) {
	for _, r := range responses {
		err := r.ValidateResponse()
		if err == nil {
			continue
		}
		var notRegistered *expo.DeviceNotRegisteredError
		if errors.As(err, &notRegistered) {
			log.Warn("Push token is no longer registered", "to", r.PushMessage.To)
			continue
		}
		log.Warn("Push ticket error", "to", r.PushMessage.To, "error", err)
	}
}

func (t *requestTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(t.ctx)
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	return t.base.RoundTrip(req)
}
