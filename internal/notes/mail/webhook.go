package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookSender posts each message as the JSON array
// [to, from, subject, body] to URL. Delivery succeeded only when the hook
// answers 200 with an empty body.
type WebhookSender struct {
	URL    string
	From   string
	Client *http.Client
}

// NewWebhookSender returns a sender with a bounded client.
func NewWebhookSender(url, from string, timeout time.Duration) *WebhookSender {
	if from == "" {
		from = DefaultFrom
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSender{URL: url, From: from, Client: &http.Client{Timeout: timeout}}
}

func (s *WebhookSender) Send(ctx context.Context, m Message) error {
	from := s.From
	if from == "" {
		from = DefaultFrom
	}
	payload, err := json.Marshal([]string{m.To, from, m.Subject, m.Body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrDeliveryFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}
	if len(body) != 0 {
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, bytes.TrimSpace(body))
	}
	return nil
}
