package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// APIGatewaySender posts a frame to one connection via the API Gateway
// Management API's "post to connection" endpoint, the cloud notifier
// contract named in spec §6 (API_GATEWAY_URL). Grounded on the teacher's
// internal/auth/supabase.go HTTP client shape (context-aware request,
// JSON content-type header, short client timeout) rather than any AWS SDK,
// since the pack carries no AWS SDK dependency to ground one on.
type APIGatewaySender struct {
	baseURL      string
	connectionID string
	httpClient   *http.Client
}

// NewAPIGatewaySender builds a Sender bound to one connection.
func NewAPIGatewaySender(baseURL, connectionID string) *APIGatewaySender {
	return &APIGatewaySender{
		baseURL:      baseURL,
		connectionID: connectionID,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send implements Sender.
func (s *APIGatewaySender) Send(ctx context.Context, payload []byte) error {
	url := fmt.Sprintf("%s/@connections/%s", s.baseURL, s.connectionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notifier: post to connection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notifier: post to connection: status %d", resp.StatusCode)
	}
	return nil
}

// CloudNotifier implements Notifier for processes with no locally
// registered connections (cmd/worker): it builds a fresh APIGatewaySender
// per call instead of looking one up in a Hub.
type CloudNotifier struct {
	baseURL string
}

// NewCloudNotifier builds a CloudNotifier posting to baseURL.
func NewCloudNotifier(baseURL string) *CloudNotifier {
	return &CloudNotifier{baseURL: baseURL}
}

// Notify implements Notifier.
func (n *CloudNotifier) Notify(ctx context.Context, connectionID string, msg Message) error {
	payload, err := msg.MarshalJSON()
	if err != nil {
		return err
	}
	sender := NewAPIGatewaySender(n.baseURL, connectionID)
	if err := sender.Send(ctx, payload); err != nil {
		return ErrDeliveryFailed
	}
	return nil
}
