package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// SMSSender posts messages to an HTTP SMS provider. Like email, a missing
// endpoint means the channel is unconfigured and sends are skipped.
type SMSSender struct {
	log      *slog.Logger
	client   *http.Client
	endpoint string
	apiKey   string
}

func NewSMSSender(log *slog.Logger, client *http.Client, endpoint, apiKey string) *SMSSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &SMSSender{log: log, client: client, endpoint: endpoint, apiKey: apiKey}
}

func (s *SMSSender) Send(ctx context.Context, to, message string) error {
	if s.endpoint == "" {
		s.log.Warn("sms provider not configured, skipping sms", "to", to)
		return nil
	}

	payload, err := json.Marshal(map[string]string{"to": to, "message": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}
	return nil
}
