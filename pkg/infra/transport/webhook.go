package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/httpx"
)

const SignatureHeader = "X-TrustMod-Token"

type WebhookConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

type webhookSender struct {
	cfg    WebhookConfig
	client httpx.Client
}

// NewWebhookTransport posts every command as JSON to a chat bridge endpoint.
func NewWebhookTransport(cfg WebhookConfig, client httpx.Client) moderation.ChatTransport {
	return newChatTransport(&webhookSender{cfg: cfg, client: client})
}

func (s *webhookSender) send(ctx context.Context, cmd Command) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal %s command: %w", cmd.Type, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set(SignatureHeader, s.cfg.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s command failed: %w", cmd.Type, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := httpx.ReadBody(resp)
		return fmt.Errorf("%s command rejected: status=%d body=%s", cmd.Type, resp.StatusCode, raw)
	}
	return nil
}
