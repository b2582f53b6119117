package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/httpx"
)

type SlackWebhookBody struct {
	Text string `json:"text"`
}

type slackEscalator struct {
	webhookURL string
	client     httpx.Client
}

// NewSlackEscalator posts escalated decisions to a Slack incoming webhook.
func NewSlackEscalator(webhookURL string, client httpx.Client) moderation.Escalator {
	return &slackEscalator{
		webhookURL: webhookURL,
		client:     client,
	}
}

func (n *slackEscalator) Escalate(ctx context.Context, target string, decision moderation.ModerationDecision) error {
	body, err := json.Marshal(SlackWebhookBody{Text: slackBody(target, decision)})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(respBody)) != "ok" {
		return fmt.Errorf("failed slack webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}

func slackBody(target string, d moderation.ModerationDecision) string {
	var b strings.Builder
	b.WriteString("⚠️ Moderation Review Needed ⚠️\n")
	fmt.Fprintf(&b, "`%s` in `%s` / action `%s` / confidence %.2f\n", d.ActorID, d.RoomID, d.Action, d.Confidence)
	if target != "" {
		fmt.Fprintf(&b, "Escalation target: `%s`\n", target)
	}
	if d.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", d.Reason)
	}
	if len(d.Metadata) > 0 {
		keys := make([]string, 0, len(d.Metadata))
		for k := range d.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: `%s`\n", k, d.Metadata[k])
		}
	}
	fmt.Fprintf(&b, "Content `%s` / decision `%s`\n", d.ContentID, d.ID)
	return b.String()
}
