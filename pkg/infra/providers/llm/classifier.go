package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
)

const defaultSystemPrompt = "You are a content moderation classifier for a community chat. " +
	"Answer only with a JSON object of the form " +
	`{"decision":"APPROVE|MONITOR|FLAG|BLOCK","confidence":0.0,"reasoning":"...","categories":{"name":0.0}}.`

var focus = map[moderation.AnalysisType]string{
	moderation.AnalysisToxicity: "Assess harassment, hate, threats, slurs and sexual content aimed at others.",
	moderation.AnalysisSpam:     "Assess unsolicited promotion, repeated links, scams and flooding.",
	moderation.AnalysisGeneral:  "Assess whether the message breaks common community guidelines.",
}

type classifier struct {
	name   string
	client providers.Client
}

// NewClassifier turns a chat completion backend into a moderation provider.
func NewClassifier(name string, client providers.Client) providers.Provider {
	return &classifier{name: name, client: client}
}

func (c *classifier) Name() string {
	return c.name
}

func (c *classifier) Analyze(
	ctx context.Context,
	content moderation.ContentItem,
	analysisType moderation.AnalysisType,
	config *providers.Config,
) (*moderation.ProviderResponse, error) {
	askCfg := *config
	if askCfg.SystemPrompt == "" {
		askCfg.SystemPrompt = defaultSystemPrompt
	}
	if askCfg.Temperature == 0 {
		askCfg.Temperature = 0.01
	}

	completion, err := c.client.Ask(ctx, &askCfg, buildPrompt(content, analysisType))
	if err != nil {
		return nil, err
	}

	verdict, decision, err := providers.ParseVerdict(completion.Response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", moderation.ErrProviderError, err)
	}

	evidence := map[string]interface{}{
		"model":  completion.Model,
		"tokens": completion.Usage.TotalTokens,
	}
	if len(verdict.Categories) > 0 {
		evidence["categories"] = verdict.Categories
	}

	return &moderation.ProviderResponse{
		Decision:   decision,
		Confidence: verdict.Confidence,
		Reasoning:  verdict.Reasoning,
		Evidence:   evidence,
		Cost:       config.CostPerCall + completion.Usage.Cost(config.CostPer1K),
	}, nil
}

func buildPrompt(content moderation.ContentItem, analysisType moderation.AnalysisType) string {
	var b strings.Builder
	b.WriteString(focus[analysisType])
	b.WriteString("\n\n[Message]\n")
	b.WriteString(content.Text)
	b.WriteString("\n")
	return b.String()
}
