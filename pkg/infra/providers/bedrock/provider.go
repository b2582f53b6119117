package bedrock

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	bedrockClient "github.com/NeuralTrust/TrustMod/pkg/infra/bedrock"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/mitchellh/mapstructure"
)

// Options are read from providers.Config.Options.
type Options struct {
	GuardrailID string `mapstructure:"guardrail_id"`
	Version     string `mapstructure:"version"`
}

var filterConfidence = map[string]float64{
	"NONE":   0,
	"LOW":    0.4,
	"MEDIUM": 0.7,
	"HIGH":   0.95,
}

type provider struct {
	client bedrockClient.Client
}

// NewGuardrailProvider scores content with an Amazon Bedrock guardrail.
func NewGuardrailProvider(client bedrockClient.Client) providers.Provider {
	return &provider{client: client}
}

func (p *provider) Name() string {
	return "bedrock_guardrail"
}

func (p *provider) Analyze(
	ctx context.Context,
	content moderation.ContentItem,
	_ moderation.AnalysisType,
	config *providers.Config,
) (*moderation.ProviderResponse, error) {
	var opts Options
	if err := mapstructure.Decode(config.Options, &opts); err != nil {
		return nil, fmt.Errorf("invalid bedrock options: %w", err)
	}
	if opts.GuardrailID == "" {
		return nil, fmt.Errorf("guardrail_id is required")
	}
	if opts.Version == "" {
		opts.Version = "DRAFT"
	}

	contentBlock := types.GuardrailContentBlockMemberText{
		Value: types.GuardrailTextBlock{
			Text: aws.String(content.Text),
		},
	}
	output, err := p.client.ApplyGuardrail(ctx, &bedrockruntime.ApplyGuardrailInput{
		Content:             []types.GuardrailContentBlock{&contentBlock},
		GuardrailIdentifier: aws.String(opts.GuardrailID),
		GuardrailVersion:    aws.String(opts.Version),
		Source:              types.GuardrailContentSourceInput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call bedrock guardrail: %w", err)
	}

	score, reasons := assess(output.Assessments)
	intervened := output.Action == types.GuardrailActionGuardrailIntervened
	thresholds := config.Thresholds
	if thresholds == (providers.Thresholds{}) {
		thresholds = providers.DefaultThresholds
	}
	if intervened {
		score = math.Max(score, thresholds.Flag)
	} else {
		score = math.Min(score, thresholds.Flag/2)
	}
	decision, confidence := providers.Classify(score, thresholds)

	reasoning := "guardrail did not intervene"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}

	return &moderation.ProviderResponse{
		Decision:   decision,
		Confidence: confidence,
		Reasoning:  reasoning,
		Evidence: map[string]interface{}{
			"guardrail_id": opts.GuardrailID,
			"action":       string(output.Action),
			"findings":     reasons,
		},
		Cost: config.CostPerCall,
	}, nil
}

func assess(assessments []types.GuardrailAssessment) (float64, []string) {
	score := 0.0
	var reasons []string
	for _, a := range assessments {
		if a.TopicPolicy != nil {
			for _, topic := range a.TopicPolicy.Topics {
				if topic.Action == types.GuardrailTopicPolicyActionBlocked {
					score = 1.0
					reasons = append(reasons, "denied topic "+aws.ToString(topic.Name))
				}
			}
		}
		if a.ContentPolicy != nil {
			for _, filter := range a.ContentPolicy.Filters {
				c := filterConfidence[string(filter.Confidence)]
				score = math.Max(score, c)
				if filter.Action == types.GuardrailContentPolicyActionBlocked {
					reasons = append(reasons, fmt.Sprintf("%s filter %s", strings.ToLower(string(filter.Type)), filter.Confidence))
				}
			}
		}
		if a.WordPolicy != nil {
			for _, word := range a.WordPolicy.CustomWords {
				if word.Action == types.GuardrailWordPolicyActionBlocked {
					score = 1.0
					reasons = append(reasons, "blocked word "+aws.ToString(word.Match))
				}
			}
		}
	}
	return score, reasons
}
