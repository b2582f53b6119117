package openaimod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
)

const (
	ModerationURL = "https://api.openai.com/v1/moderations"
	defaultModel  = "omni-moderation-latest"
)

// categoriesByType limits which moderation categories count for an analysis type.
// General analysis considers every category.
var categoriesByType = map[moderation.AnalysisType][]string{
	moderation.AnalysisToxicity: {
		"harassment", "harassment/threatening", "hate", "hate/threatening",
		"violence", "violence/graphic", "sexual", "sexual/minors",
	},
	moderation.AnalysisSpam: {
		"illicit", "illicit/violent",
	},
}

type moderationRequest struct {
	Input string `json:"input"`
	Model string `json:"model,omitempty"`
}

type moderationResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Results []struct {
		Flagged        bool               `json:"flagged"`
		Categories     map[string]bool    `json:"categories"`
		CategoryScores map[string]float64 `json:"category_scores"`
	} `json:"results"`
}

type provider struct {
	client httpx.Client
}

func NewProvider(client httpx.Client) providers.Provider {
	return &provider{client: client}
}

func (p *provider) Name() string {
	return "openai_moderation"
}

func (p *provider) Analyze(
	ctx context.Context,
	content moderation.ContentItem,
	analysisType moderation.AnalysisType,
	config *providers.Config,
) (*moderation.ProviderResponse, error) {
	if config.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	model := config.Model
	if model == "" {
		model = defaultModel
	}
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = ModerationURL
	}

	payload, err := json.Marshal(moderationRequest{Input: content.Text, Model: model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal moderation request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+config.Credentials.ApiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("moderation request failed: %w", err)
	}
	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: moderation API returned status %d: %s",
			moderation.ErrProviderError, resp.StatusCode, truncate(string(body), 256))
	}

	var parsed moderationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid moderation response: %v", moderation.ErrProviderError, err)
	}
	if len(parsed.Results) == 0 {
		return nil, fmt.Errorf("%w: moderation response has no results", moderation.ErrProviderError)
	}
	result := parsed.Results[0]

	maxCategory, maxScore, flagged := "", 0.0, false
	for category, score := range relevantScores(result.CategoryScores, analysisType) {
		if score > maxScore || (score == maxScore && category < maxCategory) {
			maxCategory, maxScore = category, score
		}
		flagged = flagged || result.Categories[category]
	}

	decision, confidence := providers.Classify(maxScore, config.Thresholds)
	if flagged && decision.Severity() < moderation.DecisionFlag.Severity() {
		decision, confidence = moderation.DecisionFlag, maxScore
	}

	return &moderation.ProviderResponse{
		Decision:   decision,
		Confidence: confidence,
		Reasoning:  reasoning(result.Categories, maxCategory, maxScore),
		Evidence: map[string]interface{}{
			"model":           parsed.Model,
			"flagged":         result.Flagged,
			"category_scores": result.CategoryScores,
		},
		Cost: config.CostPerCall,
	}, nil
}

func relevantScores(scores map[string]float64, analysisType moderation.AnalysisType) map[string]float64 {
	categories, ok := categoriesByType[analysisType]
	if !ok {
		return scores
	}
	out := make(map[string]float64, len(categories))
	for _, c := range categories {
		if s, ok := scores[c]; ok {
			out[c] = s
		}
	}
	return out
}

func reasoning(flags map[string]bool, maxCategory string, maxScore float64) string {
	var flagged []string
	for c, on := range flags {
		if on {
			flagged = append(flagged, c)
		}
	}
	sort.Strings(flagged)
	if len(flagged) == 0 {
		if maxCategory == "" {
			return "no moderation category scored"
		}
		return fmt.Sprintf("highest category %s at %.2f", maxCategory, maxScore)
	}
	return fmt.Sprintf("flagged categories: %s; highest %s at %.2f", strings.Join(flagged, ", "), maxCategory, maxScore)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
