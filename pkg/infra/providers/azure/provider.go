package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
)

const (
	analyzePath      = "/contentsafety/text:analyze?api-version=2023-10-01"
	cognitiveScope   = "https://cognitiveservices.azure.com/.default"
	outputType       = "EightSeverityLevels"
	maxSeverityLevel = 7.0
)

var categoriesByType = map[moderation.AnalysisType][]string{
	moderation.AnalysisToxicity: {"Hate", "Violence", "Sexual", "SelfHarm"},
	moderation.AnalysisSpam:     {"Hate", "Violence"},
	moderation.AnalysisGeneral:  {"Hate", "Violence", "Sexual", "SelfHarm"},
}

type analyzeRequest struct {
	Text       string   `json:"text"`
	Categories []string `json:"categories"`
	OutputType string   `json:"outputType"`
}

type analyzeResponse struct {
	BlocklistsMatch []struct {
		BlocklistName string `json:"blocklistName"`
		BlocklistItem string `json:"blocklistItemText"`
	} `json:"blocklistsMatch"`
	CategoriesAnalysis []struct {
		Category string `json:"category"`
		Severity int    `json:"severity"`
	} `json:"categoriesAnalysis"`
}

type provider struct {
	client     httpx.Client
	credential azcore.TokenCredential
}

// NewContentSafetyProvider calls Azure AI Content Safety. When credential is nil the
// subscription key from the provider config is sent instead of an Entra ID token.
func NewContentSafetyProvider(client httpx.Client, credential azcore.TokenCredential) providers.Provider {
	return &provider{client: client, credential: credential}
}

func (p *provider) Name() string {
	return "azure_content_safety"
}

func (p *provider) Analyze(
	ctx context.Context,
	content moderation.ContentItem,
	analysisType moderation.AnalysisType,
	config *providers.Config,
) (*moderation.ProviderResponse, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	payload, err := json.Marshal(analyzeRequest{
		Text:       content.Text,
		Categories: categoriesByType[analysisType],
		OutputType: outputType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	url := strings.TrimRight(config.Endpoint, "/") + analyzePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := p.authorize(ctx, req, config); err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content safety request failed: %w", err)
	}
	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: content safety returned status %d: %s",
			moderation.ErrProviderError, resp.StatusCode, string(body))
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid content safety response: %v", moderation.ErrProviderError, err)
	}

	severities := make(map[string]int, len(parsed.CategoriesAnalysis))
	maxCategory, maxSeverity := "", 0
	for _, a := range parsed.CategoriesAnalysis {
		severities[a.Category] = a.Severity
		if a.Severity > maxSeverity {
			maxCategory, maxSeverity = a.Category, a.Severity
		}
	}

	score := float64(maxSeverity) / maxSeverityLevel
	decision, confidence := providers.Classify(score, config.Thresholds)
	reason := "no harmful category detected"
	if maxCategory != "" {
		reason = fmt.Sprintf("%s severity %d of 7", maxCategory, maxSeverity)
	}
	if len(parsed.BlocklistsMatch) > 0 {
		decision, confidence = moderation.DecisionBlock, 1.0
		reason = fmt.Sprintf("matched blocklist %s", parsed.BlocklistsMatch[0].BlocklistName)
	}

	return &moderation.ProviderResponse{
		Decision:   decision,
		Confidence: confidence,
		Reasoning:  reason,
		Evidence: map[string]interface{}{
			"severities":       severities,
			"blocklist_hits":   len(parsed.BlocklistsMatch),
			"max_severity":     maxSeverity,
			"max_severity_cat": maxCategory,
		},
		Cost: config.CostPerCall,
	}, nil
}

func (p *provider) authorize(ctx context.Context, req *http.Request, config *providers.Config) error {
	if p.credential != nil && config.Credentials.UseIdentity {
		token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{cognitiveScope}})
		if err != nil {
			return fmt.Errorf("failed to acquire azure token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token.Token)
		return nil
	}
	if config.Credentials.ApiKey == "" {
		return fmt.Errorf("API key is required")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", config.Credentials.ApiKey)
	return nil
}
