package keyword

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
	"github.com/mitchellh/mapstructure"
)

// Options are read from providers.Config.Options.
type Options struct {
	Blocked  []string `mapstructure:"blocked"`
	Flagged  []string `mapstructure:"flagged"`
	MaxLinks int      `mapstructure:"max_links"`
}

const (
	defaultMaxLinks   = 3
	matchConfidence   = 0.9
	approveConfidence = 0.6
)

const floodRun = 6

var linkPattern = regexp.MustCompile(`(?i)\bhttps?://\S+`)

type provider struct{}

// NewProvider returns the offline keyword matcher. It never calls out of process.
func NewProvider() providers.Provider {
	return &provider{}
}

func (p *provider) Name() string {
	return "keyword"
}

func (p *provider) Analyze(
	ctx context.Context,
	content moderation.ContentItem,
	analysisType moderation.AnalysisType,
	config *providers.Config,
) (*moderation.ProviderResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var opts Options
	if err := mapstructure.Decode(config.Options, &opts); err != nil {
		return nil, fmt.Errorf("invalid keyword options: %w", err)
	}
	if opts.MaxLinks == 0 {
		opts.MaxLinks = defaultMaxLinks
	}

	text := strings.ToLower(content.Text)
	resp := &moderation.ProviderResponse{
		Decision:   moderation.DecisionApprove,
		Confidence: approveConfidence,
		Reasoning:  "no listed term matched",
		Cost:       config.CostPerCall,
	}

	if analysisType != moderation.AnalysisSpam {
		if term, ok := firstMatch(text, opts.Blocked); ok {
			resp.Decision, resp.Confidence = moderation.DecisionBlock, matchConfidence
			resp.Reasoning = "blocked term matched"
			resp.Evidence = map[string]interface{}{"term": term}
			return resp, nil
		}
		if term, ok := firstMatch(text, opts.Flagged); ok {
			resp.Decision, resp.Confidence = moderation.DecisionFlag, matchConfidence
			resp.Reasoning = "flagged term matched"
			resp.Evidence = map[string]interface{}{"term": term}
			return resp, nil
		}
	}

	if analysisType != moderation.AnalysisToxicity {
		links := len(linkPattern.FindAllString(text, -1))
		switch {
		case links > opts.MaxLinks:
			resp.Decision, resp.Confidence = moderation.DecisionFlag, 0.7
			resp.Reasoning = fmt.Sprintf("%d links in one message", links)
			resp.Evidence = map[string]interface{}{"links": links}
		case flooding(text):
			resp.Decision, resp.Confidence = moderation.DecisionMonitor, 0.6
			resp.Reasoning = "repeated token flooding"
		}
	}
	return resp, nil
}

func firstMatch(text string, terms []string) (string, bool) {
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t != "" && strings.Contains(text, t) {
			return term, true
		}
	}
	return "", false
}

// flooding reports whether the same token repeats floodRun times in a row.
func flooding(text string) bool {
	run, prev := 0, ""
	for _, tok := range strings.Fields(text) {
		if tok == prev {
			run++
		} else {
			prev, run = tok, 1
		}
		if run >= floodRun {
			return true
		}
	}
	return false
}
