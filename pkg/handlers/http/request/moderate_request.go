package request

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/app/pipeline"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
)

type ModerateRequest struct {
	Content      moderation.ContentItem `json:"content"`
	Activity     *trust.ActivityData    `json:"activity,omitempty"`
	AnalysisType string                 `json:"analysis_type,omitempty"`
	DryRun       bool                   `json:"dry_run"`
	ForceTrust   bool                   `json:"force_trust"`
}

func (r *ModerateRequest) Validate() error {
	if r.AnalysisType != "" && !moderation.AnalysisType(r.AnalysisType).Valid() {
		return fmt.Errorf("invalid analysis_type %q", r.AnalysisType)
	}
	if r.Activity != nil && r.Activity.MessageCount < 0 {
		return fmt.Errorf("activity.message_count must not be negative")
	}
	return r.Content.Validate()
}

// ToPipelineRequest fills the content defaults the pipeline expects.
func (r *ModerateRequest) ToPipelineRequest(now time.Time) pipeline.Request {
	content := r.Content
	if content.Type == "" {
		content.Type = moderation.ContentTypeText
	}
	if content.Timestamp.IsZero() {
		content.Timestamp = now
	}
	req := pipeline.Request{
		Content:      content,
		AnalysisType: moderation.AnalysisType(r.AnalysisType),
		DryRun:       r.DryRun,
		ForceTrust:   r.ForceTrust,
	}
	if r.Activity != nil {
		req.Activity = *r.Activity
	}
	return req
}
