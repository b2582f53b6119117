package trust

import (
	"context"
)

type Pattern string

const (
	PatternConsistentQuality   Pattern = "consistent_quality"
	PatternImprovementTrend    Pattern = "improvement_trend"
	PatternCommunityLeadership Pattern = "community_leadership"
	PatternHelpfulBehavior     Pattern = "helpful_behavior"
	PatternToxicBehavior       Pattern = "toxic_behavior"
	PatternSpamBehavior        Pattern = "spam_behavior"
)

// ActivityData is the raw evidence the trust layers are computed from.
// Signals holds sub-component observations in [0,1] keyed by component name.
type ActivityData struct {
	MessageCount      int                `json:"message_count"`
	Signals           map[string]float64 `json:"signals"`
	QualityHistory    []float64          `json:"quality_history,omitempty"`
	HelpfulReactions  int                `json:"helpful_reactions"`
	LeadershipActions int                `json:"leadership_actions"`
	ToxicFlags        int                `json:"toxic_flags"`
	SpamFlags         int                `json:"spam_flags"`
}

type ActivityKind string

const (
	ActivityMessage ActivityKind = "message"
	ActivityToxic   ActivityKind = "toxic"
	ActivitySpam    ActivityKind = "spam"
)

type ActivityCounts struct {
	Events int64 `json:"events"`
	Toxic  int64 `json:"toxic"`
	Spam   int64 `json:"spam"`
}

// CachedProfile remembers how many activity events had been recorded when the profile was computed.
type CachedProfile struct {
	Profile      Profile `json:"profile"`
	EventsAtCalc int64   `json:"events_at_calc"`
}

type ProfileCache interface {
	Get(ctx context.Context, actorID, contextID string) (*CachedProfile, bool, error)
	Set(ctx context.Context, entry CachedProfile) error
	Delete(ctx context.Context, actorID, contextID string) error
}

type ActivityStore interface {
	Record(ctx context.Context, actorID, contextID string, kind ActivityKind) (ActivityCounts, error)
	Counts(ctx context.Context, actorID, contextID string) (ActivityCounts, error)
}
