package request

import (
	"strings"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
)

type UpdateRoomPolicyRequest struct {
	ModerationLevel   string   `json:"moderation_level"`
	TrustThreshold    float64  `json:"trust_threshold"`
	AllowedActions    []string `json:"allowed_actions"`
	MessagesPerMinute int      `json:"messages_per_minute"`
	EscalationTarget  string   `json:"escalation_target"`
}

// ToPolicy builds the policy for roomID. Validation is left to RoomPolicy.Validate.
func (r *UpdateRoomPolicyRequest) ToPolicy(roomID string) *moderation.RoomPolicy {
	level := moderation.ModerationLevel(strings.ToLower(r.ModerationLevel))
	if level == "" {
		level = moderation.LevelModerate
	}
	var actions moderation.ActionsJSON
	for _, a := range r.AllowedActions {
		actions = append(actions, moderation.Action(strings.ToUpper(a)))
	}
	return &moderation.RoomPolicy{
		ContextID:        roomID,
		ModerationLevel:  level,
		TrustThreshold:   r.TrustThreshold,
		AllowedActions:   actions,
		RateLimits:       moderation.RateLimitsJSON{MessagesPerMinute: r.MessagesPerMinute},
		EscalationTarget: r.EscalationTarget,
	}
}
