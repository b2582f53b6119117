package moderation

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type ModerationLevel string

const (
	LevelRelaxed  ModerationLevel = "relaxed"
	LevelModerate ModerationLevel = "moderate"
	LevelStrict   ModerationLevel = "strict"
)

func (l ModerationLevel) Valid() bool {
	return l == LevelRelaxed || l == LevelModerate || l == LevelStrict
}

const (
	DefaultMessagesPerMinute = 10
	DefaultTrustThreshold    = 0.3
)

type RateLimits struct {
	MessagesPerMinute int `json:"messages_per_minute" mapstructure:"messages_per_minute"`
}

type (
	ActionsJSON    []Action
	RateLimitsJSON RateLimits
)

func (a ActionsJSON) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *ActionsJSON) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal ActionsJSON value: %w", err)
	}
	return json.Unmarshal(bytes, a)
}

func (r RateLimitsJSON) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RateLimitsJSON) Scan(value interface{}) error {
	if value == nil {
		*r = RateLimitsJSON{}
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal RateLimitsJSON value: %w", err)
	}
	return json.Unmarshal(bytes, r)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}

// RoomPolicy is the per room moderation configuration. The engine only reads it.
type RoomPolicy struct {
	ContextID        string          `json:"context_id" gorm:"primaryKey"`
	ModerationLevel  ModerationLevel `json:"moderation_level"`
	TrustThreshold   float64         `json:"trust_threshold"`
	AllowedActions   ActionsJSON     `json:"allowed_actions" gorm:"type:jsonb"`
	RateLimits       RateLimitsJSON  `json:"rate_limits" gorm:"type:jsonb"`
	EscalationTarget string          `json:"escalation_target"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (RoomPolicy) TableName() string {
	return "room_policies"
}

func DefaultRoomPolicy(contextID string) *RoomPolicy {
	return &RoomPolicy{
		ContextID:       contextID,
		ModerationLevel: LevelModerate,
		TrustThreshold:  DefaultTrustThreshold,
		RateLimits:      RateLimitsJSON{MessagesPerMinute: DefaultMessagesPerMinute},
	}
}

func (p *RoomPolicy) Validate() error {
	if p.ContextID == "" {
		return errors.New("context_id is required")
	}
	if !p.ModerationLevel.Valid() {
		return fmt.Errorf("invalid moderation_level %q", p.ModerationLevel)
	}
	if p.TrustThreshold < 0 || p.TrustThreshold > 1 {
		return errors.New("trust_threshold must be between 0 and 1")
	}
	if p.RateLimits.MessagesPerMinute < 0 {
		return errors.New("rate_limits.messages_per_minute must not be negative")
	}
	for _, a := range p.AllowedActions {
		if !a.Valid() {
			return fmt.Errorf("invalid allowed action %q", a)
		}
	}
	return nil
}

// Allows reports whether the room lets the engine execute the action.
// An empty allow list permits every action; NONE is always permitted.
func (p *RoomPolicy) Allows(a Action) bool {
	if a == ActionNone || len(p.AllowedActions) == 0 {
		return true
	}
	for _, allowed := range p.AllowedActions {
		if allowed == a {
			return true
		}
	}
	return false
}

func (p *RoomPolicy) MessageCap() int {
	if p.RateLimits.MessagesPerMinute <= 0 {
		return DefaultMessagesPerMinute
	}
	return p.RateLimits.MessagesPerMinute
}

// LowTrustBoundary is the trust score below which an actor counts as low trust in this room.
func (p *RoomPolicy) LowTrustBoundary() float64 {
	if p.TrustThreshold <= 0 {
		return DefaultTrustThreshold
	}
	return p.TrustThreshold
}
