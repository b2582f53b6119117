package providers

import (
	"context"
)

type Config struct {
	Credentials  Credentials            `json:"credentials" mapstructure:"credentials"`
	Model        string                 `json:"model" mapstructure:"model"`
	Endpoint     string                 `json:"endpoint,omitempty" mapstructure:"endpoint"`
	MaxTokens    int                    `json:"max_tokens,omitempty" mapstructure:"max_tokens"`
	Temperature  float64                `json:"temperature,omitempty" mapstructure:"temperature"`
	SystemPrompt string                 `json:"system_prompt,omitempty" mapstructure:"system_prompt"`
	Instructions []string               `json:"instructions,omitempty" mapstructure:"instructions"`
	Thresholds   Thresholds             `json:"thresholds" mapstructure:"thresholds"`
	CostPerCall  float64                `json:"cost_per_call,omitempty" mapstructure:"cost_per_call"`
	CostPer1K    float64                `json:"cost_per_1k_tokens,omitempty" mapstructure:"cost_per_1k_tokens"`
	Options      map[string]interface{} `json:"options,omitempty" mapstructure:"options"`
}

type Credentials struct {
	ApiKey      string `json:"api_key" mapstructure:"api_key"`
	UseIdentity bool   `json:"use_identity,omitempty" mapstructure:"use_identity"`
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter

// Client is a chat completion backend used by the LLM classifier.
type Client interface {
	Ask(ctx context.Context, config *Config, prompt string) (*CompletionResponse, error)
}
