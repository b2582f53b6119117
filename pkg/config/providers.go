package config

import (
	"fmt"
	"sort"
	"time"
)

// ProviderConfig registers one analysis provider with the gateway. Settings is decoded into
// the provider's own configuration by the dependency container.
type ProviderConfig struct {
	Kind      string                 `mapstructure:"kind"`
	Enabled   bool                   `mapstructure:"enabled"`
	Timeout   time.Duration          `mapstructure:"timeout"`
	RateLimit int                    `mapstructure:"rate_limit"`
	Settings  map[string]interface{} `mapstructure:"settings"`
}

// ProvidersConfig maps provider ids to their registration.
type ProvidersConfig struct {
	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

func (p ProvidersConfig) Validate() error {
	for id, provider := range p.Providers {
		if provider.Kind == "" {
			return fmt.Errorf("provider %s: kind is required", id)
		}
		if provider.RateLimit < 0 {
			return fmt.Errorf("provider %s: rate_limit must not be negative", id)
		}
	}
	return nil
}

// IDs returns the provider ids in a stable order.
func (p ProvidersConfig) IDs() []string {
	ids := make([]string, 0, len(p.Providers))
	for id := range p.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
