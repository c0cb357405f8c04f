package secrets

import (
	"context"
	"fmt"

	"github.com/datazip-inc/olake-hydrator/crypto"
)

const (
	BackendMemory = "memory"
	BackendAWS    = "aws"
)

// Config selects where secret coordinates resolve
type Config struct {
	Backend string            `json:"backend" mapstructure:"backend" validate:"required,oneof=memory aws"`
	Values  map[string]string `json:"values,omitempty" mapstructure:"values"`
	Region  string            `json:"region,omitempty" mapstructure:"region"`
	Prefix  string            `json:"prefix,omitempty" mapstructure:"prefix"`
	// Encrypted marks stored values as encrypted envelopes opened with the configured cipher
	Encrypted bool `json:"encrypted,omitempty" mapstructure:"encrypted"`
}

// NewResolver builds the resolver described by config; cipher is required for encrypted values
func NewResolver(ctx context.Context, config *Config, cipher *crypto.Cipher) (Resolver, error) {
	var resolver Resolver
	switch config.Backend {
	case BackendMemory:
		resolver = NewMemoryResolver(config.Values)
	case BackendAWS:
		sm, err := NewSecretsManagerResolver(ctx, config.Region, config.Prefix)
		if err != nil {
			return nil, err
		}
		resolver = sm
	default:
		return nil, fmt.Errorf("unsupported secrets backend[%s]", config.Backend)
	}

	if config.Encrypted {
		if cipher == nil {
			return nil, fmt.Errorf("secrets backend[%s] is encrypted but no encryption key is configured", config.Backend)
		}
		resolver = NewDecryptingResolver(resolver, cipher)
	}
	return resolver, nil
}
