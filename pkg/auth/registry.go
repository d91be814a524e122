package auth

import (
	"encoding/json"
	"fmt"
	"sync"
)

// ProviderConfig contains provider-specific configuration
type ProviderConfig struct {
	Type   string          `yaml:"type" json:"type"`
	Config json.RawMessage `yaml:"config" json:"config"`
}

// VerifierFactory creates verifiers from configuration
type VerifierFactory func(config json.RawMessage) (Verifier, error)

var (
	registry = make(map[string]VerifierFactory)
	mu       sync.RWMutex
)

// RegisterProvider registers a verifier factory for a provider type
func RegisterProvider(providerType string, factory VerifierFactory) {
	mu.Lock()
	defer mu.Unlock()
	registry[providerType] = factory
}

// NewVerifier creates a verifier from provider configuration
func NewVerifier(providerConfig ProviderConfig) (Verifier, error) {
	mu.RLock()
	factory, ok := registry[providerConfig.Type]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown auth provider type: %s", providerConfig.Type)
	}

	return factory(providerConfig.Config)
}

// ListProviders returns registered provider types
func ListProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	providers := make([]string, 0, len(registry))
	for name := range registry {
		providers = append(providers, name)
	}
	return providers
}
