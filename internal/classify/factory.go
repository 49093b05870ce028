package classify

import (
	"fmt"

	"github.com/rcliao/arsip-kita/internal/config"
)

// NewProvider creates a provider from config.
// Provider "" or "none" means classification is disabled and returns nil, nil.
func NewProvider(cfg config.ClassifierConfig) (Provider, error) {
	switch cfg.Provider {
	case "", config.ProviderNone:
		return nil, nil
	case config.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, nil
		}
		p, err := NewGeminiProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, nil
		}
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown classifier %q (valid: gemini, anthropic)", cfg.Provider)
	}
}
