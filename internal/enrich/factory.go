package enrich

import (
	"fmt"
	"strings"

	"github.com/autoseat/claimlens/internal/model"
)

// NewProvider creates an enrichment provider based on configuration. An
// empty provider name disables enrichment and returns nil.
func NewProvider(cfg model.EnrichConfig, remote model.RemoteConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "proxy":
		return NewProxyProvider(cfg, remote.BaseURL, remote.Token)

	case "openai":
		return NewOpenAIProvider(cfg)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown enrichment provider: %s (supported: proxy, openai)", cfg.Provider)
	}
}
