package beypal

import (
	"fmt"

	"github.com/mwiater/beypal/internal/appconfig"
	"github.com/mwiater/beypal/internal/catalog"
	"github.com/mwiater/beypal/internal/chat"
	"github.com/mwiater/beypal/internal/logging"
	"github.com/mwiater/beypal/internal/metrics"
	"github.com/mwiater/beypal/internal/providerfactory"
	"github.com/mwiater/beypal/internal/providers"
)

// newProvider is swapped in tests.
var newProvider = providerfactory.NewChatProvider

// loadStore returns the embedded catalog, replaced by the configured dataset
// file when one is set.
func loadStore(cfg *appconfig.Config) (*catalog.Store, error) {
	store := catalog.NewStore(catalog.Defaults())
	if cfg == nil || cfg.DatasetPath == "" {
		return store, nil
	}
	n, err := store.LoadFile(cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logging.LogEvent("dataset %s loaded: %d records", cfg.DatasetPath, n)
	return store, nil
}

// newSession wires the store and provider into a chat session. The caller
// closes the returned provider.
func newSession(cfg *appconfig.Config) (*chat.Session, providers.ChatProvider, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration is not loaded")
	}
	store, err := loadStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize provider: %w", err)
	}
	session := chat.NewSession(cfg, store, provider)
	session.SetMetrics(metrics.NewAggregator())
	return session, provider, nil
}

func closeProvider(p providers.ChatProvider) {
	if p == nil {
		return
	}
	if err := p.Close(); err != nil {
		logging.LogEvent("provider shutdown error: %v", err)
	}
}
