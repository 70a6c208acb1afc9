// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"

	"github.com/mwiater/beypal/internal/appconfig"
	"github.com/mwiater/beypal/internal/logging"
	"github.com/mwiater/beypal/internal/providers"
	"github.com/mwiater/beypal/internal/providers/ollama"
	"github.com/mwiater/beypal/internal/providers/openai"
)

// NewChatProvider selects and configures the chat provider named by
// provider.type in the application configuration.
func NewChatProvider(cfg *appconfig.Config) (providers.ChatProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	switch t := cfg.Provider.ProviderType(); t {
	case appconfig.ProviderGemini, appconfig.ProviderOpenAI:
		logging.LogEvent("provider ready: type=%s model=%s", t, cfg.Provider.ModelName())
		return openai.New(cfg), nil
	case appconfig.ProviderOllama:
		logging.LogEvent("provider ready: type=%s model=%s url=%s", t, cfg.Provider.ModelName(), cfg.Provider.BaseURL())
		return ollama.New(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider type %q", t)
	}
}

// NewStreamRequest builds a request carrying the configured endpoint, model,
// credentials and sampling temperature.
func NewStreamRequest(cfg *appconfig.Config, systemPrompt string, history []providers.ChatMessage) providers.StreamRequest {
	p := cfg.Provider
	temp := p.TemperatureValue()
	return providers.StreamRequest{
		Host:         p.BaseURL(),
		Model:        p.ModelName(),
		APIKey:       p.APIKey(),
		SystemPrompt: systemPrompt,
		History:      history,
		Temperature:  &temp,
	}
}
