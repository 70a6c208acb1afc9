// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is checked when the default path does not exist.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for LLM requests.
	defaultRequestTimeout = 600 * time.Second
	// defaultTemperature keeps answers close to the supplied data.
	defaultTemperature = 0.5
	// defaultListenAddr is used by the serve command.
	defaultListenAddr = ":8080"
	// genericAPIKeyEnv is consulted when the provider specific variable is unset.
	genericAPIKeyEnv = "API_KEY"
)

// Provider types understood by the provider factory.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug          bool     `json:"debug" mapstructure:"debug"`
	LogFile        string   `json:"logFile,omitempty" mapstructure:"logFile"`
	TimeoutSeconds int      `json:"timeout,omitempty" mapstructure:"timeout" jsonschema:"minimum=0"`
	DatasetPath    string   `json:"dataset,omitempty" mapstructure:"dataset"`
	ListenAddr     string   `json:"listen,omitempty" mapstructure:"listen"`
	Provider       Provider `json:"provider" mapstructure:"provider"`
	ConfigPath     string   `json:"-" mapstructure:"-"`
}

// Provider selects and tunes the language model backend.
type Provider struct {
	Type         string   `json:"type,omitempty" mapstructure:"type" jsonschema:"enum=gemini,enum=openai,enum=ollama"`
	URL          string   `json:"url,omitempty" mapstructure:"url"`
	Model        string   `json:"model,omitempty" mapstructure:"model"`
	APIKeyEnv    string   `json:"apiKeyEnv,omitempty" mapstructure:"apiKeyEnv"`
	Temperature  *float64 `json:"temperature,omitempty" mapstructure:"temperature" jsonschema:"minimum=0,maximum=2"`
	SystemPrompt string   `json:"systemPrompt,omitempty" mapstructure:"systemPrompt"`
}

// RequestTimeout returns the timeout duration for LLM requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "beypal.log"
}

// ListenAddress returns the HTTP listen address for the serve command.
func (c Config) ListenAddress() string {
	if addr := strings.TrimSpace(c.ListenAddr); addr != "" {
		return addr
	}
	return defaultListenAddr
}

// ProviderType returns the normalized provider type, defaulting to gemini.
func (p Provider) ProviderType() string {
	t := strings.ToLower(strings.TrimSpace(p.Type))
	if t == "" {
		return ProviderGemini
	}
	return t
}

// ModelName returns the configured model or a sensible default for the provider type.
func (p Provider) ModelName() string {
	if m := strings.TrimSpace(p.Model); m != "" {
		return m
	}
	switch p.ProviderType() {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama:
		return "llama3.1"
	default:
		return "gemini-2.5-flash"
	}
}

// BaseURL returns the endpoint for the provider. An empty result means the
// client library default.
func (p Provider) BaseURL() string {
	if u := strings.TrimSpace(p.URL); u != "" {
		return strings.TrimRight(u, "/")
	}
	switch p.ProviderType() {
	case ProviderGemini:
		return "https://generativelanguage.googleapis.com/v1beta/openai"
	case ProviderOllama:
		return "http://localhost:11434"
	default:
		return ""
	}
}

// APIKeyVar returns the environment variable holding the API key.
func (p Provider) APIKeyVar() string {
	if v := strings.TrimSpace(p.APIKeyEnv); v != "" {
		return v
	}
	switch p.ProviderType() {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// APIKey resolves the API key from the environment, falling back to API_KEY.
func (p Provider) APIKey() string {
	if v := p.APIKeyVar(); v != "" {
		if key := strings.TrimSpace(os.Getenv(v)); key != "" {
			return key
		}
	}
	return strings.TrimSpace(os.Getenv(genericAPIKeyEnv))
}

// TemperatureValue returns the sampling temperature, defaulting to a low value.
func (p Provider) TemperatureValue() float64 {
	if p.Temperature == nil {
		return defaultTemperature
	}
	return *p.Temperature
}

// ResolvePath returns the config file to read. When path is the default
// location and only the legacy config.json exists, the legacy file is used.
func ResolvePath(path string) string {
	if path == "" {
		path = DefaultConfigPath
	}
	if path != DefaultConfigPath {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if _, err := os.Stat(legacyConfigPath); err == nil {
		return legacyConfigPath
	}
	return path
}
