package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &Config{}
	}
	p := cfg.Provider

	keyState := "missing"
	if p.APIKey() != "" {
		keyState = "set"
	}
	if p.ProviderType() == ProviderOllama {
		keyState = "not required"
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Timeout:         %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Listen:          %s\n", cfg.ListenAddress())
	if cfg.DatasetPath != "" {
		fmt.Fprintf(out, "  Dataset:         %s\n", cfg.DatasetPath)
	} else {
		fmt.Fprintln(out, "  Dataset:         embedded")
	}
	fmt.Fprintf(out, "  Provider:        %s\n", p.ProviderType())
	fmt.Fprintf(out, "  Model:           %s\n", p.ModelName())
	fmt.Fprintf(out, "  Endpoint:        %s\n", displayURL(p.BaseURL()))
	fmt.Fprintf(out, "  API Key (%s): %s\n", displayVar(p.APIKeyVar()), keyState)
	fmt.Fprintf(out, "  Temperature:     %v\n", p.TemperatureValue())
	if p.SystemPrompt != "" {
		fmt.Fprintln(out, "  System Prompt:   custom")
	}
}

func displayURL(u string) string {
	if u == "" {
		return "library default"
	}
	return u
}

func displayVar(v string) string {
	if v == "" {
		return genericAPIKeyEnv
	}
	return v
}
