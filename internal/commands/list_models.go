package beypal

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/beypal/internal/providerfactory"
	"github.com/mwiater/beypal/internal/providers"
)

// modelsCmd implements 'list models', which asks the configured provider
// which models it serves.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models served by the configured provider",
	Long:  `The 'models' subcommand queries the configured provider endpoint and prints the model names it reports, marking the configured one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not loaded")
		}
		provider, err := newProvider(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize provider: %w", err)
		}
		defer closeProvider(provider)

		lister, ok := provider.(providers.ModelLister)
		if !ok {
			return fmt.Errorf("provider %s cannot list models", cfg.Provider.ProviderType())
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()
		names, err := lister.ListModels(ctx, providerfactory.NewStreamRequest(cfg, "", nil))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Models on %s:\n", cfg.Provider.ProviderType())
		configured := cfg.Provider.ModelName()
		for _, name := range names {
			marker := " "
			if name == configured {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %s\n", marker, name)
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(modelsCmd)
}
