package beypal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mwiater/beypal/internal/server"
)

// serveCmd exposes the chat session over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat and dataset API over HTTP",
	Long:  `The 'serve' command starts an HTTP server with the health, dataset, search and ask endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		session, provider, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer closeProvider(provider)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := cfg.ListenAddress()
		fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
		return serveHTTP(ctx, addr, server.NewRouter(cfg, session))
	},
}

// serveHTTP is swapped in tests.
var serveHTTP = server.Serve

func init() {
	rootCmd.AddCommand(serveCmd)
}
