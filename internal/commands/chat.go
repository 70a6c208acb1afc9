// internal/commands/chat.go
package beypal

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/beypal/cli"
	"github.com/mwiater/beypal/internal/chat"
)

// startGUI is a function alias to cli.StartGUI for starting the chat interface.
var startGUI = cli.StartGUI

// chatCmd represents the 'chat' command, which starts an interactive chat session.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a chat session",
	Long:  `The 'chat' command opens the terminal chat. Questions are answered from the active combo dataset; press ctrl+o to load a CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		session, provider, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer closeProvider(provider)
		return chat.Run(session, startGUI(cfg.Debug))
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
