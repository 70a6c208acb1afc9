package beypal

import (
	"github.com/spf13/cobra"
)

// listCmd groups listing subcommands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources",
	Long:  `The 'list' command groups subcommands that list resources related to beypal.`,
}

func init() {
	rootCmd.AddCommand(listCmd)
}
