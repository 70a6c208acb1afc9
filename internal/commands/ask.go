package beypal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// askCmd answers a single question and exits.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question and print the answer",
	Long:  `The 'ask' command runs one question through the same search and prompt as the chat and prints the answer.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, provider, err := newSession(GetConfig())
		if err != nil {
			return err
		}
		defer closeProvider(provider)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		msg, err := session.Ask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, msg.Content)

		showRelated, _ := cmd.Flags().GetBool("related")
		if showRelated && len(msg.RelatedCombos) > 0 {
			fmt.Fprintln(out)
			color.New(color.FgHiBlack).Fprintln(out, "Related combos:")
			for _, c := range msg.RelatedCombos {
				fmt.Fprintf(out, "  #%-3d %-8s %s %s %s\n", c.Rank, c.ID, c.Blade, c.Ratchet, c.Bit)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().Bool("related", false, "print the combos the answer was based on")
	rootCmd.AddCommand(askCmd)
}
