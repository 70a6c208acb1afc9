package beypal

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/beypal/internal/rag"
)

// searchCmd previews which combos a question would send to the model.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Preview the combos retrieved for a query",
	Long:  `The 'search' command runs the keyword and synonym search over the active dataset and prints the selected combos in rank order, without calling a model.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore(GetConfig())
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		result := rag.Retrieve(query, store.Snapshot())

		showContext, _ := cmd.Flags().GetBool("context")
		printSearchResult(cmd.OutOrStdout(), query, result, showContext)
		return nil
	},
}

func init() {
	searchCmd.Flags().Bool("context", false, "print the serialized context block sent to the model")
	rootCmd.AddCommand(searchCmd)
}

func printSearchResult(out io.Writer, query string, result rag.RetrievalResult, showContext bool) {
	header := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)
	score := color.New(color.FgGreen)

	header.Fprintf(out, "Query: %s\n", query)
	dim.Fprintf(out, "terms=%v candidates=%d selected=%d fallback=%t elapsed=%dms tokens=%d\n\n",
		result.Terms, result.Candidates, len(result.Combos), result.Fallback, result.RetrievalMs, result.ContextTokens)

	if len(result.Combos) == 0 {
		color.New(color.FgYellow).Fprintln(out, "No combos in the active dataset.")
		return
	}

	fmt.Fprintf(out, "  %-5s %-10s %-6s %s\n", "RANK", "ID", "SCORE", "COMBO")
	for _, sc := range result.Combos {
		c := sc.Combo
		fmt.Fprintf(out, "  %-5d %-10s ", c.Rank, c.ID)
		score.Fprintf(out, "%-6d", sc.Score)
		fmt.Fprintf(out, " %s %s %s\n", c.Blade, c.Ratchet, c.Bit)
	}

	if showContext {
		fmt.Fprintln(out)
		header.Fprintln(out, "Context:")
		fmt.Fprintln(out, result.Context)
	}
}
