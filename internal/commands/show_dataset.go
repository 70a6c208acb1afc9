package beypal

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/beypal/internal/catalog"
)

// showDatasetCmd prints the active dataset. Debug mode dumps every field.
var showDatasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Show the active combo dataset",
	Long:  `Show the combos that questions are answered from: the embedded catalog or the CSV named by --dataset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore(GetConfig())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if DebugEnabled() {
			pp.ColoringEnabled = false
			_, err := pp.Fprintln(out, store.Snapshot())
			return err
		}
		printDataset(out, store.Source(), store.Snapshot())
		return nil
	},
}

func init() {
	showCmd.AddCommand(showDatasetCmd)
}

func printDataset(out io.Writer, src catalog.Source, combos []catalog.Combo) {
	name := src.Name
	if name == "" {
		name = "embedded"
	}
	fmt.Fprintf(out, "Source: %s (%s), %d records\n\n", src.Kind, name, src.Records)
	fmt.Fprintf(out, "  %-5s %-10s %-8s %-6s %-16s %-8s %s\n", "RANK", "ID", "POINTS", "WINS", "BLADE", "RATCHET", "BIT")
	for _, c := range combos {
		fmt.Fprintf(out, "  %-5d %-10s %-8g %-6d %-16s %-8s %s\n", c.Rank, c.ID, c.Points, c.Wins, c.Blade, c.Ratchet, c.Bit)
	}
}
