package beypal

import (
	"fmt"
	"io"
	"strings"
)

// CommandInfo is one row of the command tree.
type CommandInfo struct {
	Path        string
	Description string
	// Depth is 0 for the root command, 1 for its children and so on.
	Depth int
	// Group marks a command that only holds subcommands, such as show or list.
	Group bool
}

// ListCommands prints the command tree in two columns. Group commands start
// a new block so their subcommands read together.
func ListCommands(out io.Writer, commands []CommandInfo) {
	width := 0
	for _, c := range commands {
		if n := len(c.Path) + 2*c.Depth; n > width {
			width = n
		}
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for i, c := range commands {
		if c.Group && i > 0 {
			fmt.Fprintln(out)
		}
		label := strings.Repeat("  ", c.Depth) + c.Path
		desc := c.Description
		if c.Group {
			desc = "[" + desc + "]"
		}
		fmt.Fprintf(out, "  %-*s  %s\n", width, label, desc)
	}
}
