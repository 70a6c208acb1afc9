package rag

import (
	"fmt"
	"strings"

	"github.com/mwiater/beypal/internal/catalog"
)

const (
	contextHeader  = "CONTESTO DATI:"
	questionHeader = "DOMANDA UTENTE:"
)

// FormatContext joins the precomputed RagContent of each combo with a blank line.
func FormatContext(combos []catalog.Combo) string {
	parts := make([]string, len(combos))
	for i, c := range combos {
		parts[i] = c.RagContent
	}
	return strings.Join(parts, "\n\n")
}

// FormatPrompt builds the user turn sent to the model: the data block
// followed by the raw question.
func FormatPrompt(context, query string) string {
	return fmt.Sprintf("%s\n%s\n\n%s\n%s", contextHeader, context, questionHeader, query)
}

func estimateTokens(text string) int {
	return len(strings.Fields(text))
}
