package rag

import (
	"testing"

	"github.com/mwiater/beypal/internal/catalog"
)

func TestFormatContextJoinsWithBlankLine(t *testing.T) {
	combos := []catalog.Combo{
		{RagContent: "first"},
		{RagContent: "second"},
	}

	if got := FormatContext(combos); got != "first\n\nsecond" {
		t.Fatalf("unexpected context: %q", got)
	}
}

func TestFormatContextNoCombos(t *testing.T) {
	if got := FormatContext(nil); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestFormatPrompt(t *testing.T) {
	got := FormatPrompt("ctx", "qual è il migliore?")
	want := "CONTESTO DATI:\nctx\n\nDOMANDA UTENTE:\nqual è il migliore?"
	if got != want {
		t.Fatalf("unexpected prompt:\n%s", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := estimateTokens("one two  three\nfour"); got != 4 {
		t.Fatalf("expected 4 tokens, got %d", got)
	}
}
