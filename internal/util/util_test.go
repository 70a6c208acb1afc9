// internal/util/util_test.go
package util

import (
	"strings"
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "WizardRod", max: 10, want: "WizardRod"},
		{name: "ascii truncation", in: "  Related: WIZ-001 #1", max: 11, want: "  Related: …"},
		{name: "accented truncation", in: "più velocità", max: 6, want: "più ve…"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Fatalf("TruncateRunes(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestWrapToWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{
			name:  "wrap words",
			text:  "usa WizardRod con Ball",
			width: 13,
			want:  "usa WizardRod\ncon Ball",
		},
		{
			name:  "long word split",
			text:  "ERRORE_DI_SISTEMA",
			width: 5,
			want: strings.Join([]string{
				"ERROR",
				"E_DI_",
				"SISTE",
				"MA",
			}, "\n"),
		},
		{
			name:  "preserve blank lines",
			text:  "Combo uno\n\nCombo due",
			width: 20,
			want:  "Combo uno\n\nCombo due",
		},
		{
			name:  "non-positive width no-op",
			text:  "no wrap",
			width: 0,
			want:  "no wrap",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := WrapToWidth(tt.text, tt.width); got != tt.want {
				t.Fatalf("WrapToWidth(%q,%d)=%q want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
