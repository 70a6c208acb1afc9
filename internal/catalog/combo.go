// internal/catalog/combo.go
// Package catalog holds the Beyblade combo records, the CSV ingestor that
// builds them, and the store that owns the active dataset.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// UnrankedRank marks a combo with no usable rank.
	UnrankedRank = 999
	// UnknownComponent fills blade, ratchet and bit when a row omits them.
	UnknownComponent = "Unknown"
)

// Combo is a single catalog entry: one blade/ratchet/bit combination and its
// competitive statistics.
type Combo struct {
	ID          string  `json:"id"`
	Rank        int     `json:"rank"`
	Points      float64 `json:"points"`
	Blade       string  `json:"blade"`
	Ratchet     string  `json:"ratchet"`
	Bit         string  `json:"bit"`
	Wins        int     `json:"wins"`
	Description string  `json:"description,omitempty"`
	RagContent  string  `json:"ragContent"`
}

// Summarize renders the one-line text used both as search haystack and as
// the context shown to the language model. Field order and labels are part
// of the contract.
func Summarize(c Combo) string {
	return fmt.Sprintf("Combo ID: %s. Rank: %d (Punti: %s). Componenti -> Blade: %s, Ratchet: %s, Bit: %s. Vittorie nel campione: %d.",
		c.ID,
		c.Rank,
		strconv.FormatFloat(c.Points, 'f', -1, 64),
		c.Blade,
		c.Ratchet,
		c.Bit,
		c.Wins,
	)
}

// Builder assembles a Combo field by field. Unset fields receive their
// defaults in Build.
type Builder struct {
	combo Combo
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) ID(v string) *Builder          { b.combo.ID = v; return b }
func (b *Builder) Rank(v int) *Builder           { b.combo.Rank = v; return b }
func (b *Builder) Points(v float64) *Builder     { b.combo.Points = v; return b }
func (b *Builder) Blade(v string) *Builder       { b.combo.Blade = v; return b }
func (b *Builder) Ratchet(v string) *Builder     { b.combo.Ratchet = v; return b }
func (b *Builder) Bit(v string) *Builder         { b.combo.Bit = v; return b }
func (b *Builder) Wins(v int) *Builder           { b.combo.Wins = v; return b }
func (b *Builder) Description(v string) *Builder { b.combo.Description = v; return b }

// Build applies defaults, derives RagContent and validates the result.
// fallbackID is used when no ID was set.
func (b *Builder) Build(fallbackID string) (Combo, error) {
	c := b.combo
	if c.ID == "" {
		c.ID = fallbackID
	}
	if c.Blade == "" {
		c.Blade = UnknownComponent
	}
	if c.Ratchet == "" {
		c.Ratchet = UnknownComponent
	}
	if c.Bit == "" {
		c.Bit = UnknownComponent
	}
	// A parsed rank of 0 is indistinguishable from a missing one.
	if c.Rank == 0 {
		c.Rank = UnrankedRank
	}
	c.RagContent = Summarize(c)

	if err := validate(c); err != nil {
		return Combo{}, err
	}
	return c, nil
}

func validate(c Combo) error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("combo id is empty")
	}
	if c.RagContent == "" {
		return fmt.Errorf("combo %s: rag content is empty", c.ID)
	}
	return nil
}
