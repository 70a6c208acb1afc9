// internal/rag/retriever.go
// Package rag selects the catalog records relevant to a question and formats
// them as language-model context.
package rag

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mwiater/beypal/internal/catalog"
)

const (
	// CandidateLimit bounds the relevance phase.
	CandidateLimit = 100
	// ResultLimit bounds what is handed to the model.
	ResultLimit = 30

	fullQueryScore = 50
	termScore      = 10
	minTermRunes   = 3
)

// ScoredCombo is a combo plus its relevance score.
type ScoredCombo struct {
	Combo catalog.Combo
	Score int
}

// RetrievalResult includes the selected combos, their context text and telemetry.
type RetrievalResult struct {
	Context       string
	ContextTokens int
	Combos        []ScoredCombo
	Terms         []string
	Candidates    int
	Fallback      bool
	RetrievalMs   int
}

// Search returns at most ResultLimit combos from dataset relevant to query,
// ordered by ascending rank.
func Search(query string, dataset []catalog.Combo) []catalog.Combo {
	return combosOf(selectCombos(query, dataset).Combos)
}

// Retrieve runs Search and keeps the scores and timing for previews.
func Retrieve(query string, dataset []catalog.Combo) RetrievalResult {
	start := time.Now()
	result := selectCombos(query, dataset)
	result.Context = FormatContext(combosOf(result.Combos))
	result.ContextTokens = estimateTokens(result.Context)
	result.RetrievalMs = int(time.Since(start) / time.Millisecond)
	return result
}

// selectCombos scores every combo, keeps the best CandidateLimit, then
// reorders them by rank and keeps ResultLimit.
func selectCombos(query string, dataset []catalog.Combo) RetrievalResult {
	lowerQuery := strings.ToLower(query)
	terms := expandTerms(lowerQuery)

	scored := scoreCombos(dataset, lowerQuery, terms)

	candidates := make([]ScoredCombo, 0, len(scored))
	for _, s := range scored {
		if s.Score > 0 {
			candidates = append(candidates, s)
		}
	}
	fallback := false
	if len(candidates) == 0 {
		fallback = true
		for _, s := range scored {
			candidates = append(candidates, ScoredCombo{Combo: s.Combo, Score: 1})
		}
	}
	total := len(candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > CandidateLimit {
		candidates = candidates[:CandidateLimit]
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Combo.Rank < candidates[j].Combo.Rank
	})
	if len(candidates) > ResultLimit {
		candidates = candidates[:ResultLimit]
	}

	return RetrievalResult{
		Combos:     candidates,
		Terms:      terms,
		Candidates: total,
		Fallback:   fallback,
	}
}

// expandTerms splits the lowercased query on single spaces, drops short
// tokens and appends the tokens of every synonym trigger it contains.
func expandTerms(lowerQuery string) []string {
	var terms []string
	for _, tok := range strings.Split(lowerQuery, " ") {
		if utf8.RuneCountInString(tok) >= minTermRunes {
			terms = append(terms, tok)
		}
	}
	for _, syn := range synonyms {
		if strings.Contains(lowerQuery, syn.trigger) {
			terms = append(terms, syn.tokens...)
		}
	}
	return terms
}

func scoreCombos(dataset []catalog.Combo, lowerQuery string, terms []string) []ScoredCombo {
	scored := make([]ScoredCombo, 0, len(dataset))
	for _, c := range dataset {
		text := haystack(c)
		score := 0
		if strings.Contains(text, lowerQuery) {
			score += fullQueryScore
		}
		for _, term := range terms {
			if strings.Contains(text, term) {
				score += termScore
			}
		}
		scored = append(scored, ScoredCombo{Combo: c, Score: score})
	}
	return scored
}

func combosOf(scored []ScoredCombo) []catalog.Combo {
	out := make([]catalog.Combo, len(scored))
	for i, s := range scored {
		out[i] = s.Combo
	}
	return out
}

func haystack(c catalog.Combo) string {
	return strings.ToLower(strings.Join([]string{c.Blade, c.Ratchet, c.Bit, c.Description, c.RagContent}, " "))
}
