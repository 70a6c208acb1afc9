// internal/catalog/csv.go
package catalog

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ExpectedHeader is the column layout shown to users when an upload fails.
const ExpectedHeader = "id,rank,points,blade,ratchet,bit,wins,description"

// minRowFields is the smallest number of comma separated values a data row
// needs before it is considered.
const minRowFields = 3

var (
	lineSplitter = regexp.MustCompile(`\r?\n`)
	headerQuotes = regexp.MustCompile(`['"]+`)
)

// field identifies the Combo attribute a CSV column feeds.
type field int

const (
	fieldNone field = iota
	fieldRank
	fieldPoints
	fieldWins
	fieldBlade
	fieldRatchet
	fieldBit
	fieldID
	fieldDescription
)

// headerRules is checked top to bottom; the first rule whose keyword occurs
// in the normalized header decides the column.
var headerRules = []struct {
	keywords []string
	field    field
}{
	{[]string{"rank"}, fieldRank},
	{[]string{"points", "punti"}, fieldPoints},
	{[]string{"win", "sample", "vittorie"}, fieldWins},
	{[]string{"blade"}, fieldBlade},
	{[]string{"ratchet"}, fieldRatchet},
	{[]string{"bit"}, fieldBit},
	{[]string{"id"}, fieldID},
	{[]string{"desc"}, fieldDescription},
}

// ParseCSV turns a comma separated text blob into combos sorted by rank.
// Headers are matched loosely (e.g. "Combo Rank", "Sample Size"). Values are
// split on every comma, quoted or not. Rows with fewer than three values are
// skipped. Input without a header and at least one data line yields nil.
func ParseCSV(text string) []Combo {
	lines := nonEmptyLines(text)
	if len(lines) < 2 {
		return nil
	}

	headers := strings.Split(lines[0], ",")
	fields := make([]field, len(headers))
	for i, h := range headers {
		fields[i] = classifyHeader(normalizeHeader(h))
	}

	var result []Combo
	for i := 1; i < len(lines); i++ {
		values := strings.Split(lines[i], ",")
		if len(values) < minRowFields {
			continue
		}

		b := NewBuilder()
		for col, f := range fields {
			if col >= len(values) {
				break
			}
			value := cleanValue(values[col])
			if value == "" {
				continue
			}
			assign(b, f, value)
		}

		combo, err := b.Build(fmt.Sprintf("CSV-%d", i))
		if err != nil {
			continue
		}
		result = append(result, combo)
	}

	SortByRank(result)
	return result
}

// SortByRank orders combos by ascending rank, keeping input order for ties.
func SortByRank(combos []Combo) {
	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].Rank < combos[j].Rank
	})
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range lineSplitter.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func normalizeHeader(h string) string {
	return headerQuotes.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "")
}

func classifyHeader(header string) field {
	for _, rule := range headerRules {
		for _, kw := range rule.keywords {
			if strings.Contains(header, kw) {
				return rule.field
			}
		}
	}
	return fieldNone
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		if len(v) < 2 {
			return ""
		}
		v = v[1 : len(v)-1]
	}
	return v
}

func assign(b *Builder, f field, value string) {
	switch f {
	case fieldRank:
		n, ok := parseInt(value)
		if !ok || n == 0 {
			b.Rank(UnrankedRank)
			return
		}
		b.Rank(n)
	case fieldPoints:
		n, _ := parseNumber(value)
		b.Points(n)
	case fieldWins:
		n, _ := parseInt(value)
		b.Wins(n)
	case fieldBlade:
		b.Blade(value)
	case fieldRatchet:
		b.Ratchet(value)
	case fieldBit:
		b.Bit(value)
	case fieldID:
		b.ID(value)
	case fieldDescription:
		b.Description(value)
	}
}

// parseNumber reports false for anything that is not a finite number.
func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// parseInt truncates a parsed number toward zero. Values outside the int
// range fail like any other unparsable value.
func parseInt(s string) (int, bool) {
	n, ok := parseNumber(s)
	if !ok || n >= float64(math.MaxInt) || n < float64(math.MinInt) {
		return 0, false
	}
	return int(n), true
}
