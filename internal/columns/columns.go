// Package columns implements the CSV Column Discoverer: it maps a
// hospital-specific header row to the fixed logical schema the CSV
// Transform needs, by normalized substring matching.
package columns

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	codeColRe     = regexp.MustCompile(`^code(\d+)$`)
	codeTypeColRe = regexp.MustCompile(`^code(\d+)type$`)
)

// CodePair is one (code column, type column) index pair, paired
// positionally by the numeric suffix in the normalized header
// ("code1" <-> "code1type").
type CodePair struct {
	N        int
	CodeIdx  int
	TypeIdx  int // -1 if no matching type column was found
}

// Mapping is the logical-slot -> physical-column-index table discovered
// for one file. It is rebuilt once per file (its lifetime is per-file).
type Mapping struct {
	CodeCols []CodePair

	Setting              int
	Description          int
	PayerName            int
	PlanName             int
	Modifiers            int
	Gross                int
	DiscountedCash       int
	Min                  int
	Max                  int
	NegotiatedDollar     int
	NegotiatedPercentage int
	NegotiatedAlgorithm  int
	EstimatedAmount      int
	Methodology          int
	AdditionalNotes      int
}

// unset is the sentinel for "slot not present in this header row".
const unset = -1

// normalize lowercases and strips every non-alphanumeric rune, per the
// Column Discoverer's normalization rule.
func normalize(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Discover builds a Mapping from a raw header row. Rules are evaluated
// per header, first match wins, exactly as spec.md's Column Discoverer
// table.
func Discover(headers []string) Mapping {
	m := Mapping{
		Setting: unset, Description: unset, PayerName: unset, PlanName: unset,
		Modifiers: unset, Gross: unset, DiscountedCash: unset, Min: unset, Max: unset,
		NegotiatedDollar: unset, NegotiatedPercentage: unset, NegotiatedAlgorithm: unset,
		EstimatedAmount: unset, Methodology: unset, AdditionalNotes: unset,
	}

	typeIdxByN := make(map[int]int)
	codeIdxByN := make(map[int]int)

	for i, raw := range headers {
		n := normalize(raw)

		switch {
		case codeTypeColRe.MatchString(n):
			suffix := codeTypeColRe.FindStringSubmatch(n)[1]
			num, _ := strconv.Atoi(suffix)
			typeIdxByN[num] = i
			continue
		case codeColRe.MatchString(n):
			suffix := codeColRe.FindStringSubmatch(n)[1]
			num, _ := strconv.Atoi(suffix)
			codeIdxByN[num] = i
			continue
		case strings.Contains(n, "setting"):
			m.Setting = i
		case strings.Contains(n, "description") || n == "desc":
			m.Description = i
		case strings.Contains(n, "payer") && strings.Contains(n, "name"):
			m.PayerName = i
		case strings.Contains(n, "plan") && strings.Contains(n, "name"):
			m.PlanName = i
		case strings.Contains(n, "modifier"):
			m.Modifiers = i
		case strings.Contains(n, "gross"):
			m.Gross = i
		case strings.Contains(n, "discounted"):
			m.DiscountedCash = i
		case strings.Contains(n, "min"):
			m.Min = i
		case strings.Contains(n, "max"):
			m.Max = i
		case strings.Contains(n, "negotiated") && strings.Contains(n, "dollar"):
			m.NegotiatedDollar = i
		case strings.Contains(n, "negotiated") && strings.Contains(n, "percent"):
			m.NegotiatedPercentage = i
		case strings.Contains(n, "negotiated") && strings.Contains(n, "algorithm"):
			m.NegotiatedAlgorithm = i
		case strings.Contains(n, "estimated"):
			m.EstimatedAmount = i
		case strings.Contains(n, "methodology"):
			m.Methodology = i
		case strings.Contains(n, "note"):
			m.AdditionalNotes = i
		}
	}

	for num, codeIdx := range codeIdxByN {
		pair := CodePair{N: num, CodeIdx: codeIdx, TypeIdx: unset}
		if typeIdx, ok := typeIdxByN[num]; ok {
			pair.TypeIdx = typeIdx
		}
		m.CodeCols = append(m.CodeCols, pair)
	}
	// Deterministic order: callers (the Charge Filter) depend on a stable
	// first-match order across code columns.
	for i := 0; i < len(m.CodeCols); i++ {
		for j := i + 1; j < len(m.CodeCols); j++ {
			if m.CodeCols[j].N < m.CodeCols[i].N {
				m.CodeCols[i], m.CodeCols[j] = m.CodeCols[j], m.CodeCols[i]
			}
		}
	}

	return m
}

// HasRequiredSlots reports whether the minimum viable slots (setting,
// description) were discovered. Missing either is a fatal, file-level
// error per spec.md's error handling table ("Malformed CSV").
func (m Mapping) HasRequiredSlots() bool {
	return m.Setting != unset && m.Description != unset
}
