package scoring

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold case-folds s for case-insensitive comparison. A Caser keeps state, so
// each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// normalizeText trims s and, unless caseSensitive, folds its case.
func normalizeText(s string, caseSensitive bool) string {
	s = strings.TrimSpace(s)
	if !caseSensitive {
		s = fold(s)
	}
	return s
}

// splitKeywords splits a comma separated keyword list, dropping empty entries.
func splitKeywords(list string, caseSensitive bool) []string {
	parts := strings.Split(list, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		k := normalizeText(p, caseSensitive)
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
	}
	return keywords
}

// countKeywords counts keywords contained in answer as substrings.
func countKeywords(answer string, keywords []string) int {
	found := 0
	for _, k := range keywords {
		if strings.Contains(answer, k) {
			found++
		}
	}
	return found
}

// wordOverlap is the share of distinct words of correct that also appear in answer.
func wordOverlap(answer, correct string) float64 {
	expected := wordSet(correct)
	if len(expected) == 0 {
		return 0
	}
	given := wordSet(answer)
	shared := 0
	for w := range expected {
		if _, ok := given[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(expected))
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
