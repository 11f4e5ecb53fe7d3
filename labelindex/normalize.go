package labelindex

import (
	"strings"

	"github.com/poiesic/glimpse/vocab"
)

// Normalize lowercases and trims a label, then maps it through the synonym
// table. Labels without a synonym are returned unchanged.
func Normalize(label string) string {
	n := strings.Join(strings.Fields(strings.ToLower(label)), " ")
	if canonical, ok := vocab.LabelSynonyms[n]; ok {
		return canonical
	}
	return n
}

// ExpandSearchTerms maps high-level concepts such as "outdoor" or "travel"
// onto concrete classifier labels. Other terms are normalized. The result is
// de-duplicated and keeps first-seen order.
//
// Expansion belongs to the query side; Search never expands its input.
func ExpandSearchTerms(terms []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(terms))
	add := func(label string) {
		if label != "" && !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}

	for _, term := range terms {
		key := strings.Join(strings.Fields(strings.ToLower(term)), " ")
		if concepts, ok := vocab.ConceptLabels[key]; ok {
			for _, c := range concepts {
				add(Normalize(c))
			}
			continue
		}
		add(Normalize(term))
	}
	return out
}
