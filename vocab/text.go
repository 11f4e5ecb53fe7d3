package vocab

import "strings"

// Tokenize splits text into lowercase words with surrounding punctuation trimmed.
// Stop words and words shorter than minLen are dropped.
func Tokenize(text string, minLen int) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}…"))
		if cleaned == "" || StopWords[cleaned] || len(cleaned) < minLen {
			continue
		}
		filtered = append(filtered, cleaned)
	}

	return filtered
}

// ExpandActivity returns the query plus every synonym-group member that
// contains, or is contained by, the query.
func ExpandActivity(activity string) []string {
	activity = strings.ToLower(strings.TrimSpace(activity))
	if activity == "" {
		return nil
	}

	seen := map[string]bool{activity: true}
	terms := []string{activity}
	for _, group := range ActivitySynonyms {
		if !groupMatches(group, activity) {
			continue
		}
		for _, term := range group {
			if !seen[term] {
				seen[term] = true
				terms = append(terms, term)
			}
		}
	}
	return terms
}

// groupMatches reports whether a group member contains the activity as
// whole words, or the activity contains a member longer than three bytes.
func groupMatches(group []string, activity string) bool {
	for _, term := range group {
		switch {
		case term == activity:
			return true
		case strings.Contains(activity, term) && len(term) > 3:
			return true
		case !StopWords[activity] && strings.Contains(" "+term+" ", " "+activity+" "):
			return true
		}
	}
	return false
}
