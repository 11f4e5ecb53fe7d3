package query

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/vocab"
)

var (
	activityPattern = regexp.MustCompile(`(?i)\bwhere\s+(?:i\s+was|i\s+am|i'm|i|we\s+were|we\s+are|we're|we)\s+(.+)$`)

	limitPattern = regexp.MustCompile(`(?i)\b(?:(?:top|first|show\s+me|limit(?:\s+to)?)\s+(\d{1,3})\b|(\d{1,3})\s+(?:[\p{L}-]+\s+)?(?:photos?|pictures?|pics|images?|videos?|clips?|selfies?|shots?|results?)\b)`)

	peoplePattern = regexp.MustCompile(`\b[Ww]ith\s+([A-Z][\p{L}'-]+(?:(?:\s*,\s*|\s+and\s+|\s*&\s*)[A-Z][\p{L}'-]+)*)`)
	peopleSplit   = regexp.MustCompile(`\s*,\s*|\s+and\s+|\s*&\s*`)

	selfiePattern = regexp.MustCompile(`(?i)\bselfies?\b|\b(?:photos?|pictures?|pics|images?|shots?)\s+of\s+(?:me|myself)\b|\bof\s+myself\b`)

	placePattern      = regexp.MustCompile(`\b(?:[Ff]rom|[Ii]n|[Aa]t|[Nn]ear)\s+([A-Z][\p{L}'.-]*(?:,?\s+[A-Z][\p{L}'.-]*)*)`)
	lowerPlacePattern = regexp.MustCompile(`(?i)\b(?:from|in|at|near)\s+([\p{L}'.-]+(?:\s+[\p{L}'.-]+){0,2})`)

	wordPattern  = regexp.MustCompile(`[\p{L}\d']+`)
	fieldPattern = regexp.MustCompile(`\S+`)
)

// activityStops end an activity phrase taken from "where I ...".
var activityStops = map[string]bool{
	"in": true, "at": true, "from": true, "near": true, "last": true, "this": true,
	"on": true, "with": true, "during": true, "today": true, "yesterday": true,
}

var labelSet = func() map[string]bool {
	set := make(map[string]bool)
	for _, l := range vocab.QueryLabels {
		set[l] = true
	}
	for k, v := range vocab.LabelSynonyms {
		set[k] = true
		set[v] = true
	}
	for k := range vocab.ConceptLabels {
		set[k] = true
	}
	delete(set, "selfie")
	return set
}()

var multiWordLabels = func() []string {
	var out []string
	for l := range labelSet {
		if strings.Contains(l, " ") {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	return out
}()

// Fallback parses a request with keyword tables and patterns only.
//
// Phrases are consumed in a fixed order so a word is never used twice:
// activity ("where I ..."), date, limit, people ("with Name"), selfie,
// location ("in/at/from Place"), then media type and labels from what is
// left. "my dog" never means a photo of the user.
func Fallback(text string, now time.Time) *core.ParsedQuery {
	q := &core.ParsedQuery{MediaType: core.MediaTypeAll, RawTerms: text}
	rest := text

	if loc := activityPattern.FindStringSubmatchIndex(rest); loc != nil {
		activity, remainder := splitActivity(rest[loc[2]:loc[3]])
		q.Activity = activity
		rest = rest[:loc[0]] + " " + remainder
	}

	q.TimePeriod, rest = extractDate(rest, now)

	if loc := limitPattern.FindStringSubmatchIndex(rest); loc != nil {
		digits := loc[2:4]
		if digits[0] < 0 {
			digits = loc[4:6]
		}
		if n, err := strconv.Atoi(rest[digits[0]:digits[1]]); err == nil && n > 0 {
			q.Limit = n
		}
		rest = rest[:digits[0]] + rest[digits[1]:]
	}

	if loc := peoplePattern.FindStringSubmatchIndex(rest); loc != nil {
		for _, name := range peopleSplit.Split(rest[loc[2]:loc[3]], -1) {
			if name = strings.TrimSpace(name); name != "" {
				q.People = append(q.People, name)
			}
		}
		rest = rest[:loc[0]] + " " + rest[loc[1]:]
	}

	if selfiePattern.MatchString(rest) {
		q.IsSelfPhotos = true
	}

	q.Location, rest = extractPlace(rest)
	if i := strings.LastIndex(q.Location, ","); i >= 0 {
		q.LocationHint = strings.TrimSpace(q.Location[i+1:])
	}

	words := strings.Fields(strings.ToLower(rest))
	photo, video := false, false
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:'\"()")
		photo = photo || vocab.PhotoWords[w]
		video = video || vocab.VideoWords[w]
	}
	switch {
	case photo && !video:
		q.MediaType = core.MediaTypePhoto
	case video && !photo:
		q.MediaType = core.MediaTypeVideo
	case !photo && !video && q.HasActivity():
		q.MediaType = core.MediaTypeVideo
	}
	if q.IsSelfPhotos && q.MediaType == core.MediaTypeAll {
		q.MediaType = core.MediaTypePhoto
	}

	q.Labels = extractLabels(rest)
	return q
}

// splitActivity cuts an activity phrase at the first word that starts a
// location, date or people clause and returns both parts.
func splitActivity(s string) (string, string) {
	fields := strings.Fields(s)
	for i, f := range fields {
		w := strings.ToLower(strings.Trim(f, ".,!?;:"))
		if activityStops[w] || parseMonth(w) != 0 || isYear(w) {
			return cleanPhrase(strings.Join(fields[:i], " ")), strings.Join(fields[i:], " ")
		}
	}
	return cleanPhrase(s), ""
}

func cleanPhrase(s string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(s), ".,!?;:"))
}

func isYear(w string) bool {
	n, err := strconv.Atoi(w)
	return err == nil && len(w) == 4 && n >= 1900 && n < 2100
}

// extractPlace finds a capitalized place after a preposition, or failing
// that the words after a preposition that are not known vocabulary.
func extractPlace(text string) (string, string) {
	for _, loc := range placePattern.FindAllStringSubmatchIndex(text, -1) {
		place := strings.TrimRight(text[loc[2]:loc[3]], ",.")
		first := strings.ToLower(strings.Fields(place)[0])
		if vocab.NonPlaces[first] || parseMonth(first) != 0 {
			continue
		}
		return place, text[:loc[0]] + " " + text[loc[1]:]
	}

	for _, loc := range lowerPlacePattern.FindAllStringSubmatchIndex(text, -1) {
		var kept []string
		end := loc[2]
		for _, w := range fieldPattern.FindAllStringIndex(text[loc[2]:loc[3]], -1) {
			word := strings.Trim(text[loc[2]+w[0]:loc[2]+w[1]], ".,")
			if !isPlaceWord(strings.ToLower(word)) {
				break
			}
			kept = append(kept, word)
			end = loc[2] + w[1]
		}
		if len(kept) == 0 {
			continue
		}
		return strings.Join(kept, " "), text[:loc[0]] + " " + text[end:]
	}
	return "", text
}

func isPlaceWord(w string) bool {
	if w == "" || vocab.StopWords[w] || vocab.NonPlaces[w] || labelSet[w] || labelSet[strings.TrimSuffix(w, "s")] {
		return false
	}
	if vocab.PhotoWords[w] || vocab.VideoWords[w] || parseMonth(w) != 0 || isYear(w) {
		return false
	}
	_, err := strconv.Atoi(w)
	return err != nil
}

// KeywordLabels returns the labels the keyword table finds in text. The
// search orchestrator uses it to tell labels the user typed from labels a
// completion service inferred.
func KeywordLabels(text string) []string {
	return extractLabels(text)
}

// extractLabels returns the known labels in text: multi-word labels first,
// then single words in order of appearance. Plurals are reduced to the
// singular label.
func extractLabels(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	joined := " " + strings.Join(words, " ") + " "

	seen := make(map[string]bool)
	var labels []string
	add := func(l string) {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}

	for _, l := range multiWordLabels {
		if strings.Contains(joined, " "+l+" ") {
			add(l)
			joined = strings.ReplaceAll(joined, " "+l+" ", "  ")
		}
	}
	for _, w := range strings.Fields(joined) {
		for _, variant := range singulars(w) {
			if labelSet[variant] {
				add(variant)
				break
			}
		}
	}
	return labels
}

// singulars returns w followed by its plausible singular forms.
func singulars(w string) []string {
	out := []string{w}
	if stem, ok := strings.CutSuffix(w, "ies"); ok {
		out = append(out, stem+"y")
	}
	return append(out, strings.TrimSuffix(w, "s"), strings.TrimSuffix(w, "es"))
}
