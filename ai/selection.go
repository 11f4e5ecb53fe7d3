package ai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var selectionNumber = regexp.MustCompile(`\d+`)

// FormatNumbered renders items as a 1-based numbered list, one per line.
func FormatNumbered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(item))
	}
	return b.String()
}

// SelectionInstructions is appended to numbered-selection prompts.
const SelectionInstructions = `Reply with the numbers of the matching items separated by commas (for example: 1, 3).
If none of the items match, reply with the single word none. Do not explain your answer.`

// Selection is a decoded numbered-selection reply.
type Selection struct {
	// Indices are 0-based positions into the candidate list, in reply order.
	Indices []int

	// None is set when the model explicitly chose no item.
	None bool
}

// Empty reports whether the reply selected nothing, either explicitly or
// because it contained no usable numbers.
func (s Selection) Empty() bool {
	return s.None || len(s.Indices) == 0
}

// ParseSelection decodes a reply to a numbered list of n items.
// Numbers outside 1..n and repeats are ignored.
func ParseSelection(reply string, n int) Selection {
	reply = strings.ToLower(strings.TrimSpace(reply))
	reply = strings.Trim(reply, ".`\"'")

	numbers := selectionNumber.FindAllString(reply, -1)
	if len(numbers) == 0 {
		return Selection{None: strings.Contains(reply, "none")}
	}

	seen := make(map[int]bool, len(numbers))
	var sel Selection
	for _, s := range numbers {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > n || seen[v] {
			continue
		}
		seen[v] = true
		sel.Indices = append(sel.Indices, v-1)
	}
	return sel
}
