// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSON strips markdown code fences, surrounding prose and common
// key-quoting mistakes from a model reply.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// Keep only the outermost object if the model added prose around it.
	if !strings.HasPrefix(s, "[") {
		if start := strings.Index(s, "{"); start > 0 {
			s = s[start:]
		}
		if end := strings.LastIndex(s, "}"); end >= 0 && end < len(s)-1 {
			s = s[:end+1]
		}
	}

	return RepairJSON(s)
}

// DecodeJSON cleans a model reply and unmarshals it into v.
func DecodeJSON(reply string, v any) error {
	if err := json.Unmarshal([]byte(CleanJSON(reply)), v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// RepairJSON attempts to fix common JSON formatting issues from LLM responses.
// It specifically handles missing opening quotes before keys in JSON objects.
func RepairJSON(s string) string {
	// Pattern: after { or , followed by optional whitespace, then a word followed by ":
	// Example: `, type":` -> `, "type":`
	src := []rune(s)
	fixed := make([]rune, 0, len(src)+16)

	i := 0
	for i < len(src) {
		ch := src[i]
		if ch != '{' && ch != ',' {
			fixed = append(fixed, ch)
			i++
			continue
		}

		fixed = append(fixed, ch)
		i++

		for i < len(src) && (src[i] == ' ' || src[i] == '\n' || src[i] == '\t') {
			fixed = append(fixed, src[i])
			i++
		}

		if i >= len(src) || src[i] == '"' || !isLetter(src[i]) {
			continue
		}

		keyStart := i
		for i < len(src) && (isLetter(src[i]) || src[i] == '_') {
			i++
		}

		if i+1 < len(src) && src[i] == '"' && src[i+1] == ':' {
			// Closing quote is already present at src[i].
			fixed = append(fixed, '"')
		}
		fixed = append(fixed, src[keyStart:i]...)
	}

	return string(fixed)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
