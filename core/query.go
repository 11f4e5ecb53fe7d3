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


package core

import (
	"strings"
	"time"
)

// TimePeriod is an inclusive date range.
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p TimePeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// ParsedQuery is the structured form of a natural-language search query.
// It lives for the duration of a single search.
type ParsedQuery struct {
	Location     string
	LocationHint string
	TimePeriod   *TimePeriod
	Labels       []string
	People       []string
	IsSelfPhotos bool
	MediaType    MediaType
	Activity     string
	Limit        int // Zero means "use the default limit"
	RawTerms     string
}

// isAbsent treats empty strings and the literal "null" as missing values.
// Completion services sometimes emit null as a quoted string.
func isAbsent(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "null")
}

// presentValues drops absent entries from a list.
func presentValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !isAbsent(v) {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}

// HasLocation reports whether a location filter was requested.
func (q *ParsedQuery) HasLocation() bool {
	return !isAbsent(q.Location)
}

// HasLabels reports whether at least one usable label was requested.
func (q *ParsedQuery) HasLabels() bool {
	return len(presentValues(q.Labels)) > 0
}

// HasTimePeriod reports whether a date filter was requested.
func (q *ParsedQuery) HasTimePeriod() bool {
	return q.TimePeriod != nil && !q.TimePeriod.Start.IsZero() && !q.TimePeriod.End.IsZero()
}

// HasPeople reports whether at least one usable person name was requested.
func (q *ParsedQuery) HasPeople() bool {
	return len(presentValues(q.People)) > 0
}

// HasActivity reports whether a video activity was requested.
func (q *ParsedQuery) HasActivity() bool {
	return !isAbsent(q.Activity)
}

// HasContentFilter reports whether any content filter (location, labels, date) was requested.
func (q *ParsedQuery) HasContentFilter() bool {
	return q.HasLocation() || q.HasLabels() || q.HasTimePeriod()
}

// CleanLabels returns the requested labels without absent entries.
func (q *ParsedQuery) CleanLabels() []string {
	return presentValues(q.Labels)
}

// CleanPeople returns the requested people without absent entries.
func (q *ParsedQuery) CleanPeople() []string {
	return presentValues(q.People)
}
