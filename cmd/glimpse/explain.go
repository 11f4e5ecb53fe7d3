package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/search"
)

// explainMonitor prints the parsed query and the candidate count after each stage.
type explainMonitor struct {
	w     io.Writer
	start time.Time
}

var _ search.SearchMonitor = (*explainMonitor)(nil)

func (m *explainMonitor) Start(searchID, query string) {
	m.start = time.Now()
	fmt.Fprintf(m.w, "search %s: %q\n", searchID, query)
}

func (m *explainMonitor) AfterParse(q *core.ParsedQuery) {
	fmt.Fprint(m.w, formatQuery(q))
}

func (m *explainMonitor) BeforeStage(search.Stage, search.Candidates) {}

func (m *explainMonitor) AfterStage(stage search.Stage, c search.Candidates) {
	count := "all"
	if c.IsConstrained() {
		count = fmt.Sprint(c.Len())
	}
	fmt.Fprintf(m.w, "  %-10s -> %s candidates\n", stage, count)
}

func (m *explainMonitor) SkippedStage(stage search.Stage, reason string) {
	fmt.Fprintf(m.w, "  %-10s skipped: %s\n", stage, reason)
}

func (m *explainMonitor) Finish(ids []core.AssetID) {
	fmt.Fprintf(m.w, "%d results in %s\n", len(ids), time.Since(m.start).Round(time.Millisecond))
}

// formatQuery renders the fields of q that are set, one per line.
func formatQuery(q *core.ParsedQuery) string {
	var b strings.Builder
	field := func(name, value string) {
		fmt.Fprintf(&b, "  %-10s %s\n", name+":", value)
	}
	if q.Location != "" {
		field("location", q.Location)
	}
	if q.LocationHint != "" {
		field("hint", q.LocationHint)
	}
	if q.TimePeriod != nil {
		field("period", q.TimePeriod.Start.Format(time.DateOnly)+" .. "+q.TimePeriod.End.Format(time.DateOnly))
	}
	if len(q.Labels) > 0 {
		field("labels", strings.Join(q.Labels, ", "))
	}
	if len(q.People) > 0 {
		field("people", strings.Join(q.People, ", "))
	}
	if q.IsSelfPhotos {
		field("self", "yes")
	}
	if q.MediaType != core.MediaTypeAll {
		field("type", q.MediaType.String())
	}
	if q.Activity != "" {
		field("activity", q.Activity)
	}
	if q.Limit > 0 {
		field("limit", fmt.Sprint(q.Limit))
	}
	if b.Len() == 0 {
		field("terms", q.RawTerms)
	}
	return b.String()
}
