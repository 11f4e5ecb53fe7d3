package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "/photos/2024/greece/IMG_0001.jpg",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %s vs %s", id1, id2)
			}
			if len(id1) != 16 {
				t.Errorf("IDFromContent() = %q, want 16 hex characters", id1)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("/photos/a.jpg")
	id2 := IDFromContent("/photos/b.jpg")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestMediaType_RoundTrip(t *testing.T) {
	for _, mt := range []MediaType{MediaTypeAll, MediaTypePhoto, MediaTypeVideo} {
		if got := ParseMediaType(mt.String()); got != mt {
			t.Errorf("ParseMediaType(%q) = %v, want %v", mt.String(), got, mt)
		}
	}
	if got := ParseMediaType("clips"); got != MediaTypeVideo {
		t.Errorf("ParseMediaType(clips) = %v, want video", got)
	}
	if got := ParseMediaType("hologram"); got != MediaTypeAll {
		t.Errorf("ParseMediaType(hologram) = %v, want all", got)
	}
}

func TestIDSet_Operations(t *testing.T) {
	a := NewIDSet("1", "2", "3")
	b := NewIDSet("2", "3", "4")

	inter := a.Intersect(b)
	if len(inter) != 2 || !inter.Contains("2") || !inter.Contains("3") {
		t.Errorf("Intersect() = %v", inter.Sorted())
	}

	union := a.Union(b)
	if len(union) != 4 {
		t.Errorf("Union() = %v", union.Sorted())
	}

	clone := a.Clone()
	clone.Add("9")
	if a.Contains("9") {
		t.Errorf("Clone() shares storage with original")
	}

	sorted := union.Sorted()
	want := []AssetID{"1", "2", "3", "4"}
	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", sorted, want)
		}
	}
}

func TestParsedQuery_NullStrings(t *testing.T) {
	q := ParsedQuery{
		Location: "NULL",
		Labels:   []string{"null", " "},
		People:   []string{"Null"},
		Activity: "null",
	}

	if q.HasLocation() {
		t.Error("HasLocation() should treat \"NULL\" as absent")
	}
	if q.HasLabels() {
		t.Error("HasLabels() should ignore null labels")
	}
	if q.HasPeople() {
		t.Error("HasPeople() should ignore null names")
	}
	if q.HasActivity() {
		t.Error("HasActivity() should treat \"null\" as absent")
	}
	if q.HasTimePeriod() {
		t.Error("HasTimePeriod() should be false without a period")
	}
	if q.HasContentFilter() {
		t.Error("HasContentFilter() should be false")
	}
}

func TestParsedQuery_Present(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	q := ParsedQuery{
		Location:   "Greece",
		Labels:     []string{"beach", "null"},
		TimePeriod: &TimePeriod{Start: start, End: start.AddDate(0, 3, 0)},
	}

	if !q.HasLocation() || !q.HasLabels() || !q.HasTimePeriod() {
		t.Fatalf("expected location, labels and time period to be present: %+v", q)
	}
	if got := q.CleanLabels(); len(got) != 1 || got[0] != "beach" {
		t.Errorf("CleanLabels() = %v", got)
	}
	if !q.TimePeriod.Contains(start.AddDate(0, 1, 0)) {
		t.Error("Contains() should include a date inside the period")
	}
	if q.TimePeriod.Contains(start.AddDate(1, 0, 0)) {
		t.Error("Contains() should exclude a date after the period")
	}
}
