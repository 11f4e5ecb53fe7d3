package core

import (
	"slices"
	"testing"
	"time"
)

func TestAssetMUS_Skip(t *testing.T) {
	first := Asset{
		ID:        "a1",
		Path:      "/photos/a1.jpg",
		CreatedAt: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
		Location:  &Coordinate{Latitude: 35.33, Longitude: 25.14},
		MediaType: MediaTypePhoto,
		People:    []string{"Anna"},
	}
	second := Asset{ID: "v1", MediaType: MediaTypeVideo, DurationSeconds: 9.5}

	bs := make([]byte, AssetMUS.Size(first)+AssetMUS.Size(second))
	n := AssetMUS.Marshal(first, bs)
	AssetMUS.Marshal(second, bs[n:])

	skipped, err := AssetMUS.Skip(bs)
	if err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if skipped != n {
		t.Errorf("Skip() = %d bytes, want %d", skipped, n)
	}

	got, _, err := AssetMUS.Unmarshal(bs[skipped:])
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.ID != "v1" || got.MediaType != MediaTypeVideo || got.Location != nil || got.DurationSeconds != 9.5 {
		t.Errorf("Unmarshal() = %+v, want the second asset", got)
	}
}

func TestActivitySnapshotRecordMUS(t *testing.T) {
	transcript := "one two three"
	rec := ActivitySnapshotRecord{
		VocabVersion: 2,
		Records: []ActivityRecord{
			{AssetID: "v1", ActivitySummary: "jumping rope", AudioTranscript: &transcript, Keywords: []string{"rope"}},
		},
		Keywords: []Posting{{Key: "rope", IDs: []AssetID{"v1"}}},
		Indexed:  []AssetID{"v1"},
	}

	bs := make([]byte, ActivitySnapshotRecordMUS.Size(rec))
	ActivitySnapshotRecordMUS.Marshal(rec, bs)
	got, n, err := ActivitySnapshotRecordMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if n != len(bs) {
		t.Errorf("Unmarshal() read %d bytes, want %d", n, len(bs))
	}
	if len(got.Records) != 1 || got.Records[0].Transcript() != transcript {
		t.Errorf("Records = %+v, want one record with transcript %q", got.Records, transcript)
	}
	if len(got.Keywords) != 1 || got.Keywords[0].Key != "rope" || !slices.Equal(got.Keywords[0].IDs, []AssetID{"v1"}) {
		t.Errorf("Keywords = %+v", got.Keywords)
	}

	if _, _, err := ActivitySnapshotRecordMUS.Unmarshal(bs[:len(bs)-2]); err == nil {
		t.Error("Unmarshal() of truncated data succeeded")
	}
}
