package storage

import (
	"maps"
	"slices"
	"strings"

	"github.com/poiesic/glimpse/core"
)

func toPostings(m map[string][]core.AssetID) []core.Posting {
	out := make([]core.Posting, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, core.Posting{Key: k, IDs: sortedIDs(m[k])})
	}
	return out
}

func fromPostings(postings []core.Posting) map[string][]core.AssetID {
	out := make(map[string][]core.AssetID, len(postings))
	for _, p := range postings {
		out[p.Key] = orNil(p.IDs)
	}
	return out
}

func sortedIDs(ids []core.AssetID) []core.AssetID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

func (s *GeoSnapshot) record() core.GeoSnapshotRecord {
	rec := core.GeoSnapshotRecord{
		Precision: s.Precision,
		Cells:     toPostings(s.Cells),
		Hashes:    make([]core.AssetHash, 0, len(s.Hashes)),
		Indexed:   sortedIDs(s.Indexed),
	}
	for _, id := range slices.Sorted(maps.Keys(s.Hashes)) {
		rec.Hashes = append(rec.Hashes, core.AssetHash{ID: id, Hash: s.Hashes[id]})
	}
	return rec
}

func geoSnapshot(r core.GeoSnapshotRecord) *GeoSnapshot {
	snap := &GeoSnapshot{
		Precision: r.Precision,
		Cells:     fromPostings(r.Cells),
		Hashes:    make(map[core.AssetID]string, len(r.Hashes)),
		Indexed:   orNil(r.Indexed),
	}
	for _, h := range r.Hashes {
		snap.Hashes[h.ID] = h.Hash
	}
	return snap
}

func (s *LabelSnapshot) record() core.LabelSnapshotRecord {
	rec := core.LabelSnapshotRecord{
		VocabVersion: s.VocabVersion,
		Labels:       toPostings(s.Labels),
		AssetLabels:  make([]core.AssetLabelList, 0, len(s.AssetLabels)),
		Indexed:      sortedIDs(s.Indexed),
	}
	for _, id := range slices.Sorted(maps.Keys(s.AssetLabels)) {
		rec.AssetLabels = append(rec.AssetLabels, core.AssetLabelList{ID: id, Labels: s.AssetLabels[id]})
	}
	return rec
}

func labelSnapshot(r core.LabelSnapshotRecord) *LabelSnapshot {
	snap := &LabelSnapshot{
		VocabVersion: r.VocabVersion,
		Labels:       fromPostings(r.Labels),
		AssetLabels:  make(map[core.AssetID][]string, len(r.AssetLabels)),
		Indexed:      orNil(r.Indexed),
	}
	for _, l := range r.AssetLabels {
		snap.AssetLabels[l.ID] = orNil(l.Labels)
	}
	return snap
}

// Records are written in asset ID order.
func (s *ActivitySnapshot) record() core.ActivitySnapshotRecord {
	rec := core.ActivitySnapshotRecord{
		VocabVersion: s.VocabVersion,
		Records:      make([]core.ActivityRecord, 0, len(s.Records)),
		Keywords:     toPostings(s.Keywords),
		VideoLabels:  toPostings(s.VideoLabels),
		Indexed:      sortedIDs(s.Indexed),
	}
	for _, r := range s.Records {
		rec.Records = append(rec.Records, *r)
	}
	slices.SortFunc(rec.Records, func(a, b core.ActivityRecord) int {
		return strings.Compare(string(a.AssetID), string(b.AssetID))
	})
	return rec
}

func activitySnapshot(r core.ActivitySnapshotRecord) *ActivitySnapshot {
	snap := &ActivitySnapshot{
		VocabVersion: r.VocabVersion,
		Records:      make([]*core.ActivityRecord, len(r.Records)),
		Keywords:     fromPostings(r.Keywords),
		VideoLabels:  fromPostings(r.VideoLabels),
		Indexed:      orNil(r.Indexed),
	}
	for i := range r.Records {
		rec := &r.Records[i]
		normalizeActivityRecord(rec)
		snap.Records[i] = rec
	}
	return snap
}

func normalizeActivityRecord(rec *core.ActivityRecord) {
	rec.Keywords = orNil(rec.Keywords)
	rec.VisualLabels = orNil(rec.VisualLabels)
	rec.IndexedAt = utc(rec.IndexedAt)
}
