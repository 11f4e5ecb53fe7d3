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


package storage

import (
	"github.com/poiesic/glimpse/core"
)

// SnapshotVersion is the leading format version of every index snapshot.
const SnapshotVersion = 1

// Snapshot blob keys, one per index.
const (
	GeoSnapshotKey      = "snapshot:geo"
	LabelSnapshotKey    = "snapshot:labels"
	ActivitySnapshotKey = "snapshot:activity"
)

// GeoSnapshot is the persisted state of the spatial index.
type GeoSnapshot struct {
	Precision int
	Cells     map[string][]core.AssetID // geohash prefix -> assets
	Hashes    map[core.AssetID]string   // asset -> full precision geohash
	Indexed   []core.AssetID
}

// LabelSnapshot is the persisted state of the visual label index.
type LabelSnapshot struct {
	VocabVersion int
	Labels       map[string][]core.AssetID // normalized label -> assets
	AssetLabels  map[core.AssetID][]string // raw labels in classifier order
	Indexed      []core.AssetID
}

// ActivitySnapshot is the persisted state of the video activity index.
type ActivitySnapshot struct {
	VocabVersion int
	Records      []*core.ActivityRecord
	Keywords     map[string][]core.AssetID // keyword -> videos
	VideoLabels  map[string][]core.AssetID // normalized label -> videos
	Indexed      []core.AssetID
}

// MarshalAsset serializes an Asset to bytes.
func MarshalAsset(asset *core.Asset) []byte {
	return marshal(core.AssetMUS, *asset)
}

// UnmarshalAsset deserializes an Asset from bytes.
func UnmarshalAsset(data []byte) (*core.Asset, error) {
	asset, err := unmarshal(core.AssetMUS, data)
	if err != nil {
		return nil, err
	}
	asset.CreatedAt = utc(asset.CreatedAt)
	asset.InsertedAt = utc(asset.InsertedAt)
	asset.UpdatedAt = utc(asset.UpdatedAt)
	asset.People = orNil(asset.People)
	return &asset, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	return marshal(core.CheckpointMUS, *checkpoint)
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	checkpoint, err := unmarshal(core.CheckpointMUS, data)
	if err != nil {
		return nil, err
	}
	checkpoint.UpdatedAt = utc(checkpoint.UpdatedAt)
	return &checkpoint, nil
}

// MarshalGeoSnapshot serializes the spatial index state.
func MarshalGeoSnapshot(snap *GeoSnapshot) []byte {
	return marshalVersioned(core.GeoSnapshotRecordMUS, snap.record())
}

// UnmarshalGeoSnapshot deserializes the spatial index state.
func UnmarshalGeoSnapshot(data []byte) (*GeoSnapshot, error) {
	rec, err := unmarshalVersioned(core.GeoSnapshotRecordMUS, data)
	if err != nil {
		return nil, err
	}
	return geoSnapshot(rec), nil
}

// MarshalLabelSnapshot serializes the visual label index state.
func MarshalLabelSnapshot(snap *LabelSnapshot) []byte {
	return marshalVersioned(core.LabelSnapshotRecordMUS, snap.record())
}

// UnmarshalLabelSnapshot deserializes the visual label index state.
func UnmarshalLabelSnapshot(data []byte) (*LabelSnapshot, error) {
	rec, err := unmarshalVersioned(core.LabelSnapshotRecordMUS, data)
	if err != nil {
		return nil, err
	}
	return labelSnapshot(rec), nil
}

// MarshalActivitySnapshot serializes the video activity index state.
func MarshalActivitySnapshot(snap *ActivitySnapshot) []byte {
	return marshalVersioned(core.ActivitySnapshotRecordMUS, snap.record())
}

// UnmarshalActivitySnapshot deserializes the video activity index state.
func UnmarshalActivitySnapshot(data []byte) (*ActivitySnapshot, error) {
	rec, err := unmarshalVersioned(core.ActivitySnapshotRecordMUS, data)
	if err != nil {
		return nil, err
	}
	return activitySnapshot(rec), nil
}
