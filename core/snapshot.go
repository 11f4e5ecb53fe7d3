package core

// Index snapshots are encoded from these records. Maps are flattened into
// key-sorted lists so equal index state always encodes to equal bytes.

// Posting is one key of an inverted index.
type Posting struct {
	Key string
	IDs []AssetID
}

// AssetHash pairs an asset with its full precision geohash.
type AssetHash struct {
	ID   AssetID
	Hash string
}

// AssetLabelList pairs an asset with its raw classifier labels.
type AssetLabelList struct {
	ID     AssetID
	Labels []string
}

// GeoSnapshotRecord is the encoded state of the spatial index.
type GeoSnapshotRecord struct {
	Precision int
	Cells     []Posting
	Hashes    []AssetHash
	Indexed   []AssetID
}

// LabelSnapshotRecord is the encoded state of the visual label index.
type LabelSnapshotRecord struct {
	VocabVersion int
	Labels       []Posting
	AssetLabels  []AssetLabelList
	Indexed      []AssetID
}

// ActivitySnapshotRecord is the encoded state of the video activity index.
type ActivitySnapshotRecord struct {
	VocabVersion int
	Records      []ActivityRecord
	Keywords     []Posting
	VideoLabels  []Posting
	Indexed      []AssetID
}
