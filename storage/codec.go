package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/varint"
)

func marshal[T any](ser mus.Serializer[T], v T) []byte {
	bs := make([]byte, ser.Size(v))
	ser.Marshal(v, bs)
	return bs
}

func unmarshal[T any](ser mus.Serializer[T], data []byte) (v T, err error) {
	v, _, err = ser.Unmarshal(data)
	if err != nil {
		return v, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return v, nil
}

// marshalVersioned writes SnapshotVersion ahead of v.
func marshalVersioned[T any](ser mus.Serializer[T], v T) []byte {
	bs := make([]byte, varint.Int.Size(SnapshotVersion)+ser.Size(v))
	n := varint.Int.Marshal(SnapshotVersion, bs)
	ser.Marshal(v, bs[n:])
	return bs
}

func unmarshalVersioned[T any](ser mus.Serializer[T], data []byte) (v T, err error) {
	version, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return v, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if version != SnapshotVersion {
		return v, fmt.Errorf("%w: %w: %d", ErrSerializationFailed, ErrUnsupportedVersion, version)
	}
	return unmarshal(ser, data[n:])
}

// Stored times are Unix microseconds and come back in UTC.
func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC()
}

// orNil maps a decoded empty list back to nil.
func orNil[S ~[]E, E any](s S) S {
	if len(s) == 0 {
		return nil
	}
	return s
}
