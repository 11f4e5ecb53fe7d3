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

import "errors"

var (
	// ErrNotFound is returned when no asset or blob exists under the requested key.
	ErrNotFound = errors.New("record not found")

	// ErrStorageClosed is returned once the Badger backend has been closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrInvalidQuery is returned for an inverted date range.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrInvalidKey is returned for an empty index or blob name.
	ErrInvalidKey = errors.New("invalid key")

	// ErrSerializationFailed wraps every decoding failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrUnsupportedVersion indicates a snapshot written by an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)
