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


// Package storage provides the storage abstraction layer for glimpse.
//
// This package defines repository interfaces that decouple storage implementation
// from the indices and the search orchestrator:
//
//   - AssetRepository: the Asset Store (metadata plus date/media/people/selfie filters)
//   - BlobStore: whole-value key/bytes persistence for index snapshots
//   - CheckpointRepository: last completed build per index
//
// It also owns the binary encoding of everything that is persisted. Assets,
// checkpoints and the three index snapshots are encoded with mus-go
// primitives; inverted maps are written with sorted keys and sorted ID lists
// so equal indices always encode to equal bytes.
//
// # Usage
//
// Open a BadgerDB-backed store:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	assets, err := badger.NewAssetRepository(backend)
//
// Use in tests with in-memory storage:
//
//	assets, blobs, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
