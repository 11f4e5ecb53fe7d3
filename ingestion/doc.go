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


// Package ingestion brings media into the library and keeps the indices
// current.
//
// The Pipeline type manages the import workflow:
//   - Scanning a directory tree into assets
//   - Storing assets in the Asset Store
//   - Building every index incrementally, in the background on a worker pool
//
// The Watcher follows a directory with fsnotify, imports new and changed
// files after a quiet period and schedules a build. Build failures of one
// index are logged and reported without stopping the others.
package ingestion
