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


package ingestion

import "errors"

var (
	// ErrAssetRepositoryRequired is returned when an asset repository is not provided.
	ErrAssetRepositoryRequired = errors.New("asset repository required")

	// ErrScannerRequired is returned when a media scanner is not provided.
	ErrScannerRequired = errors.New("media scanner required")

	// ErrPipelineRequired is returned when a watcher has no pipeline.
	ErrPipelineRequired = errors.New("pipeline required")

	// ErrPipelineReleased is returned when work is scheduled after Release.
	ErrPipelineReleased = errors.New("pipeline released")
)
