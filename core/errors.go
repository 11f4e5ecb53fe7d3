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


package core

import "errors"

// Domain errors
var (
	// ErrLocationNotFound indicates every location resolution strategy was exhausted.
	ErrLocationNotFound = errors.New("location not found")

	// ErrNotAVideo indicates video analysis was requested for a non-video asset.
	ErrNotAVideo = errors.New("asset is not a video")

	// ErrCouldNotLoadVideo indicates the video could not be opened or has no usable duration.
	ErrCouldNotLoadVideo = errors.New("could not load video")

	// ErrFrameExtractionFailed indicates no frame could be extracted from a video.
	ErrFrameExtractionFailed = errors.New("frame extraction failed")

	// ErrParseFailure indicates a completion response could not be decoded.
	ErrParseFailure = errors.New("query parse failure")

	// ErrPersistenceFailure indicates an index snapshot could not be saved or loaded.
	ErrPersistenceFailure = errors.New("index persistence failure")

	// ErrSkipAsset marks an asset that should be recorded as processed without indexing it.
	ErrSkipAsset = errors.New("asset skipped")
)

// Validation errors
var (
	// ErrInvalidAsset indicates an Asset failed validation.
	ErrInvalidAsset = errors.New("invalid asset")

	// ErrEmptyAssetID indicates the ID field is empty.
	ErrEmptyAssetID = errors.New("asset id cannot be empty")

	// ErrInvalidCoordinate indicates a latitude or longitude is out of range.
	ErrInvalidCoordinate = errors.New("coordinate out of range")

	// ErrInvalidMediaType indicates a stored asset claims MediaTypeAll.
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrInvalidDuration indicates a negative duration.
	ErrInvalidDuration = errors.New("duration cannot be negative")
)
