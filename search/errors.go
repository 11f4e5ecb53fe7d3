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

package search

import "errors"

var (
	// ErrAssetRepositoryRequired is returned when an asset repository is not provided.
	ErrAssetRepositoryRequired = errors.New("asset repository required")

	// ErrParserRequired is returned when a query parser is not provided.
	ErrParserRequired = errors.New("query parser required")

	// ErrGeoIndexRequired is returned when a spatial index is not provided.
	ErrGeoIndexRequired = errors.New("geo index required")

	// ErrLabelIndexRequired is returned when a label index is not provided.
	ErrLabelIndexRequired = errors.New("label index required")

	// ErrActivityIndexRequired is returned when an activity index is not provided.
	ErrActivityIndexRequired = errors.New("activity index required")

	// ErrInvalidOption is returned for out-of-range option values.
	ErrInvalidOption = errors.New("invalid search option")
)
