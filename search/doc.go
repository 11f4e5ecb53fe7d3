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

// Package search answers natural-language queries over the media library.
//
// A Searcher parses the request into a core.ParsedQuery and narrows a
// candidate set through a fixed sequence of stages: location, labels, date,
// people, self-photos, media type and video activity. Every stage either
// intersects the running set with its matches or is skipped. Candidates
// distinguishes "no constraint yet" from "constrained to nothing"; an empty
// constrained set is absorbing and ends the search early.
//
// Results carry no score. They are ordered by creation date, newest first,
// and capped at the requested or default limit.
package search
