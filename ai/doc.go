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


// Package ai provides abstractions for the model-backed services glimpse uses.
//
// The indices and the query parser depend on these interfaces rather than on
// concrete clients:
//
//   - ChatService: single-turn chat completion, optionally in JSON mode
//   - VisualClassifier: labels with confidences for a still image
//   - SpeechTranscriber: speech to text for a short audio clip
//   - Geocoder: place name to coordinate
//   - AIProvider: aggregates the chat, vision and speech services
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible chat, vision and transcription services
//   - ai/nominatim: OpenStreetMap geocoder
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors return interface types. Mock constructors return
// concrete types so tests can inject behavior and inspect call counts.
//
// # Model Reply Helpers
//
// CleanJSON and DecodeJSON tolerate code fences, surrounding prose and
// unquoted keys in JSON replies. FormatNumbered and ParseSelection implement
// the numbered-selection contract: the prompt lists candidates as "1. ...",
// and the model answers with comma-separated numbers or "none".
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	labels, err := provider.Classifier().Classify(ctx, ai.Image{MIMEType: "image/jpeg", Data: thumb})
package ai
