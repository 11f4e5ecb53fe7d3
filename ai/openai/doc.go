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


// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// The chat service and the visual classifier use the langchaingo library to
// talk to OpenAI or OpenAI-compatible services (Ollama, LocalAI, vLLM). The
// classifier sends the image as a binary content part to a vision model and
// asks for JSON labels with confidences. The speech transcriber posts audio to
// the /audio/transcriptions endpoint, which langchaingo does not wrap.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithVisionModel("qwen2.5vl:7b"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	reply, err := provider.Chat().Complete(ctx, ai.ChatRequest{Prompt: "Where is Knossos?"})
package openai
