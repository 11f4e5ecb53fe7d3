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


// Package vocab holds the static vocabulary shared by the indices and the
// query parser: label synonyms, concept expansions, activity phrases and
// stop words.
//
// The tables are read-only after package initialization. Bump Version
// whenever a table changes in a way that alters normalized index keys, so
// stale snapshots can be detected and rebuilt.
package vocab

// Version identifies the revision of the tables below.
const Version = 3

// LabelSynonyms maps raw classifier or query labels onto a canonical label.
// Labels that do not appear here are used unchanged.
var LabelSynonyms = map[string]string{
	"seashore":     "beach",
	"coast":        "beach",
	"coastline":    "beach",
	"ocean":        "beach",
	"sea":          "beach",
	"shore":        "beach",
	"seaside":      "beach",
	"sand":         "beach",
	"sunrise":      "sunset",
	"dusk":         "sunset",
	"dawn":         "sunset",
	"sundown":      "sunset",
	"twilight":     "sunset",
	"puppy":        "dog",
	"canine":       "dog",
	"kitten":       "cat",
	"kitty":        "cat",
	"feline":       "cat",
	"automobile":   "car",
	"vehicle":      "car",
	"peak":         "mountain",
	"hill":         "mountain",
	"alps":         "mountain",
	"blossom":      "flower",
	"bloom":        "flower",
	"meal":         "food",
	"dish":         "food",
	"cuisine":      "food",
	"forest":       "tree",
	"woods":        "tree",
	"cityscape":    "city",
	"skyline":      "city",
	"downtown":     "city",
	"snowfall":     "snow",
	"snowy":        "snow",
	"infant":       "baby",
	"toddler":      "baby",
	"celebration":  "party",
	"birthday":     "party",
	"lake":         "water",
	"river":        "water",
	"waterfall":    "water",
	"selfie":       "portrait",
	"headshot":     "portrait",
	"face":         "portrait",
	"screenshot":   "screen",
	"monitor":      "screen",
	"display":      "screen",
	"dessert":      "cake",
	"cupcake":      "cake",
	"firework":     "fireworks",
	"pool":         "swimming pool",
	"bike":         "bicycle",
	"cycle":        "bicycle",
	"guitarist":    "guitar",
	"footballer":   "soccer",
	"football":     "soccer",
	"hiking trail": "trail",
}

// ConceptLabels expands high-level query concepts into concrete classifier vocabulary.
// Expansion is a query-side step and never runs inside an index lookup.
var ConceptLabels = map[string][]string{
	"outdoor":   {"sky", "tree", "mountain", "beach", "grass", "outdoor"},
	"outdoors":  {"sky", "tree", "mountain", "beach", "grass", "outdoor"},
	"nature":    {"tree", "mountain", "flower", "water", "grass", "sky"},
	"travel":    {"beach", "mountain", "city", "landmark", "airport", "monument"},
	"vacation":  {"beach", "mountain", "swimming pool", "landmark", "hotel"},
	"holiday":   {"beach", "mountain", "swimming pool", "landmark", "hotel"},
	"food":      {"food", "cake", "pizza", "drink", "restaurant"},
	"pets":      {"dog", "cat"},
	"pet":       {"dog", "cat"},
	"animals":   {"dog", "cat", "bird", "horse", "animal"},
	"party":     {"party", "cake", "balloon", "fireworks"},
	"winter":    {"snow", "ice", "ski"},
	"summer":    {"beach", "swimming pool", "sunset"},
	"sports":    {"soccer", "basketball", "tennis", "bicycle", "ski"},
	"night":     {"night", "fireworks", "city"},
	"wedding":   {"wedding", "bride", "dress", "cake"},
	"landscape": {"mountain", "sky", "water", "tree"},
	"indoor":    {"room", "furniture", "table", "indoor"},
}

// ActivityPhrases are multi-word activities matched verbatim in video summaries and transcripts.
var ActivityPhrases = []string{
	"jumping rope",
	"jump rope",
	"skipping rope",
	"playing guitar",
	"playing piano",
	"playing drums",
	"playing soccer",
	"playing basketball",
	"playing tennis",
	"playing fetch",
	"riding a bike",
	"riding a bicycle",
	"riding a horse",
	"cooking",
	"baking",
	"dancing",
	"singing",
	"swimming",
	"surfing",
	"skiing",
	"snowboarding",
	"skateboarding",
	"running",
	"hiking",
	"climbing",
	"yoga",
	"cycling",
	"blowing out candles",
	"opening presents",
	"unboxing",
	"eating",
	"drinking",
	"walking the dog",
	"building a sandcastle",
	"playing in the snow",
	"first steps",
	"crawling",
	"laughing",
	"juggling",
	"push ups",
	"lifting weights",
}

// ActivitySynonyms groups interchangeable activity descriptions.
// A query matching any member of a group expands to the whole group.
var ActivitySynonyms = [][]string{
	{"jump rope", "jumping rope", "skipping rope", "rope jumping", "skipping"},
	{"guitar", "playing guitar", "strumming"},
	{"piano", "playing piano", "keyboard"},
	{"bike", "biking", "cycling", "riding a bike", "riding a bicycle", "bicycle"},
	{"swim", "swimming", "pool"},
	{"run", "running", "jogging", "sprint"},
	{"dance", "dancing"},
	{"sing", "singing", "karaoke"},
	{"cook", "cooking", "baking", "kitchen"},
	{"ski", "skiing", "snowboarding"},
	{"hike", "hiking", "trail", "trekking"},
	{"birthday", "blowing out candles", "birthday cake"},
	{"soccer", "football", "playing soccer"},
	{"weights", "lifting weights", "gym", "workout", "exercise"},
	{"walk", "walking", "walking the dog", "stroll"},
	{"baby", "first steps", "crawling", "toddler"},
}

// StopWords are dropped when tokenizing summaries, transcripts and queries.
var StopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "in": true,
	"that": true, "have": true, "has": true, "had": true, "it": true, "its": true,
	"for": true, "not": true, "on": true, "with": true, "as": true, "you": true,
	"do": true, "at": true, "this": true, "but": true, "by": true, "from": true,
	"they": true, "their": true, "there": true, "then": true, "them": true,
	"what": true, "which": true, "who": true, "when": true, "where": true,
	"while": true, "into": true, "onto": true, "over": true, "some": true,
	"just": true, "like": true, "very": true, "really": true, "about": true,
	"also": true, "been": true, "being": true, "can": true, "could": true,
	"would": true, "should": true, "will": true, "shall": true, "yeah": true,
	"okay": true, "video": true, "shows": true, "showing": true, "appears": true,
	"seems": true, "scene": true, "person": true, "someone": true, "something": true,
	"here": true, "these": true, "those": true, "your": true, "our": true,
	"my": true, "me": true, "we": true, "i": true, "he": true, "she": true,
	"his": true, "her": true, "him": true, "us": true, "or": true, "so": true,
	"if": true, "no": true, "yes": true, "all": true, "any": true, "out": true,
	"up": true, "down": true, "off": true, "one": true, "two": true, "more": true,
	"most": true, "other": true, "such": true, "only": true, "own": true,
	"same": true, "than": true, "too": true, "now": true, "again": true,
}

// ScreenLabels mark frames that look like screen content rather than camera footage.
var ScreenLabels = map[string]bool{
	"screen":         true,
	"screenshot":     true,
	"text":           true,
	"document":       true,
	"web site":       true,
	"website":        true,
	"font":           true,
	"software":       true,
	"menu":           true,
	"user interface": true,
}

// PersonLabels mark frames that contain people.
var PersonLabels = map[string]bool{
	"person":   true,
	"people":   true,
	"face":     true,
	"portrait": true,
	"man":      true,
	"woman":    true,
	"child":    true,
	"baby":     true,
	"crowd":    true,
	"selfie":   true,
}
