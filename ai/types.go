package ai

// ChatRequest is a single-turn chat prompt.
type ChatRequest struct {
	// System is the optional system prompt.
	System string

	// Prompt is the user message.
	Prompt string

	// Images are attached to the user message, in order.
	Images []Image

	// JSON asks the model for a JSON object reply.
	JSON bool

	// MaxTokens caps the reply length. Zero leaves the model default.
	MaxTokens int
}

// Image is an encoded still image, typically a JPEG thumbnail or frame.
type Image struct {
	MIMEType string
	Data     []byte
}

// Audio is an encoded audio clip.
type Audio struct {
	MIMEType string
	Data     []byte
}

// Label is a single classifier result.
type Label struct {
	// Name is the label as the classifier reported it.
	Name string

	// Confidence is in [0, 1].
	Confidence float64
}

// Transcript is the result of speech transcription.
type Transcript struct {
	Text     string
	Language string
}
