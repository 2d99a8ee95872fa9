package agent

import "encoding/json"

// ContentPart is one element of the canonical multi-part user message sent
// to the runtime: either plain text or an inline image carried as a data URI.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference the way the runtime's message schema
// expects it.
type ImageURL struct {
	URL string `json:"url"`
}

// NewTextPart builds a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// NewImagePart builds an image content part from an inline data URI.
func NewImagePart(dataURI string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: dataURI}}
}

// RunChunk is one element of the streamed run response. The runtime streams
// full state snapshots, so each chunk supersedes the previous one and only
// the terminal chunk is meaningful.
type RunChunk json.RawMessage

// runMessage is a single turn inside a run's input.
type runMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// runInput wraps the canonical message as the runtime's run input.
type runInput struct {
	Messages []runMessage `json:"messages"`
}

// streamRunRequest is the wire payload for a streaming run creation. The
// control flags are fixed: auto-create the thread, interrupt any run already
// in flight on it (at most one active turn per conversation), and stream
// full-state snapshots.
type streamRunRequest struct {
	AssistantID       string         `json:"assistant_id"`
	Input             runInput       `json:"input"`
	Config            map[string]any `json:"config"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	MultitaskStrategy string         `json:"multitask_strategy"`
	IfNotExists       string         `json:"if_not_exists"`
	StreamMode        []string       `json:"stream_mode"`
}
