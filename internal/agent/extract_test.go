package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReply_LastMessageContent(t *testing.T) {
	t.Parallel()
	chunk := RunChunk(`{"messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello there"}]}`)
	assert.Equal(t, "hello there", ExtractReply(chunk))
}

func TestExtractReply_LastMessageWithoutAssistant(t *testing.T) {
	t.Parallel()
	// No assistant message at all: falls back to the last message's content.
	chunk := RunChunk(`{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, "hi", ExtractReply(chunk))
}

func TestExtractReply_BareString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ok", ExtractReply(RunChunk(`"ok"`)))
}

func TestExtractReply_ContentField(t *testing.T) {
	t.Parallel()
	chunk := RunChunk(`{"content":"direct content"}`)
	assert.Equal(t, "direct content", ExtractReply(chunk))
}

func TestExtractReply_OutputField(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "plain output", ExtractReply(RunChunk(`{"output":"plain output"}`)))
	assert.Equal(t, "wrapped output", ExtractReply(RunChunk(`{"output":{"content":"wrapped output"}}`)))
}

func TestExtractReply_ResponseField(t *testing.T) {
	t.Parallel()
	chunk := RunChunk(`{"response":"from response"}`)
	assert.Equal(t, "from response", ExtractReply(chunk))
}

func TestExtractReply_AssistantScan(t *testing.T) {
	t.Parallel()
	// The trailing tool message carries no content at all, so the ladder
	// reaches the reverse assistant scan.
	chunk := RunChunk(`{"messages":[
		{"role":"assistant","content":"first answer"},
		{"role":"assistant","content":"latest answer"},
		{"role":"tool"}
	]}`)
	assert.Equal(t, "latest answer", ExtractReply(chunk))
}

func TestExtractReply_EmptyStringContent(t *testing.T) {
	t.Parallel()
	// An empty string on the last message is a deliberate empty reply, not
	// an unknown shape: the raw payload must never reach the user.
	chunk := RunChunk(`{"messages":[{"role":"assistant","content":""}]}`)
	assert.Equal(t, "", ExtractReply(chunk))
}

func TestExtractReply_AlternateKeys(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "alt text", ExtractReply(RunChunk(`{"text":"alt text"}`)))
	assert.Equal(t, "alt reply", ExtractReply(RunChunk(`{"reply":"alt reply"}`)))
	assert.Equal(t, "alt answer", ExtractReply(RunChunk(`{"answer":"alt answer"}`)))
	// Non-string alternates are returned in raw form rather than dropped.
	assert.Equal(t, "42", ExtractReply(RunChunk(`{"message":42}`)))
}

func TestExtractReply_PartListContent(t *testing.T) {
	t.Parallel()
	chunk := RunChunk(`{"messages":[{"role":"assistant","content":[{"type":"text","text":"part one"},{"type":"text","text":"part two"}]}]}`)
	assert.Equal(t, "part one\npart two", ExtractReply(chunk))
}

func TestExtractReply_FallbackDump(t *testing.T) {
	t.Parallel()
	raw := `{"unknown_field":{"nested":true}}`
	assert.Equal(t, raw, ExtractReply(RunChunk(raw)))
}

func TestExtractReply_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", ExtractReply(nil))
	assert.Equal(t, "", ExtractReply(RunChunk("  ")))
}
