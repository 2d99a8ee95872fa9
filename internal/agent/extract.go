package agent

import (
	"bytes"
	"encoding/json"
	"strings"
)

// The runtime's reply shape is not contractually fixed and varies across
// deployments. ExtractReply walks an explicit ladder of known shapes instead
// of reflective probing, so each rung is testable. It never fails: the worst
// case is the stringified payload.

type chunkMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

var alternateContentKeys = []string{"text", "message", "reply", "answer"}

// ExtractReply produces a plain reply string from the terminal chunk.
// Probe order: messages[last].content, bare string payload, content, output
// (plain or {content}), response, the most recent assistant-authored message,
// a small set of alternate field names, then the raw payload as a string.
func ExtractReply(chunk RunChunk) string {
	raw := bytes.TrimSpace([]byte(chunk))
	if len(raw) == 0 {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		var bare string
		if err := json.Unmarshal(raw, &bare); err == nil {
			return bare
		}
		return string(raw)
	}

	var messages []chunkMessage
	if rawMessages, ok := payload["messages"]; ok {
		if err := json.Unmarshal(rawMessages, &messages); err != nil {
			messages = nil
		}
	}
	if len(messages) > 0 {
		last := messages[len(messages)-1].Content
		// A string content on the last message wins even when empty: the
		// runtime said "nothing", which is not the same as an unknown shape.
		var plain string
		if err := json.Unmarshal(last, &plain); err == nil {
			return plain
		}
		if text, ok := contentText(last); ok {
			return text
		}
	}

	if rawContent, ok := payload["content"]; ok {
		if text, ok := contentText(rawContent); ok {
			return text
		}
	}

	if rawOutput, ok := payload["output"]; ok {
		var plain string
		if err := json.Unmarshal(rawOutput, &plain); err == nil && plain != "" {
			return plain
		}
		var wrapped struct {
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(rawOutput, &wrapped); err == nil {
			if text, ok := contentText(wrapped.Content); ok {
				return text
			}
		}
	}

	if rawResponse, ok := payload["response"]; ok {
		var plain string
		if err := json.Unmarshal(rawResponse, &plain); err == nil && plain != "" {
			return plain
		}
	}

	for i := len(messages) - 1; i >= 0; i-- {
		if !isAssistantRole(messages[i].Role) {
			continue
		}
		if text, ok := contentText(messages[i].Content); ok {
			return text
		}
	}

	for _, key := range alternateContentKeys {
		rawAlt, ok := payload[key]
		if !ok {
			continue
		}
		if text, ok := contentText(rawAlt); ok {
			return text
		}
		return string(rawAlt)
	}

	return string(raw)
}

func isAssistantRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "assistant", "ai":
		return true
	default:
		return false
	}
}

// contentText extracts text from a message content value, which may be a
// plain string or a list of typed parts.
func contentText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		if strings.TrimSpace(plain) == "" {
			return "", false
		}
		return plain, true
	}
	var parts []ContentPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", false
	}
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part.Text) != "" {
			texts = append(texts, part.Text)
		}
	}
	if len(texts) == 0 {
		return "", false
	}
	return strings.Join(texts, "\n"), true
}
