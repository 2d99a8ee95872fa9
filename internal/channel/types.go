package channel

import (
	"strings"
	"time"
)

// ChannelType identifies a messaging provider integration.
type ChannelType string

func (t ChannelType) String() string {
	return string(t)
}

func normalizeChannelType(raw string) ChannelType {
	return ChannelType(strings.ToLower(strings.TrimSpace(raw)))
}

// Descriptor describes a registered channel.
type Descriptor struct {
	Type        ChannelType `json:"type"`
	DisplayName string      `json:"display_name"`
}

// MediaRef is one attachment descriptor on an inbound callback: where to
// fetch the bytes and what the provider claims they are. The declared
// content type may be absent or wrong.
type MediaRef struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
}

// InboundCallback is the channel-agnostic view of one provider webhook POST.
// It is created per request, never mutated, and discarded when the request
// completes.
type InboundCallback struct {
	Channel     ChannelType
	Sender      string
	Body        string
	Media       []MediaRef
	StatusEvent bool
	ReceivedAt  time.Time
}

// Reply carries the extracted agent reply back to the channel for rendering.
type Reply struct {
	Text string `json:"text"`
}
