package channel

import (
	"errors"
	"net/http"
	"net/url"
)

var (
	// ErrMissingSender indicates a user-message callback without a sender
	// identity. Maps to a 400-class response.
	ErrMissingSender = errors.New("callback is missing sender identity")
	// ErrNotRegistered indicates no adapter is registered for a channel type.
	ErrNotRegistered = errors.New("channel type not registered")
)

// Adapter is the provider-specific capability surface of a channel. The
// agent-invocation core only talks to this interface, so adding a second
// channel does not touch the pipeline.
type Adapter interface {
	Type() ChannelType
	Descriptor() Descriptor

	// ValidateRequest reports whether the callback was genuinely produced by
	// the provider. form is the already-parsed request body; the request
	// supplies the signature header and the forwarding headers needed to
	// reconstruct the externally visible URL.
	ValidateRequest(r *http.Request, form url.Values) bool

	// Normalize converts a parsed callback form into the canonical inbound
	// shape. Returns ErrMissingSender for user messages without a sender.
	Normalize(form url.Values) (InboundCallback, error)

	// RenderReply wraps the reply text in the provider's expected envelope.
	RenderReply(reply Reply) ([]byte, error)

	// AckBody is the empty acknowledgement envelope for status callbacks.
	AckBody() []byte

	// ReplyContentType is the content type of rendered envelopes.
	ReplyContentType() string
}
