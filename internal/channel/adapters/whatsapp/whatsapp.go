package whatsapp

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/waygateai/waygate/internal/channel"
)

// Type identifies the Twilio-backed WhatsApp channel.
const Type = channel.ChannelType("whatsapp")

// Form fields of a Twilio messaging webhook.
const (
	fieldFrom          = "From"
	fieldBody          = "Body"
	fieldNumMedia      = "NumMedia"
	fieldMessageStatus = "MessageStatus"
	fieldSmsSid        = "SmsSid"
)

// Adapter implements the channel capability surface for Twilio WhatsApp
// callbacks: signature validation, form normalization, and TwiML rendering.
type Adapter struct {
	validator Validator
	logger    *slog.Logger
}

// NewAdapter creates the WhatsApp channel adapter.
func NewAdapter(log *slog.Logger, authToken string) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		validator: NewValidator(authToken),
		logger:    log.With(slog.String("channel", Type.String())),
	}
}

func (a *Adapter) Type() channel.ChannelType {
	return Type
}

func (a *Adapter) Descriptor() channel.Descriptor {
	return channel.Descriptor{Type: Type, DisplayName: "WhatsApp (Twilio)"}
}

// ValidateRequest checks the provider signature against the reconstructed
// external URL and the parsed form fields.
func (a *Adapter) ValidateRequest(r *http.Request, form url.Values) bool {
	canonicalURL := ExternalURL(r)
	if !a.validator.Validate(canonicalURL, form, r.Header.Get(SignatureHeader)) {
		a.logger.Warn("invalid provider signature", slog.String("url", canonicalURL))
		return false
	}
	return true
}

// Normalize converts the Twilio form into the canonical callback shape.
// A form carrying both MessageStatus and SmsSid is a delivery receipt, not a
// user message, and short-circuits before any sender validation.
func (a *Adapter) Normalize(form url.Values) (channel.InboundCallback, error) {
	cb := channel.InboundCallback{
		Channel:    Type,
		ReceivedAt: time.Now().UTC(),
	}
	if form.Has(fieldMessageStatus) && form.Has(fieldSmsSid) {
		cb.StatusEvent = true
		return cb, nil
	}

	cb.Sender = strings.TrimSpace(form.Get(fieldFrom))
	if cb.Sender == "" {
		return channel.InboundCallback{}, channel.ErrMissingSender
	}
	cb.Body = strings.TrimSpace(form.Get(fieldBody))

	numMedia, _ := strconv.Atoi(strings.TrimSpace(form.Get(fieldNumMedia)))
	for i := 0; i < numMedia; i++ {
		mediaURL := strings.TrimSpace(form.Get(fmt.Sprintf("MediaUrl%d", i)))
		if mediaURL == "" {
			continue
		}
		cb.Media = append(cb.Media, channel.MediaRef{
			URL:         mediaURL,
			ContentType: strings.TrimSpace(form.Get(fmt.Sprintf("MediaContentType%d", i))),
		})
	}
	return cb, nil
}

func (a *Adapter) RenderReply(reply channel.Reply) ([]byte, error) {
	return renderTwiML(reply.Text)
}

func (a *Adapter) AckBody() []byte {
	return emptyTwiML()
}

func (a *Adapter) ReplyContentType() string {
	return "application/xml"
}
