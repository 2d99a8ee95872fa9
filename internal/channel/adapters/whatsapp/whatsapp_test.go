package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/waygateai/waygate/internal/channel"
)

func TestNormalize_TextMessage(t *testing.T) {
	t.Parallel()
	a := NewAdapter(nil, docAuthToken)
	form := url.Values{
		"From":     {"whatsapp:+1555"},
		"Body":     {" Hello "},
		"NumMedia": {"0"},
	}
	cb, err := a.Normalize(form)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cb.StatusEvent {
		t.Fatal("text message flagged as status event")
	}
	if cb.Sender != "whatsapp:+1555" || cb.Body != "Hello" {
		t.Fatalf("unexpected callback: %+v", cb)
	}
	if len(cb.Media) != 0 {
		t.Fatalf("unexpected media: %+v", cb.Media)
	}
}

func TestNormalize_StatusCallback(t *testing.T) {
	t.Parallel()
	a := NewAdapter(nil, docAuthToken)
	form := url.Values{
		"MessageStatus": {"delivered"},
		"SmsSid":        {"SM123"},
		// Delivery receipts may carry other fields; they are irrelevant.
		"From": {"whatsapp:+1555"},
	}
	cb, err := a.Normalize(form)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !cb.StatusEvent {
		t.Fatal("delivery receipt not flagged as status event")
	}
}

func TestNormalize_MissingSender(t *testing.T) {
	t.Parallel()
	a := NewAdapter(nil, docAuthToken)
	form := url.Values{"Body": {"hi"}}
	if _, err := a.Normalize(form); err != channel.ErrMissingSender {
		t.Fatalf("Normalize error = %v, want ErrMissingSender", err)
	}
}

func TestNormalize_MediaOrder(t *testing.T) {
	t.Parallel()
	a := NewAdapter(nil, docAuthToken)
	form := url.Values{
		"From":              {"whatsapp:+1555"},
		"NumMedia":          {"3"},
		"MediaUrl0":         {"https://api.twilio.com/media/0"},
		"MediaContentType0": {"image/png"},
		"MediaUrl1":         {"https://api.twilio.com/media/1"},
		"MediaContentType1": {"application/pdf"},
		"MediaUrl2":         {"https://api.twilio.com/media/2"},
		"MediaContentType2": {"image/jpeg"},
	}
	cb, err := a.Normalize(form)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(cb.Media) != 3 {
		t.Fatalf("media count = %d, want 3", len(cb.Media))
	}
	for i, want := range []string{"image/png", "application/pdf", "image/jpeg"} {
		if cb.Media[i].ContentType != want {
			t.Fatalf("media[%d].ContentType = %q, want %q", i, cb.Media[i].ContentType, want)
		}
	}
}

func TestRenderTwiML_EscapesMarkup(t *testing.T) {
	t.Parallel()
	a := NewAdapter(nil, docAuthToken)
	body, err := a.RenderReply(channel.Reply{Text: `1 < 2 & "so on"`})
	if err != nil {
		t.Fatalf("RenderReply: %v", err)
	}
	rendered := string(body)
	if !strings.Contains(rendered, "<Response><Message>") {
		t.Fatalf("unexpected envelope: %s", rendered)
	}
	if !strings.Contains(rendered, "1 &lt; 2 &amp;") {
		t.Fatalf("markup not escaped: %s", rendered)
	}
}

func TestAckBody_EmptyEnvelope(t *testing.T) {
	t.Parallel()
	a := NewAdapter(nil, docAuthToken)
	ack := string(a.AckBody())
	if !strings.Contains(ack, "<Response></Response>") {
		t.Fatalf("unexpected ack envelope: %s", ack)
	}
	if strings.Contains(ack, "<Message>") {
		t.Fatalf("ack envelope must not carry a message: %s", ack)
	}
}
