package whatsapp

import (
	"encoding/xml"
	"fmt"
)

// messagingResponse is the TwiML reply envelope Twilio expects back from a
// messaging webhook.
type messagingResponse struct {
	XMLName xml.Name      `xml:"Response"`
	Message *twimlMessage `xml:",omitempty"`
}

type twimlMessage struct {
	XMLName xml.Name `xml:"Message"`
	Body    string   `xml:",chardata"`
}

// renderTwiML wraps the reply text in a single Message element. Escaping is
// handled by the XML encoder, so reply text may contain markup characters.
func renderTwiML(text string) ([]byte, error) {
	envelope := messagingResponse{Message: &twimlMessage{Body: text}}
	body, err := xml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("render twiml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// emptyTwiML is the acknowledgement envelope for status callbacks: a
// Response with no Message element, so nothing is sent to the user.
func emptyTwiML() []byte {
	return []byte(xml.Header + "<Response></Response>")
}
