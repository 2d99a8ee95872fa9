package whatsapp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// SignatureHeader carries the provider-computed request signature.
const SignatureHeader = "X-Twilio-Signature"

// Validator recomputes Twilio's published request signature: HMAC-SHA1 over
// the externally visible URL followed by every POST parameter concatenated
// as key+value in key order, base64 encoded.
type Validator struct {
	authToken string
}

// NewValidator creates a signature validator for the shared auth token.
func NewValidator(authToken string) Validator {
	return Validator{authToken: strings.TrimSpace(authToken)}
}

// Validate reports whether signature matches the expected value for the
// given canonical URL and form parameters. A missing signature or token
// never validates.
func (v Validator) Validate(canonicalURL string, form url.Values, signature string) bool {
	if v.authToken == "" || strings.TrimSpace(signature) == "" {
		return false
	}

	mac := hmac.New(sha1.New, []byte(v.authToken))
	mac.Write([]byte(canonicalURL))

	keys := make([]string, 0, len(form))
	for key := range form {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		mac.Write([]byte(key))
		mac.Write([]byte(form.Get(key)))
	}

	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(signature))) == 1
}

// ExternalURL reconstructs the URL the provider signed. The gateway usually
// sits behind a reverse proxy, so the forwarding headers win over the
// origin-server view of the request.
func ExternalURL(r *http.Request) string {
	proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))
	if proto == "" {
		proto = "http"
		if r.TLS != nil {
			proto = "https"
		}
	}
	host := strings.TrimSpace(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = r.Host
	}
	return proto + "://" + host + r.URL.RequestURI()
}
