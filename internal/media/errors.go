package media

import "errors"

var (
	// ErrCredentialsMissing indicates the provider account credentials are not configured.
	ErrCredentialsMissing = errors.New("media credentials are not configured")
	// ErrMediaUnavailable indicates the provider did not serve the media bytes.
	ErrMediaUnavailable = errors.New("media unavailable")
	// ErrMediaTooLarge indicates the payload exceeds the configured max media size.
	ErrMediaTooLarge = errors.New("media payload too large")
)
