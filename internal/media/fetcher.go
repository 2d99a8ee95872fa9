package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const fallbackMime = "image/jpeg"

// Fetcher downloads provider-hosted attachments and encodes them as
// self-contained data URIs. Downloads authenticate with the gateway's own
// account credentials; attachment URLs are not publicly readable.
type Fetcher struct {
	client     *http.Client
	accountSID string
	authToken  string
	maxBytes   int64
	logger     *slog.Logger
}

// NewFetcher creates a media fetcher with a bounded request timeout.
func NewFetcher(log *slog.Logger, accountSID, authToken string, timeout time.Duration, maxBytes int64) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		accountSID: strings.TrimSpace(accountSID),
		authToken:  strings.TrimSpace(authToken),
		maxBytes:   maxBytes,
		logger:     log.With(slog.String("service", "media")),
	}
}

// FetchDataURI downloads one attachment and returns a data:<mime>;base64,…
// URI. The MIME type falls through a priority chain: response Content-Type
// header, extension guess from the URL, then image/jpeg. The provider's
// declared type is not consulted here; the caller already used it to decide
// whether to fetch at all. A non-image result is forced to image/jpeg rather
// than propagating a wrong type downstream, since the agent payload only
// understands image attachments.
func (f *Fetcher) FetchDataURI(ctx context.Context, rawURL string) (string, error) {
	if f.accountSID == "" || f.authToken == "" {
		return "", ErrCredentialsMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build media request: %w", err)
	}
	req.SetBasicAuth(f.accountSID, f.authToken)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download media: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: status %d", ErrMediaUnavailable, resp.StatusCode)
	}

	limit := f.maxBytes
	if limit <= 0 {
		limit = 16 << 20
	}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("read media body: %w", err)
	}
	if int64(len(payload)) > limit {
		return "", fmt.Errorf("%w: max %d bytes", ErrMediaTooLarge, limit)
	}

	mimeType := f.resolveMime(resp.Header.Get("Content-Type"), rawURL)
	encoded := base64.StdEncoding.EncodeToString(payload)
	return "data:" + mimeType + ";base64," + encoded, nil
}

func (f *Fetcher) resolveMime(headerType, rawURL string) string {
	mimeType := normalizeMime(headerType)
	if mimeType == "" {
		mimeType = guessFromURL(rawURL)
	}
	if mimeType == "" {
		mimeType = fallbackMime
	}
	if !strings.HasPrefix(mimeType, "image/") {
		f.logger.Warn("forcing non-image mime to jpeg",
			slog.String("mime", mimeType),
			slog.String("url", rawURL),
		)
		mimeType = fallbackMime
	}
	return mimeType
}

func guessFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := path.Ext(parsed.Path)
	if ext == "" {
		return ""
	}
	return normalizeMime(mime.TypeByExtension(ext))
}

// normalizeMime strips parameters (e.g. "; charset=utf-8") and whitespace.
func normalizeMime(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return strings.ToLower(value)
}
