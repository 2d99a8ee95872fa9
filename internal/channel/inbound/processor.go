package inbound

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/waygateai/waygate/internal/agent"
	"github.com/waygateai/waygate/internal/channel"
)

// Invoker issues one streaming run against the remote runtime and returns
// the terminal chunk.
type Invoker interface {
	Invoke(ctx context.Context, threadKey string, parts []agent.ContentPart) (agent.RunChunk, error)
}

// MediaFetcher turns an attachment URL into an inline data URI.
type MediaFetcher interface {
	FetchDataURI(ctx context.Context, rawURL string) (string, error)
}

// Processor is the gateway orchestrator: it takes one verified callback
// through normalization, agent invocation, and reply extraction, and hands
// back the rendered provider envelope. It holds no mutable state across
// requests.
type Processor struct {
	invoker Invoker
	media   MediaFetcher
	logger  *slog.Logger
}

// NewProcessor creates the inbound processor.
func NewProcessor(log *slog.Logger, invoker Invoker, media MediaFetcher) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		invoker: invoker,
		media:   media,
		logger:  log.With(slog.String("component", "inbound")),
	}
}

// HandleCallback runs the pipeline for one callback whose signature has
// already been verified. Status callbacks yield the empty acknowledgement
// without touching the runtime.
func (p *Processor) HandleCallback(ctx context.Context, adapter channel.Adapter, cb channel.InboundCallback) ([]byte, error) {
	if p.invoker == nil {
		return nil, fmt.Errorf("inbound processor not configured")
	}
	if cb.StatusEvent {
		p.logger.Info("delivery callback acknowledged", slog.String("channel", cb.Channel.String()))
		return adapter.AckBody(), nil
	}
	if strings.TrimSpace(cb.Sender) == "" {
		return nil, channel.ErrMissingSender
	}

	parts := p.assembleParts(ctx, cb)
	threadKey := agent.ThreadKey(cb.Sender)
	p.logger.Info("invoking agent run",
		slog.String("channel", cb.Channel.String()),
		slog.String("thread_key", threadKey),
		slog.Int("parts", len(parts)),
	)

	chunk, err := p.invoker.Invoke(ctx, threadKey, parts)
	if err != nil {
		return nil, fmt.Errorf("invoke agent run: %w", err)
	}

	reply := agent.ExtractReply(chunk)
	return adapter.RenderReply(channel.Reply{Text: reply})
}

// assembleParts builds the canonical message: one leading text part when the
// body is non-empty, then every successfully fetched image attachment in
// original order. All eligible images are forwarded, not just the first.
// Fetch failures and non-image attachments are skipped with a warning so a
// single bad attachment never breaks the message. An otherwise empty message
// degrades to a single empty text part: the runtime must never receive a
// null payload.
func (p *Processor) assembleParts(ctx context.Context, cb channel.InboundCallback) []agent.ContentPart {
	var images []agent.ContentPart
	for _, ref := range cb.Media {
		declared := strings.ToLower(strings.TrimSpace(ref.ContentType))
		if !strings.HasPrefix(declared, "image/") {
			p.logger.Warn("attachment dropped: unsupported content type",
				slog.String("content_type", declared),
				slog.String("url", ref.URL),
			)
			continue
		}
		if p.media == nil {
			p.logger.Warn("attachment dropped: media fetcher not configured", slog.String("url", ref.URL))
			continue
		}
		dataURI, err := p.media.FetchDataURI(ctx, ref.URL)
		if err != nil {
			p.logger.Warn("attachment fetch failed, skipping",
				slog.String("url", ref.URL),
				slog.Any("error", err),
			)
			continue
		}
		images = append(images, agent.NewImagePart(dataURI))
	}

	parts := make([]agent.ContentPart, 0, len(images)+1)
	if cb.Body != "" {
		parts = append(parts, agent.NewTextPart(cb.Body))
	}
	parts = append(parts, images...)
	if len(parts) == 0 {
		parts = append(parts, agent.NewTextPart(""))
	}
	return parts
}
