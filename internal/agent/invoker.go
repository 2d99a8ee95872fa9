package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client issues streaming run requests against the remote agent runtime.
// One request per inbound message; no shared mutable state across requests
// beyond the HTTP client itself.
type Client struct {
	baseURL     string
	assistantID string
	graphConfig map[string]any
	// streamingClient has no global timeout: the stream lives as long as the
	// run. Cancellation rides on the request context.
	streamingClient *http.Client
	streamTimeout   time.Duration
	logger          *slog.Logger
}

// NewClient creates a runtime client. graphConfig is the opaque configuration
// blob forwarded verbatim on every run. streamTimeout bounds a whole run,
// SSE consumption included; zero means unbounded.
func NewClient(log *slog.Logger, baseURL, assistantID string, graphConfig map[string]any, streamTimeout time.Duration) *Client {
	if log == nil {
		log = slog.Default()
	}
	if graphConfig == nil {
		graphConfig = map[string]any{}
	}
	return &Client{
		baseURL:         strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		assistantID:     strings.TrimSpace(assistantID),
		graphConfig:     graphConfig,
		streamingClient: &http.Client{},
		streamTimeout:   streamTimeout,
		logger:          log.With(slog.String("service", "agent")),
	}
}

// Invoke creates a streaming run on the given thread and returns the terminal
// chunk. The run auto-creates the thread if absent and interrupts any run
// already in flight on it; the stream is requested in values mode, so each
// chunk is a full state snapshot and only the last one matters. There is no
// retry here: retrying a conversational turn risks duplicate replies.
func (c *Client) Invoke(ctx context.Context, threadKey string, parts []ContentPart) (RunChunk, error) {
	if strings.TrimSpace(threadKey) == "" {
		return nil, fmt.Errorf("thread key is required")
	}
	if c.streamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.streamTimeout)
		defer cancel()
	}
	payload := streamRunRequest{
		AssistantID: c.assistantID,
		Input: runInput{
			Messages: []runMessage{{Role: "user", Content: parts}},
		},
		Config:            c.graphConfig,
		Metadata:          map[string]any{"event": "api_call"},
		MultitaskStrategy: "interrupt",
		IfNotExists:       "create",
		StreamMode:        []string{"values"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal run request: %w", err)
	}

	runURL := c.baseURL + "/threads/" + url.PathEscape(threadKey) + "/runs/stream"
	c.logger.Info("runtime stream request",
		slog.String("url", runURL),
		slog.String("thread_key", threadKey),
		slog.Int("parts", len(parts)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, runURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build run request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamingClient.Do(httpReq)
	if err != nil {
		c.logger.Error("runtime stream connect failed", slog.String("url", runURL), slog.Any("error", err))
		return nil, fmt.Errorf("runtime stream connect: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("runtime stream error",
			slog.String("url", runURL),
			slog.Int("status", resp.StatusCode),
			slog.String("body_prefix", truncate(string(errBody), 300)),
		)
		return nil, fmt.Errorf("runtime run failed: status %d", resp.StatusCode)
	}

	terminal, err := readTerminalChunk(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("consume run stream: %w", err)
	}
	return terminal, nil
}

// readTerminalChunk reads SSE lines and keeps the last data payload seen
// before the stream completes. Values-mode snapshots echo the whole
// conversation state back, inline image data URIs included, so a single
// line can run to many megabytes; lines are read without a length cap.
func readTerminalChunk(body io.Reader) (RunChunk, error) {
	reader := bufio.NewReaderSize(body, 64*1024)

	var terminal RunChunk
	for {
		line, err := reader.ReadString('\n')
		// Anything that is not a data line (event names, comments, blank
		// keep-alives) is skipped.
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(trimmed, "data:"))
			if data != "" && data != "[DONE]" {
				terminal = RunChunk([]byte(data))
			}
		}
		if err != nil {
			if err == io.EOF {
				return terminal, nil
			}
			return nil, err
		}
	}
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
