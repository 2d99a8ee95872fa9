package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke_ReturnsTerminalChunk(t *testing.T) {
	t.Parallel()
	var captured streamRunRequest
	var capturedPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: values\n")
		fmt.Fprint(w, "data: {\"messages\":[{\"role\":\"user\",\"content\":\"hi\"}]}\n\n")
		fmt.Fprint(w, "event: values\n")
		fmt.Fprint(w, "data: {\"messages\":[{\"role\":\"user\",\"content\":\"hi\"},{\"role\":\"assistant\",\"content\":\"hello\"}]}\n\n")
	}))
	defer srv.Close()

	client := NewClient(nil, srv.URL, "agent", map[string]any{"configurable": map[string]any{"model": "demo"}}, time.Minute)
	threadKey := ThreadKey("whatsapp:+1555")

	chunk, err := client.Invoke(context.Background(), threadKey, []ContentPart{NewTextPart("hi")})
	require.NoError(t, err)

	// Only the last snapshot matters.
	assert.Equal(t, "hello", ExtractReply(chunk))

	assert.Equal(t, "/threads/"+threadKey+"/runs/stream", capturedPath)
	assert.Equal(t, "agent", captured.AssistantID)
	assert.Equal(t, "interrupt", captured.MultitaskStrategy)
	assert.Equal(t, "create", captured.IfNotExists)
	assert.Equal(t, []string{"values"}, captured.StreamMode)
	require.Len(t, captured.Input.Messages, 1)
	assert.Equal(t, "user", captured.Input.Messages[0].Role)
	require.Len(t, captured.Input.Messages[0].Content, 1)
	assert.Equal(t, "hi", captured.Input.Messages[0].Content[0].Text)
	assert.Contains(t, captured.Config, "configurable")
}

func TestInvoke_RemoteError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(nil, srv.URL, "agent", nil, 0)
	_, err := client.Invoke(context.Background(), ThreadKey("whatsapp:+1555"), []ContentPart{NewTextPart("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestInvoke_RequiresThreadKey(t *testing.T) {
	t.Parallel()
	client := NewClient(nil, "http://127.0.0.1:1", "agent", nil, 0)
	_, err := client.Invoke(context.Background(), "", []ContentPart{NewTextPart("hi")})
	require.Error(t, err)
}

func TestInvoke_HandlesOversizedSnapshotLine(t *testing.T) {
	t.Parallel()
	// Values-mode snapshots echo the inbound message back, so a callback
	// carrying an inline image produces multi-megabyte data lines.
	filler := strings.Repeat("A", 3<<20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "data: {\"messages\":[{\"role\":\"user\",\"content\":\"%s\"},{\"role\":\"assistant\",\"content\":\"got it\"}]}\n\n", filler)
	}))
	defer srv.Close()

	client := NewClient(nil, srv.URL, "agent", nil, 0)
	chunk, err := client.Invoke(context.Background(), ThreadKey("whatsapp:+1555"), []ContentPart{NewTextPart("hi")})
	require.NoError(t, err)
	assert.Equal(t, "got it", ExtractReply(chunk))
}

func TestInvoke_IgnoresDoneMarker(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"content\":\"final\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	client := NewClient(nil, srv.URL, "agent", nil, 0)
	chunk, err := client.Invoke(context.Background(), ThreadKey("x"), []ContentPart{NewTextPart("q")})
	require.NoError(t, err)
	assert.Equal(t, "final", ExtractReply(chunk))
}
