package claude

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeApi_SendMessage(t *testing.T) {
	var gotRequest ClaudeMessageRequest
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotRequest))

		w.Write([]byte(`{
			"id": "msg_01XgZ7",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "A thread about aurora photography gear."}],
			"model": "claude-sonnet-4-0",
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 210, "output_tokens": 12}
		}`))
	}))
	defer server.Close()

	api, err := NewClaudeClient("test-key", "", CLAUDE_MODEL)
	require.NoError(t, err)
	api.apiURL = server.URL

	response, err := api.SendMessage(ClaudeMessages{
		{ROLE_USER, "summarize this thread"},
	}, "You summarize social media posts.")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	assert.Equal(t, CLAUDE_MODEL, gotRequest.Model)
	assert.Equal(t, "You summarize social media posts.", gotRequest.System)
	require.Len(t, gotRequest.Messages, 1)
	assert.Equal(t, ROLE_USER, gotRequest.Messages[0].Role)

	assert.Equal(t, "end_turn", response.StopReason)
	assert.Equal(t, "A thread about aurora photography gear.", response.TextContent())
	assert.Equal(t, 12, response.Usage.OutputTokens)
}

func TestClaudeApi_SendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type": "error", "error": {"type": "rate_limit_error", "message": "Number of requests has exceeded your rate limit"}}`))
	}))
	defer server.Close()

	api, err := NewClaudeClient("test-key", "", CLAUDE_MODEL)
	require.NoError(t, err)
	api.apiURL = server.URL

	_, err = api.SendMessage(ClaudeMessages{{ROLE_USER, "hi"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestClaudeApi_TextContent_MultipleBlocks(t *testing.T) {
	response := &ClaudeMessageResponse{Content: []Content{
		{Type: "text", Text: "First part."},
		{Type: "tool_use"},
		{Type: "text", Text: "Second part."},
	}}
	assert.Equal(t, "First part.\nSecond part.", response.TextContent())
}

func TestNewClaudeClient_BadProxy(t *testing.T) {
	_, err := NewClaudeClient("test-key", "://not-a-proxy", CLAUDE_MODEL)
	assert.Error(t, err)
}
