package hostapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/session/ses_123/message", r.URL.Path)
		json.NewEncoder(w).Encode([]Message{
			{Info: Info{Role: "assistant"}, Parts: []Part{{Type: "text", Text: "hello"}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	msgs, err := client.Messages(context.Background(), "ses_123")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "assistant", msgs[0].Info.Role)
}

func TestMessagesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Messages(context.Background(), "ses_123")
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestControlCalls(t *testing.T) {
	var paths []string
	var bodies []map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			bodies = append(bodies, body)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	require.NoError(t, client.NewSession(ctx))
	require.NoError(t, client.AppendPrompt(ctx, "/gsd-execute-phase 8"))
	require.NoError(t, client.SubmitPrompt(ctx))

	require.Equal(t, []string{"/tui/execute-command", "/tui/append-prompt", "/tui/submit-prompt"}, paths)
	require.Equal(t, "session_new", bodies[0]["command"])
	require.Equal(t, "/gsd-execute-phase 8", bodies[1]["text"])
}

func TestControlCallErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.SubmitPrompt(context.Background())
	require.Error(t, err)
}

func TestLastAssistantText(t *testing.T) {
	msgs := []Message{
		{Info: Info{Role: "assistant"}, Parts: []Part{{Type: "text", Text: "older turn"}}},
		{Info: Info{Role: "user"}, Parts: []Part{{Type: "text", Text: "continue"}}},
		{Info: Info{Role: "assistant"}, Parts: []Part{
			{Type: "text", Text: "part one"},
			{Type: "tool", Text: "ignored"},
			{Type: "text", Text: "part two"},
		}},
	}

	require.Equal(t, "part one\npart two", LastAssistantText(msgs))
}

func TestLastAssistantTextNoAssistantTurn(t *testing.T) {
	msgs := []Message{
		{Info: Info{Role: "user"}, Parts: []Part{{Type: "text", Text: "hi"}}},
	}
	require.Equal(t, "", LastAssistantText(msgs))
}

func TestLastAssistantTextEmpty(t *testing.T) {
	require.Equal(t, "", LastAssistantText(nil))
}
