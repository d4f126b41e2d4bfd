// Package hostapi is the thin client for the host's local control port: the
// message-history query plus the three prompt-control calls the continuation
// driver issues. The host's behavior is outside this module; only the wire
// surface is specified here.
package hostapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Part is one content part of a turn. Only text-typed parts matter here.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Info carries the turn metadata the controller needs.
type Info struct {
	Role string `json:"role"`
}

// Message is one turn of the session history.
type Message struct {
	Info  Info   `json:"info"`
	Parts []Part `json:"parts"`
}

// Client talks to the host over its local HTTP control port.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL. Requests carry a
// 30 second timeout; a hung host call is bounded by it, nothing else.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Messages fetches the ordered turn list for a session.
func (c *Client) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	endpoint := c.baseURL + "/session/" + url.PathEscape(sessionID) + "/message"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build message request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("message fetch returned status %d", resp.StatusCode)
	}

	var msgs []Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return msgs, nil
}

// NewSession asks the host to open a fresh execution context.
func (c *Client) NewSession(ctx context.Context) error {
	return c.post(ctx, "/tui/execute-command", map[string]string{"command": "session_new"})
}

// AppendPrompt inserts text into the current context's input.
func (c *Client) AppendPrompt(ctx context.Context, text string) error {
	return c.post(ctx, "/tui/append-prompt", map[string]string{"text": text})
}

// SubmitPrompt submits whatever is in the current input.
func (c *Client) SubmitPrompt(ctx context.Context) error {
	return c.post(ctx, "/tui/submit-prompt", nil)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("host call %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("host call %s returned status %d", path, resp.StatusCode)
	}
	return nil
}

// LastAssistantText concatenates the text-typed parts of the last
// assistant-role turn. Empty when no assistant turn exists.
func LastAssistantText(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Info.Role != "assistant" {
			continue
		}
		var b strings.Builder
		for _, part := range msgs[i].Parts {
			if part.Type != "text" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part.Text)
		}
		return b.String()
	}
	return ""
}
