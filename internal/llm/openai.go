// OpenAI-compatible chat completion client.
//
// The client POSTs to {base}/chat/completions with Bearer auth and parses
// the first choice out of the response. Content parsing is tolerant: plain
// string content, legacy "text" fields, and multi-part content arrays all
// yield a usable completion, since self-hosted gateways differ in what
// they emit.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 4 << 20

// OpenAIClient is the production Client implementation.
type OpenAIClient struct {
	// HTTPClient is used for outbound calls; a 30s-timeout default is
	// applied by NewOpenAIClient when nil.
	HTTPClient *http.Client
}

// NewOpenAIClient returns a client with the given request timeout.
func NewOpenAIClient(timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{HTTPClient: &http.Client{Timeout: timeout}}
}

var _ Client = (*OpenAIClient)(nil)

// Complete performs exactly one chat-completion request and returns the
// assistant text. Every failure mode comes back as a *CompletionError.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	endpoint, err := completionsURL(req.BaseURL)
	if err != nil {
		return "", err
	}

	messages := make([]map[string]string, 0, 2)
	if strings.TrimSpace(req.SystemPrompt) != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.SystemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	body, err := json.Marshal(map[string]any{
		"model":    req.Model,
		"messages": messages,
	})
	if err != nil {
		return "", completionErrf(err, "marshal completion payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", completionErrf(err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(req.APIKey) != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", completionErrf(err, "request to %s failed", endpoint)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", completionErrf(err, "read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", completionErrf(nil, "provider returned status %d: %s", resp.StatusCode, truncateBody(respBody))
	}

	text, err := parseChatCompletion(respBody)
	if err != nil {
		return "", err
	}
	return text, nil
}

// completionsURL resolves the chat-completions endpoint under base. Bases
// that already point at a completions path are used as-is.
func completionsURL(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", completionErrf(nil, "provider base url is empty")
	}
	if strings.HasSuffix(base, "/chat/completions") {
		return base, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", completionErrf(err, "parse provider base url")
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/chat/completions"
	return u.String(), nil
}

// parseChatCompletion extracts the first choice's text.
func parseChatCompletion(body []byte) (string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", completionErrf(err, "decode completion response")
	}
	if len(resp.Choices) == 0 {
		return "", completionErrf(nil, "completion response has no choices")
	}
	if resp.Choices[0].Text != "" {
		return resp.Choices[0].Text, nil
	}
	if content := contentToText(resp.Choices[0].Message.Content); strings.TrimSpace(content) != "" {
		return content, nil
	}
	return "", completionErrf(nil, "completion response has no message content")
}

// contentToText flattens string or multi-part message content.
func contentToText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				if txt, ok := m["text"].(string); ok {
					parts = append(parts, txt)
				}
			}
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}

// truncateBody keeps error messages readable when providers return pages
// of HTML.
func truncateBody(b []byte) string {
	const max = 256
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}
