package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sampling bounds for the two request kinds. Explanations get room to
// answer; categorization is clamped short and near-deterministic.
const (
	explainMaxTokens      = 500
	explainTemperature    = 0.35
	categorizeMaxTokens   = 10
	categorizeTemperature = 0.1
)

// ExplainPrefix is prepended to the user's term in the explanation request.
const ExplainPrefix = "请解释："

// EmptyResultPlaceholder stands in for a response envelope that carried no
// usable answer.
const EmptyResultPlaceholder = "（空结果）"

// FallbackCategory is the catch-all label used when no configured label
// matches the model's answer.
const FallbackCategory = "其他"

// CategoriesToken is the literal token in the categorization prompt template
// that gets replaced with the joined label list before sending.
const CategoriesToken = "{categories}"

const categoryDelimiter = "、"

// Endpoint identifies one OpenAI-compatible chat-completion endpoint plus
// the system prompt to use against it.
type Endpoint struct {
	URL    string
	APIKey string
	Model  string
	Prompt string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// RequestFailedError reports a non-2xx status from the remote endpoint.
type RequestFailedError struct {
	Status int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("chat completion request failed with status %d", e.Status)
}

// NetworkError reports a transport-level failure before any status was read.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return "chat completion request failed: " + e.Cause.Error()
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// Client issues single-attempt chat-completion requests against
// OpenAI-compatible endpoints. One instance serves both the explanation and
// the categorization flow; everything request-specific arrives via Endpoint.
type Client struct {
	httpClient *http.Client
}

func New() *Client {
	return &Client{httpClient: &http.Client{}}
}

// Explain asks the endpoint for an explanation of term using the endpoint's
// system prompt. It makes exactly one attempt.
func (c *Client) Explain(ctx context.Context, ep Endpoint, term string) (string, error) {
	return c.complete(ctx, ep, ep.Prompt, ExplainPrefix+term, explainMaxTokens, explainTemperature)
}

// Categorize asks the endpoint to pick one of labels for term. The prompt
// template's CategoriesToken is substituted with the joined label list, and
// the raw answer is normalized to a configured label or the fallback.
func (c *Client) Categorize(ctx context.Context, ep Endpoint, term string, labels []string) (string, error) {
	prompt := strings.ReplaceAll(ep.Prompt, CategoriesToken, strings.Join(labels, categoryDelimiter))
	raw, err := c.complete(ctx, ep, prompt, term, categorizeMaxTokens, categorizeTemperature)
	if err != nil {
		return "", err
	}
	return NormalizeCategory(raw, labels), nil
}

func (c *Client) complete(ctx context.Context, ep Endpoint, systemPrompt, userText string, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: ep.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ep.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &RequestFailedError{Status: resp.StatusCode}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// A malformed envelope is tolerated the same way as missing choices.
		return EmptyResultPlaceholder, nil
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return EmptyResultPlaceholder, nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// NormalizeCategory maps a raw model answer onto the configured labels:
// exact match after trimming, then the first label (in configured order)
// related to the answer by substring in either direction, then the fallback.
func NormalizeCategory(raw string, labels []string) string {
	trimmed := strings.TrimSpace(raw)
	for _, label := range labels {
		if trimmed == label {
			return label
		}
	}
	if trimmed != "" {
		for _, label := range labels {
			if strings.Contains(trimmed, label) || strings.Contains(label, trimmed) {
				return label
			}
		}
	}
	return FallbackCategory
}
