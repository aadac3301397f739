package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

func chatServer(t *testing.T, status int, body string, captured *capturedRequest, headers *http.Header) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request body: %v", err)
			}
		}
		if headers != nil {
			*headers = r.Header.Clone()
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func contentResponse(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + jsonString(content) + `}}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestExplain_SendsOpenAICompatibleRequest(t *testing.T) {
	var captured capturedRequest
	var headers http.Header
	srv := chatServer(t, http.StatusOK, contentResponse("X"), &captured, &headers)
	defer srv.Close()

	ep := Endpoint{URL: srv.URL, APIKey: "sk-test", Model: "gpt-4o-mini", Prompt: "你是一个知识查询助手"}
	result, err := New().Explain(context.Background(), ep, "引力")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "X" {
		t.Fatalf("result %q, expected X", result)
	}

	if got := headers.Get("Authorization"); got != "Bearer sk-test" {
		t.Fatalf("Authorization header %q", got)
	}
	if got := headers.Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type header %q", got)
	}

	if captured.Model != "gpt-4o-mini" {
		t.Fatalf("model %q", captured.Model)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != "你是一个知识查询助手" {
		t.Fatalf("unexpected system message: %+v", captured.Messages[0])
	}
	if captured.Messages[1].Role != "user" || captured.Messages[1].Content != "请解释：引力" {
		t.Fatalf("unexpected user message: %+v", captured.Messages[1])
	}
	if captured.MaxTokens != 500 {
		t.Fatalf("max_tokens %d, expected 500", captured.MaxTokens)
	}
	if captured.Temperature != 0.35 {
		t.Fatalf("temperature %v, expected 0.35", captured.Temperature)
	}
}

func TestExplain_MissingChoicesYieldsPlaceholder(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no choices field", `{}`},
		{"empty choices", `{"choices":[]}`},
		{"blank content", `{"choices":[{"message":{"role":"assistant","content":"  "}}]}`},
		{"not json", `<html>backend error page</html>`},
	}

	for _, tc := range cases {
		srv := chatServer(t, http.StatusOK, tc.body, nil, nil)
		result, err := New().Explain(context.Background(), Endpoint{URL: srv.URL, APIKey: "k", Model: "m"}, "术语")
		srv.Close()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if result != EmptyResultPlaceholder {
			t.Fatalf("%s: result %q, expected placeholder", tc.name, result)
		}
	}
}

func TestExplain_HTTPErrorReturnsRequestFailed(t *testing.T) {
	srv := chatServer(t, http.StatusBadGateway, `{"error":"upstream"}`, nil, nil)
	defer srv.Close()

	_, err := New().Explain(context.Background(), Endpoint{URL: srv.URL, APIKey: "k", Model: "m"}, "术语")
	var reqErr *RequestFailedError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestFailedError, got %v", err)
	}
	if reqErr.Status != http.StatusBadGateway {
		t.Fatalf("status %d, expected 502", reqErr.Status)
	}
}

func TestExplain_TransportFailureReturnsNetworkError(t *testing.T) {
	srv := chatServer(t, http.StatusOK, "{}", nil, nil)
	srv.Close() // connection refused from here on

	_, err := New().Explain(context.Background(), Endpoint{URL: srv.URL, APIKey: "k", Model: "m"}, "术语")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.Unwrap() == nil {
		t.Fatal("expected wrapped transport cause")
	}
}

func TestCategorize_SubstitutesLabelsAndUsesTightBounds(t *testing.T) {
	var captured capturedRequest
	srv := chatServer(t, http.StatusOK, contentResponse("这是科学类"), &captured, nil)
	defer srv.Close()

	ep := Endpoint{
		URL:    srv.URL,
		APIKey: "k",
		Model:  "m",
		Prompt: "请从以下分类中选择：" + CategoriesToken + "。只回答分类名称。",
	}
	label, err := New().Categorize(context.Background(), ep, "黑洞", []string{"技术", "科学"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "科学" {
		t.Fatalf("label %q, expected 科学", label)
	}

	if !strings.Contains(captured.Messages[0].Content, "技术、科学") {
		t.Fatalf("prompt placeholder not substituted: %q", captured.Messages[0].Content)
	}
	if strings.Contains(captured.Messages[0].Content, CategoriesToken) {
		t.Fatalf("placeholder token leaked into prompt: %q", captured.Messages[0].Content)
	}
	if captured.Messages[1].Content != "黑洞" {
		t.Fatalf("user message %q", captured.Messages[1].Content)
	}
	if captured.MaxTokens != 10 {
		t.Fatalf("max_tokens %d, expected 10", captured.MaxTokens)
	}
	if captured.Temperature != 0.1 {
		t.Fatalf("temperature %v, expected 0.1", captured.Temperature)
	}
}

func TestNormalizeCategory(t *testing.T) {
	labels := []string{"技术", "科学"}

	cases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"exact", "科学", "科学"},
		{"exact after trim", "  科学  ", "科学"},
		{"label inside answer", "这是科学类", "科学"},
		{"answer inside label", "技", "技术"},
		{"no match falls back", "音乐", FallbackCategory},
		{"empty falls back", "   ", FallbackCategory},
		{"configured order wins", "技术还是科学", "技术"},
	}

	for _, tc := range cases {
		if got := NormalizeCategory(tc.raw, labels); got != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}

func TestDefaultPromptsEmbedded(t *testing.T) {
	if DefaultExplainPrompt() == "" {
		t.Fatal("explain prompt should be embedded")
	}
	if !strings.Contains(DefaultCategorizePrompt(), CategoriesToken) {
		t.Fatal("categorize prompt should carry the categories token")
	}
}
