package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPCompleter_Gemini(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "g-key" {
			t.Errorf("x-goog-api-key = %q", r.Header.Get("x-goog-api-key"))
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["contents"]; !ok {
			t.Errorf("body = %v", body)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[TITLE]\nGemini"}]}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPCompleter(GeminiConfig(srv.URL, "g-key"), srv.Client())
	got, err := c.Complete(context.Background(), Request{Prompt: "p", Model: "gemini-2.5-flash"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "[TITLE]\nGemini" {
		t.Errorf("Complete() = %q", got)
	}
}

func TestHTTPCompleter_Claude(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" || r.Header.Get("x-api-key") != "c-key" {
			t.Errorf("headers = %v", r.Header)
		}
		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Model != "claude-sonnet-4-5" || body.MaxTokens != 4096 {
			t.Errorf("body = %+v", body)
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"hello"}]}`))
	}))
	defer srv.Close()

	c := NewHTTPCompleter(ClaudeConfig(srv.URL, "c-key"), srv.Client())
	got, err := c.Complete(context.Background(), Request{Prompt: "p", Model: "claude-sonnet-4-5"})
	if err != nil || got != "hello" {
		t.Errorf("Complete() = %q, %v", got, err)
	}
}

func TestHTTPCompleter_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHTTPCompleter(ClaudeConfig(srv.URL, "k"), srv.Client())
	if _, err := c.Complete(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Error("Complete() expected error on 503")
	}
}
