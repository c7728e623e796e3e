package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func openAIWithServer(t *testing.T, handler http.HandlerFunc) *OpenAILLM {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	llm, err := NewOpenAILLMFromConfig(&LLMSettings{
		Provider:    "openai",
		Model:       "test-model",
		APIKey:      "test-key",
		BaseURL:     srv.URL + "/",
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatal(err)
	}
	return llm
}

func TestOpenAILLM_Complete(t *testing.T) {
	llm := openAIWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		var body struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Model != "test-model" || body.Temperature != 0.7 {
			t.Errorf("model = %q, temperature = %v", body.Model, body.Temperature)
		}
		if len(body.Messages) != 1 || body.Messages[0].Role != "user" || body.Messages[0].Content != "write posts" {
			t.Errorf("messages = %+v", body.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "test-model",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "[\"a\"]"}}]
		}`))
	})

	got, err := llm.Complete(context.Background(), "write posts")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `["a"]` {
		t.Errorf("content = %q", got)
	}
}

func TestOpenAILLM_NoSDKRetries(t *testing.T) {
	var hits atomic.Int32
	llm := openAIWithServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	})

	if _, err := llm.Complete(context.Background(), "write posts"); err == nil {
		t.Fatal("expected error")
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestNewOpenAILLMFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *LLMSettings
	}{
		{"nil", nil},
		{"no key", &LLMSettings{Model: "m"}},
		{"no model", &LLMSettings{APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewOpenAILLMFromConfig(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
