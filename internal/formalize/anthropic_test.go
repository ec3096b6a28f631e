// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package formalize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestAnthropicBackendComplete(t *testing.T) {
	var gotReq anthropicRequest
	var gotHeaders http.Header

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{
				{Type: "thinking", Text: "ignored"},
				{Type: "text", Text: `[{"section":"1","text":"x","type":"Safety"}]`},
			},
		})
	}))
	defer ts.Close()

	old := anthropicAPIURL
	anthropicAPIURL = ts.URL
	defer func() { anthropicAPIURL = old }()

	backend := &AnthropicBackend{APIKey: "test-key", Model: "test-model", Client: ts.Client()}

	text, err := backend.Complete(context.Background(), "the prompt")
	if err != nil {
		t.Fatal(err)
	}
	if text != `[{"section":"1","text":"x","type":"Safety"}]` {
		t.Errorf("unexpected text: %q", text)
	}

	if gotHeaders.Get("x-api-key") != "test-key" {
		t.Error("missing API key header")
	}
	if gotHeaders.Get("anthropic-version") == "" {
		t.Error("missing anthropic-version header")
	}
	if gotReq.Model != "test-model" || gotReq.MaxTokens != maxTokens || gotReq.Temperature != temperature {
		t.Errorf("unexpected request parameters: %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "the prompt" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestAnthropicBackendRetriesRateLimit(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "[]"}},
		})
	}))
	defer ts.Close()

	old := anthropicAPIURL
	anthropicAPIURL = ts.URL
	defer func() { anthropicAPIURL = old }()

	backend := &AnthropicBackend{APIKey: "k", Model: "m", MaxRetries: 2, Client: ts.Client()}

	text, err := backend.Complete(context.Background(), "p")
	if err != nil {
		t.Fatal(err)
	}
	if text != "[]" {
		t.Errorf("text = %q", text)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestAnthropicBackendAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := anthropicAPIURL
	anthropicAPIURL = ts.URL
	defer func() { anthropicAPIURL = old }()

	backend := &AnthropicBackend{APIKey: "k", Model: "m", Client: ts.Client()}

	if _, err := backend.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestAnthropicBackendNoTextContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "tool_use", Text: ""}},
		})
	}))
	defer ts.Close()

	old := anthropicAPIURL
	anthropicAPIURL = ts.URL
	defer func() { anthropicAPIURL = old }()

	backend := &AnthropicBackend{APIKey: "k", Model: "m", Client: ts.Client()}

	if _, err := backend.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error when response has no text block")
	}
}
