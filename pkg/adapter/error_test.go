package adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"rate limited", &AdapterError{Status: 429}, true},
		{"server error", &AdapterError{Status: 502}, true},
		{"temporary flag", &AdapterError{Status: 200, Temporary: true}, true},
		{"auth failure", &AdapterError{Status: 401}, false},
		{"wrapped", fmt.Errorf("call failed: %w", &AdapterError{Status: 503}), true},
		{"plain", errors.New("bad request"), false},
	}

	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAdapterErrorMessage(t *testing.T) {
	err := &AdapterError{Provider: "cohere", Status: 400, Err: errors.New("API error: bad model")}
	if got := err.Error(); got != "cohere: API error: bad model" {
		t.Fatalf("got %q", got)
	}

	bare := &AdapterError{Provider: "huggingface", Status: 500}
	if got := bare.Error(); got != "huggingface: request failed (status=500)" {
		t.Fatalf("got %q", got)
	}

	anon := &AdapterError{Status: 418, Err: errors.New("teapot")}
	if got := anon.Error(); got != "adapter: teapot" {
		t.Fatalf("got %q", got)
	}
}

func TestAdapterErrorRetryable(t *testing.T) {
	if (&AdapterError{Provider: "grok", Status: 400}).Retryable() {
		t.Fatalf("client error should not retry")
	}
	if !(&AdapterError{Provider: "huggingface", Status: 503, Temporary: true}).Retryable() {
		t.Fatalf("cold start should retry")
	}
	if !(&AdapterError{Provider: "mistral", Status: 429}).Retryable() {
		t.Fatalf("rate limit should retry")
	}
}

func TestResponseHash(t *testing.T) {
	first := NewResponse("hello", "mock", "mock-1")
	second := NewResponse("hello", "mock", "mock-1")
	if first.Hash == "" {
		t.Fatalf("expected a hash")
	}
	if first.Hash != second.Hash {
		t.Fatalf("same content should hash the same")
	}
	if NewResponse("other", "mock", "mock-1").Hash == first.Hash {
		t.Fatalf("different content should hash differently")
	}
}
