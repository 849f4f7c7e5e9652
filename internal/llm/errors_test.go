package llm

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestAsRateLimit_TypedError(t *testing.T) {
	inner := &RateLimitError{RetryAfter: 5 * time.Second, Err: errors.New("429")}
	wrapped := fmt.Errorf("openai: %w", inner)

	rl, ok := AsRateLimit(wrapped)
	if !ok {
		t.Fatal("expected typed rate-limit error to classify")
	}
	if rl.RetryAfter != 5*time.Second {
		t.Errorf("expected retry-after 5s, got %v", rl.RetryAfter)
	}
}

func TestAsRateLimit_MessageSniffing(t *testing.T) {
	cases := []struct {
		err   error
		want  bool
		delay time.Duration
	}{
		{errors.New("API error (429): too many requests"), true, 0},
		{errors.New("rate limit exceeded, please retry after 12s"), true, 12 * time.Second},
		{errors.New("quota exhausted, try again in 3s"), true, 3 * time.Second},
		{errors.New("RESOURCE_EXHAUSTED: generate quota"), true, 0},
		{errors.New("connection refused"), false, 0},
		{errors.New("invalid api key"), false, 0},
	}

	for _, tc := range cases {
		rl, ok := AsRateLimit(tc.err)
		if ok != tc.want {
			t.Errorf("%q: classified=%v, want %v", tc.err, ok, tc.want)
			continue
		}
		if ok && rl.RetryAfter != tc.delay {
			t.Errorf("%q: retry-after=%v, want %v", tc.err, rl.RetryAfter, tc.delay)
		}
	}
}

func TestAsRateLimit_Nil(t *testing.T) {
	if _, ok := AsRateLimit(nil); ok {
		t.Error("nil error must not classify as rate limit")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	if err != nil || p != nil {
		t.Errorf("empty provider should disable generation, got %v / %v", p, err)
	}

	if _, err := NewProvider(Config{Provider: "telepathy"}); err == nil {
		t.Error("expected error for unknown provider")
	}

	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("expected error for openai without API key")
	}

	p, err = NewProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("ollama provider should not require a key: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("expected ollama, got %s", p.Name())
	}
}

func TestNewProviderPair(t *testing.T) {
	primary, secondary, err := NewProviderPair(Config{Provider: ""})
	if err != nil || primary != nil || secondary != nil {
		t.Errorf("disabled config should yield nil handles, got %v/%v/%v", primary, secondary, err)
	}

	primary, secondary, err = NewProviderPair(Config{
		Provider:      "ollama",
		Model:         "llama3.2",
		FallbackModel: "llama3.2:1b",
	})
	if err != nil {
		t.Fatalf("pair construction failed: %v", err)
	}
	if primary == nil || secondary == nil {
		t.Fatal("expected both handles configured")
	}

	primary, secondary, err = NewProviderPair(Config{Provider: "ollama", Model: "llama3.2"})
	if err != nil || primary == nil {
		t.Fatalf("expected primary only, got %v/%v", primary, err)
	}
	if secondary != nil {
		t.Error("expected nil secondary without a fallback model")
	}
}
