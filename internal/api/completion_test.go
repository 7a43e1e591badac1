package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quocvuong92/x-cli/internal/config"
	"github.com/quocvuong92/x-cli/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *CompletionClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{APIBaseURL: server.URL, Model: "test-model"}
	return NewCompletionClient(cfg, "sk-test", logging.Nop())
}

func TestCompletionClient_Complete(t *testing.T) {
	var got CompletionRequest
	var gotAuth, gotPath string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","choices":[{"text":" aws s3 ls\n","index":0,"finish_reason":"stop"}]}`))
	})

	text, err := client.Complete(context.Background(), "# Bash\n# list s3 buckets\n")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != " aws s3 ls\n" {
		t.Errorf("Complete() = %q, want raw first choice text", text)
	}

	if gotPath != "/completions" {
		t.Errorf("path = %q, want /completions", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if got.Model != "test-model" {
		t.Errorf("model = %q, want test-model", got.Model)
	}
	if got.Prompt != "# Bash\n# list s3 buckets\n" {
		t.Errorf("prompt = %q", got.Prompt)
	}
	if got.Temperature != 0 || got.TopP != 1 || got.FrequencyPenalty != 0 || got.PresencePenalty != 0 {
		t.Errorf("sampling parameters = %+v", got)
	}
	if got.MaxTokens != 300 {
		t.Errorf("max_tokens = %d, want 300", got.MaxTokens)
	}
	if len(got.Stop) != 1 || got.Stop[0] != "#" {
		t.Errorf("stop = %v, want [#]", got.Stop)
	}
}

func TestCompletionClient_NoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-2","choices":[]}`))
	})

	_, err := client.Complete(context.Background(), "# Bash\n# x\n")
	if !errors.Is(err, ErrNoChoices) {
		t.Errorf("Complete() error = %v, want ErrNoChoices", err)
	}
}

func TestCompletionClient_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "provider message",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			wantMsg: "completion API error: Incorrect API key provided",
		},
		{
			name:    "no message",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantMsg: "completion API error: status code 500",
		},
		{
			name:    "non-JSON body",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantMsg: "completion API error: status code 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Complete(context.Background(), "# Bash\n# x\n")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Complete() error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", apiErr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCompletionClient_SingleAttempt(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := client.Complete(context.Background(), "# Bash\n# x\n"); err == nil {
		t.Fatal("Complete() expected error")
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}

func TestCompletionClient_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.Complete(ctx, "# Bash\n# x\n")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Complete() error = %v, want context.Canceled", err)
	}
}

func TestNewClient(t *testing.T) {
	cfg := &config.Config{APIBaseURL: "https://api.example.com/v1", Model: "m"}

	if _, err := NewClient(cfg, "", nil); err == nil {
		t.Error("NewClient() with empty token should fail")
	}

	c, err := NewClient(cfg, "sk", nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.(*CompletionClient).url != "https://api.example.com/v1/completions" {
		t.Errorf("url = %q", c.(*CompletionClient).url)
	}
}
