package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newFakeOllama(t *testing.T, response string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Stream {
			t.Error("classifier must request a non-streaming completion")
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(generateResponse{Response: response})
	}))
}

func newTestClassifier(t *testing.T, server *httptest.Server) *Classifier {
	t.Helper()
	client := NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second}, zap.NewNop())
	return NewClassifier(client, zap.NewNop())
}

func TestClassify_ValidTag(t *testing.T) {
	server := newFakeOllama(t, "alarm", http.StatusOK)
	defer server.Close()

	tag, err := newTestClassifier(t, server).Classify(context.Background(), "something is burning", []string{"alarm", "greeting"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "alarm" {
		t.Errorf("tag = %q, want alarm", tag)
	}
}

func TestClassify_NoneSentinel(t *testing.T) {
	server := newFakeOllama(t, "NONE", http.StatusOK)
	defer server.Close()

	tag, err := newTestClassifier(t, server).Classify(context.Background(), "xyz", []string{"alarm"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "" {
		t.Errorf("tag = %q, want empty", tag)
	}
}

func TestClassify_TokenOutsideTagSet(t *testing.T) {
	server := newFakeOllama(t, "definitely-not-a-tag", http.StatusOK)
	defer server.Close()

	tag, err := newTestClassifier(t, server).Classify(context.Background(), "xyz", []string{"alarm"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "" {
		t.Errorf("unexpected token must be treated as no match, got %q", tag)
	}
}

func TestClassify_ChattyModelFirstLineWins(t *testing.T) {
	server := newFakeOllama(t, "greeting\nBecause the user said hello.", http.StatusOK)
	defer server.Close()

	tag, err := newTestClassifier(t, server).Classify(context.Background(), "salem", []string{"alarm", "greeting"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "greeting" {
		t.Errorf("tag = %q, want greeting", tag)
	}
}

func TestClassify_EmptyTagSet(t *testing.T) {
	// Must short-circuit without touching the network.
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	tag, err := NewClassifier(client, zap.NewNop()).Classify(context.Background(), "xyz", nil)
	if err != nil || tag != "" {
		t.Errorf("Classify with no tags = (%q, %v), want (\"\", nil)", tag, err)
	}
}

func TestClassify_ServerUnreachable(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, zap.NewNop())
	_, err := NewClassifier(client, zap.NewNop()).Classify(context.Background(), "xyz", []string{"alarm"})
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
}

func TestClassifyPrompt_EnumeratesTags(t *testing.T) {
	prompt := classifyPrompt("qayerde", []string{"alarm", "greeting"})
	for _, want := range []string{"- alarm", "- greeting", "qayerde", "NONE"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerate_NDJSONFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{\"response\":\"ala\"}\n{\"response\":\"rm\"}\n"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, zap.NewNop())
	out, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "alarm" {
		t.Errorf("out = %q, want alarm", out)
	}
}
