package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
)

func TestGenerateSendsBeamSearchConfig(t *testing.T) {
	var captured map[string]any
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/completions" {
			t.Fatalf("path: got=%q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"choices": []map[string]any{{"text": "Laptop"}},
		}), nil
	})

	out, err := c.Generate(context.Background(), "pick one", 30)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Laptop" {
		t.Fatalf("output: want=Laptop got=%q", out)
	}
	if got := captured["num_beams"]; got != float64(5) {
		t.Fatalf("num_beams: want=5 got=%v", got)
	}
	if got := captured["early_stopping"]; got != true {
		t.Fatalf("early_stopping: want=true got=%v", got)
	}
	if got := captured["max_tokens"]; got != float64(30) {
		t.Fatalf("max_tokens: want=30 got=%v", got)
	}
	if got := captured["temperature"]; got != float64(0) {
		t.Fatalf("temperature: want=0 got=%v", got)
	}
}

func TestEmbedReordersByIndex(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1/embeddings" {
			t.Fatalf("path: got=%q", r.URL.Path)
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{4, 5, 6}, "index": 1},
				{"embedding": []float64{1, 2, 3}, "index": 0},
			},
		}), nil
	})

	vecs, err := c.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("vectors: want=2 got=%d", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[1][0] != 4 {
		t.Fatalf("ordering: got=%v", vecs)
	}
}

func TestDoRetriesOn503ThenSucceeds(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return jsonResponse(t, http.StatusServiceUnavailable, map[string]any{"error": "busy"}), nil
		}
		return jsonResponse(t, http.StatusOK, map[string]any{
			"choices": []map[string]any{{"text": "ok"}},
		}), nil
	})

	out, err := c.Generate(context.Background(), "p", 10)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "ok" {
		t.Fatalf("output: got=%q", out)
	}
	if calls != 2 {
		t.Fatalf("calls: want=2 got=%d", calls)
	}
}

func TestDoDoesNotRetryOn400(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(t, http.StatusBadRequest, map[string]any{"error": "bad prompt"}), nil
	})

	if _, err := c.Generate(context.Background(), "p", 10); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls: want=1 got=%d", calls)
	}
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		cancel()
		return jsonResponse(t, http.StatusServiceUnavailable, map[string]any{"error": "busy"}), nil
	})

	_, err := c.Generate(ctx, "p", 10)
	if err == nil {
		t.Fatalf("expected error after cancel")
	}
}

func newTestClient(t *testing.T, roundTrip func(*http.Request) (*http.Response, error)) *client {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return &client{
		log:        log,
		baseURL:    "http://inference.local",
		genModel:   "fine-tuned-flan-t5-small",
		embedModel: "all-MiniLM-L6-v2",
		httpClient: &http.Client{
			Transport: testRoundTripFunc(roundTrip),
			Timeout:   5 * time.Second,
		},
		maxRetries: 2,
		beamWidth:  5,
	}
}

func jsonResponse(t *testing.T, status int, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

type testRoundTripFunc func(*http.Request) (*http.Response, error)

func (f testRoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
