package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
)

func TestUpsertProductRequestShape(t *testing.T) {
	var captured map[string]any
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPut {
			t.Fatalf("method: want=%s got=%s", http.MethodPut, r.Method)
		}
		if r.URL.Path != "/collections/product/points" {
			t.Fatalf("path: want=%q got=%q", "/collections/product/points", r.URL.Path)
		}
		if r.URL.RawQuery != "wait=true" {
			t.Fatalf("query: want=%q got=%q", "wait=true", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return okResponse(t, nil), nil
	})

	if err := s.UpsertProduct(context.Background(), 42, []float32{1, 2, 3}); err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}

	points, ok := captured["points"].([]any)
	if !ok {
		t.Fatalf("points type: got=%T", captured["points"])
	}
	if len(points) != 1 {
		t.Fatalf("points length: want=1 got=%d", len(points))
	}
	first, ok := points[0].(map[string]any)
	if !ok {
		t.Fatalf("point[0] type: got=%T", points[0])
	}
	if got := first["id"]; got != float64(42) {
		t.Fatalf("point id: want=42 got=%v", got)
	}
}

func TestUpsertProductRejectsDimensionMismatch(t *testing.T) {
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		return nil, nil
	})

	err := s.UpsertProduct(context.Background(), 1, []float32{1, 2})
	var opErrTyped *OperationError
	if !errors.As(err, &opErrTyped) {
		t.Fatalf("error type: got=%T", err)
	}
	if opErrTyped.Code != OperationErrorValidation {
		t.Fatalf("error code: want=%s got=%s", OperationErrorValidation, opErrTyped.Code)
	}
}

func TestQueryProductIDsOrdersByScoreThenID(t *testing.T) {
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("method: want=%s got=%s", http.MethodPost, r.Method)
		}
		if r.URL.Path != "/collections/product/points/search" {
			t.Fatalf("path: got=%q", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if got := body["score_threshold"]; got != 0.3 {
			t.Fatalf("score_threshold: want=0.3 got=%v", got)
		}
		if got := body["limit"]; got != float64(50) {
			t.Fatalf("limit: want=50 got=%v", got)
		}
		return okResponse(t, []map[string]any{
			{"id": 7, "score": 0.5},
			{"id": 3, "score": 0.9},
			{"id": 5, "score": 0.5},
		}), nil
	})

	ids, err := s.QueryProductIDs(context.Background(), []float32{1, 2, 3}, 50, 0.3)
	if err != nil {
		t.Fatalf("QueryProductIDs: %v", err)
	}
	want := []uint{3, 5, 7}
	if len(ids) != len(want) {
		t.Fatalf("ids length: want=%d got=%d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids[%d]: want=%d got=%d", i, want[i], ids[i])
		}
	}
}

func TestEnsureCollectionCreatesOnNotFound(t *testing.T) {
	var createReq map[string]any
	calls := 0
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		calls++
		switch calls {
		case 1:
			if r.Method != http.MethodGet {
				t.Fatalf("first call method: want=GET got=%s", r.Method)
			}
			return errorResponse(t, http.StatusNotFound, "not found"), nil
		case 2:
			if r.Method != http.MethodPut {
				t.Fatalf("second call method: want=PUT got=%s", r.Method)
			}
			if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
				t.Fatalf("decode create body: %v", err)
			}
			return okResponse(t, nil), nil
		default:
			t.Fatalf("unexpected call %d", calls)
			return nil, nil
		}
	})

	if err := s.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	vectors, ok := createReq["vectors"].(map[string]any)
	if !ok {
		t.Fatalf("vectors type: got=%T", createReq["vectors"])
	}
	if got := vectors["distance"]; got != "Cosine" {
		t.Fatalf("distance: want=Cosine got=%v", got)
	}
	if got := vectors["size"]; got != float64(3) {
		t.Fatalf("size: want=3 got=%v", got)
	}
}

func TestEnsureCollectionNoopsWhenPresent(t *testing.T) {
	calls := 0
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return okResponse(t, map[string]any{
			"config": map[string]any{
				"params": map[string]any{
					"vectors": map[string]any{"size": 3, "distance": "Cosine"},
				},
			},
		}), nil
	})

	if err := s.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls: want=1 got=%d", calls)
	}
}

func TestDoJSONSurfacesQdrantErrorStatus(t *testing.T) {
	s := newTestVectorStore(t, func(r *http.Request) (*http.Response, error) {
		return errorResponse(t, http.StatusBadRequest, "wrong vector size"), nil
	})

	err := s.UpsertProduct(context.Background(), 1, []float32{1, 2, 3})
	var opErrTyped *OperationError
	if !errors.As(err, &opErrTyped) {
		t.Fatalf("error type: got=%T", err)
	}
	if opErrTyped.Code != OperationErrorQueryFailed {
		t.Fatalf("error code: want=%s got=%s", OperationErrorQueryFailed, opErrTyped.Code)
	}
	if opErrTyped.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code: want=%d got=%d", http.StatusBadRequest, opErrTyped.StatusCode)
	}
}

func newTestVectorStore(t *testing.T, roundTrip func(*http.Request) (*http.Response, error)) *vectorStore {
	t.Helper()
	return &vectorStore{
		log:     newTestLogger(t),
		cfg:     Config{URL: "http://qdrant.local", Collection: "product", VectorDim: 3},
		baseURL: "http://qdrant.local",
		http: &http.Client{
			Transport: roundTripFunc(roundTrip),
		},
	}
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func okResponse(t *testing.T, result any) *http.Response {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"result": result,
		"status": "ok",
		"time":   0.001,
	})
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func errorResponse(t *testing.T, status int, message string) *http.Response {
	t.Helper()
	body := fmt.Sprintf(`{"status":{"error":%q},"time":0.001}`, message)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
