package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
)

const maxErrorBodyBytes = 1024

// VectorStore is the product vector index: one cosine-distance vector per
// product, keyed by the integer product id. Upsert overwrites.
type VectorStore interface {
	EnsureCollection(ctx context.Context) error
	UpsertProduct(ctx context.Context, productID uint, vector []float32) error
	QueryProductIDs(ctx context.Context, query []float32, topK int, scoreThreshold float64) ([]uint, error)
}

type vectorStore struct {
	log     *logger.Logger
	cfg     Config
	baseURL string
	http    *http.Client
}

type qdrantEnvelope struct {
	Result json.RawMessage `json:"result"`
	Status json.RawMessage `json:"status"`
	Time   float64         `json:"time"`
}

type searchResultItem struct {
	ID    uint    `json:"id"`
	Score float64 `json:"score"`
}

func NewVectorStore(log *logger.Logger, cfg Config) (VectorStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &vectorStore{
		log:     log.With("service", "QdrantVectorStore"),
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// EnsureCollection creates the product collection if it does not exist yet.
// Idempotent: an existing collection with a matching vector size is a no-op.
func (s *vectorStore) EnsureCollection(ctx context.Context) error {
	const op = "ensure_collection"

	var describe struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	}
	err := s.doJSON(ctx, op, http.MethodGet, s.collectionPath(""), nil, &describe)
	if err == nil {
		size := describe.Config.Params.Vectors.Size
		if size != 0 && size != s.cfg.VectorDim {
			return &OperationError{
				Code:      OperationErrorValidation,
				Operation: op,
				Message: fmt.Sprintf(
					"collection %q vector size mismatch: expected=%d actual=%d",
					s.cfg.Collection,
					s.cfg.VectorDim,
					size,
				),
			}
		}
		s.log.Debug("Collection already exists", "collection", s.cfg.Collection)
		return nil
	}

	var opErrTyped *OperationError
	if !errors.As(err, &opErrTyped) || opErrTyped.StatusCode != http.StatusNotFound {
		return err
	}

	s.log.Info("Collection not found, creating...", "collection", s.cfg.Collection, "vector_dim", s.cfg.VectorDim)
	req := map[string]any{
		"vectors": map[string]any{
			"size":     s.cfg.VectorDim,
			"distance": "Cosine",
		},
	}
	return s.doJSON(ctx, op, http.MethodPut, s.collectionPath(""), req, nil)
}

func (s *vectorStore) UpsertProduct(ctx context.Context, productID uint, vector []float32) error {
	if s == nil {
		return fmt.Errorf("vector store unavailable")
	}
	const op = "upsert"
	if productID == 0 {
		return opErr(op, OperationErrorValidation, "product id is required", nil)
	}
	if len(vector) == 0 {
		return opErr(op, OperationErrorValidation, fmt.Sprintf("vector for product %d has empty values", productID), nil)
	}
	if s.cfg.VectorDim > 0 && len(vector) != s.cfg.VectorDim {
		return opErr(
			op,
			OperationErrorValidation,
			fmt.Sprintf(
				"vector for product %d dimension mismatch: expected=%d got=%d",
				productID,
				s.cfg.VectorDim,
				len(vector),
			),
			nil,
		)
	}

	req := map[string]any{
		"points": []map[string]any{
			{
				"id":     productID,
				"vector": vector,
			},
		},
	}
	return s.doJSON(ctx, op, http.MethodPut, s.collectionPath("/points?wait=true"), req, nil)
}

// QueryProductIDs returns up to topK product ids with cosine similarity at or
// above scoreThreshold, ordered by descending similarity. Equal scores fall
// back to ascending id so the ordering stays deterministic.
func (s *vectorStore) QueryProductIDs(ctx context.Context, query []float32, topK int, scoreThreshold float64) ([]uint, error) {
	if s == nil {
		return nil, fmt.Errorf("vector store unavailable")
	}
	const op = "query"
	if len(query) == 0 {
		return nil, opErr(op, OperationErrorValidation, "query vector required", nil)
	}
	if s.cfg.VectorDim > 0 && len(query) != s.cfg.VectorDim {
		return nil, opErr(
			op,
			OperationErrorValidation,
			fmt.Sprintf("query vector dimension mismatch: expected=%d got=%d", s.cfg.VectorDim, len(query)),
			nil,
		)
	}
	if topK <= 0 {
		topK = 50
	}

	req := map[string]any{
		"vector":          query,
		"limit":           topK,
		"score_threshold": scoreThreshold,
		"with_payload":    false,
		"with_vector":     false,
	}
	var rawResults []searchResultItem
	if err := s.doJSON(
		ctx,
		op,
		http.MethodPost,
		s.collectionPath("/points/search"),
		req,
		&rawResults,
	); err != nil {
		return nil, err
	}

	sort.SliceStable(rawResults, func(i, j int) bool {
		if rawResults[i].Score == rawResults[j].Score {
			return rawResults[i].ID < rawResults[j].ID
		}
		return rawResults[i].Score > rawResults[j].Score
	})

	out := make([]uint, 0, len(rawResults))
	for _, item := range rawResults {
		if item.ID == 0 {
			continue
		}
		out = append(out, item.ID)
	}
	return out, nil
}

func (s *vectorStore) doJSON(ctx context.Context, op, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return opErr(op, OperationErrorEncodeFailed, "encode request failed", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return classifyHTTPCallError(op, "qdrant request failed", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 10*maxErrorBodyBytes))
	if readErr != nil {
		return opErr(op, OperationErrorDecodeFailed, "read response failed", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("qdrant http status=%d body=%q", resp.StatusCode, truncateBody(raw)),
		}
	}

	var envelope qdrantEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode qdrant envelope failed", err)
	}
	if statusErr := parseEnvelopeStatus(envelope.Status); statusErr != "" {
		return &OperationError{
			Code:       OperationErrorQueryFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    statusErr,
		}
	}

	if out == nil {
		return nil
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode qdrant result failed", err)
	}
	return nil
}

func classifyHTTPCallError(op, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	return opErr(op, OperationErrorTransportFailed, message, err)
}

func parseEnvelopeStatus(raw json.RawMessage) string {
	status := strings.TrimSpace(string(raw))
	if status == "" || status == "null" {
		return ""
	}

	var statusString string
	if err := json.Unmarshal(raw, &statusString); err == nil {
		if strings.EqualFold(statusString, "ok") || strings.EqualFold(statusString, "acknowledged") || strings.EqualFold(statusString, "completed") {
			return ""
		}
		return fmt.Sprintf("qdrant status=%q", statusString)
	}

	var statusObject struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &statusObject); err == nil {
		if strings.TrimSpace(statusObject.Error) != "" {
			return strings.TrimSpace(statusObject.Error)
		}
	}

	return fmt.Sprintf("qdrant status=%s", status)
}

func truncateBody(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}

func (s *vectorStore) collectionPath(suffix string) string {
	path := "/collections/" + s.cfg.Collection
	if strings.TrimSpace(suffix) == "" {
		return path
	}
	return path + suffix
}
