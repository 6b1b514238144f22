package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/platform/inference"
	"github.com/yungbote/shopmind-backend/internal/platform/qdrant"
	"github.com/yungbote/shopmind-backend/internal/repos"
	"github.com/yungbote/shopmind-backend/internal/types"
)

const embedCacheTTL = 7 * 24 * time.Hour

// EmbeddingService derives product searchable text, produces embeddings, and
// keeps the vector index in sync with the catalog. The index write is not
// transactional with the relational write; a failure here is logged and left
// to ReembedProduct reconciliation.
type EmbeddingService interface {
	ProductText(name, categoryName, description string) string
	EmbedText(ctx context.Context, text string) ([]float32, error)
	IndexProduct(ctx context.Context, product *types.Product, categoryName string) error
	ReembedProduct(ctx context.Context, productID uint) error
}

type embeddingService struct {
	log          *logger.Logger
	inf          inference.Client
	vectors      qdrant.VectorStore
	productRepo  repos.ProductRepo
	categoryRepo repos.CategoryRepo
	cache        *goredis.Client
}

func NewEmbeddingService(
	log *logger.Logger,
	inf inference.Client,
	vectors qdrant.VectorStore,
	productRepo repos.ProductRepo,
	categoryRepo repos.CategoryRepo,
	cache *goredis.Client,
) EmbeddingService {
	return &embeddingService{
		log:          log.With("service", "EmbeddingService"),
		inf:          inf,
		vectors:      vectors,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// ProductText is the canonical searchable representation. The vector stored
// under the product id is always the embedding of exactly this string, so
// any change to name, category, or description requires re-embedding.
func (s *embeddingService) ProductText(name, categoryName, description string) string {
	return fmt.Sprintf("Product name is %s and category is %s. Description: %s", name, categoryName, description)
}

func (s *embeddingService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := s.cacheGet(ctx, text); ok {
		return vec, nil
	}

	vecs, err := s.inf.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vecs))
	}

	s.cacheSet(ctx, text, vecs[0])
	return vecs[0], nil
}

func (s *embeddingService) IndexProduct(ctx context.Context, product *types.Product, categoryName string) error {
	if product == nil {
		return fmt.Errorf("product required")
	}
	text := s.ProductText(product.Name, categoryName, product.Description)
	vec, err := s.EmbedText(ctx, text)
	if err != nil {
		return fmt.Errorf("embed product %d: %w", product.ID, err)
	}
	if err := s.vectors.UpsertProduct(ctx, product.ID, vec); err != nil {
		return fmt.Errorf("upsert product %d vector: %w", product.ID, err)
	}
	return nil
}

// ReembedProduct re-derives and re-indexes one product on demand. This is
// the reconciliation hook for the non-transactional write window between the
// relational store and the vector index.
func (s *embeddingService) ReembedProduct(ctx context.Context, productID uint) error {
	product, err := s.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("product %d not found", productID)
	}
	category, err := s.categoryRepo.GetByID(ctx, nil, product.CategoryID)
	if err != nil {
		return err
	}
	categoryName := ""
	if category != nil {
		categoryName = category.Name
	}
	return s.IndexProduct(ctx, product, categoryName)
}

// Embeddings are deterministic per input, so a text-keyed cache is safe. The
// cache is best-effort: redis being down never fails an embed.
func (s *embeddingService) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embed:" + hex.EncodeToString(sum[:])
}

func (s *embeddingService) cacheGet(ctx context.Context, text string) ([]float32, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(text)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			s.log.Warn("Embedding cache read failed", "error", err)
		}
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		s.log.Warn("Embedding cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	return vec, true
}

func (s *embeddingService) cacheSet(ctx context.Context, text string, vec []float32) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(text), raw, embedCacheTTL).Err(); err != nil {
		s.log.Warn("Embedding cache write failed", "error", err)
	}
}
