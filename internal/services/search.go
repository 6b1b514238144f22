package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/platform/qdrant"
	"github.com/yungbote/shopmind-backend/internal/repos"
	"github.com/yungbote/shopmind-backend/internal/types"
)

const vectorSearchTopK = 50

// SearchParams is the full hybrid-search input. UserID, price bounds and
// MinStock are optional; SimilarityThreshold only applies when UseVector is
// set.
type SearchParams struct {
	UserID              *uint
	Query               string
	MinPrice            *float64
	MaxPrice            *float64
	MinStock            *int
	UseVector           bool
	SimilarityThreshold float64
}

// SearchService merges the keyword and vector retrieval paths under one
// structural filter set. Output ordering is part of the contract: keyword
// matches first, then vector matches not already present, de-duplicated by
// product id.
type SearchService interface {
	Search(ctx context.Context, params SearchParams) ([]*types.Product, error)
}

type searchService struct {
	db          *gorm.DB
	log         *logger.Logger
	tokenizer   *Tokenizer
	productRepo repos.ProductRepo
	historyRepo repos.SearchHistoryRepo
	embedder    EmbeddingService
	vectors     qdrant.VectorStore
}

func NewSearchService(
	db *gorm.DB,
	log *logger.Logger,
	tokenizer *Tokenizer,
	productRepo repos.ProductRepo,
	historyRepo repos.SearchHistoryRepo,
	embedder EmbeddingService,
	vectors qdrant.VectorStore,
) SearchService {
	return &searchService{
		db:          db,
		log:         log.With("service", "SearchService"),
		tokenizer:   tokenizer,
		productRepo: productRepo,
		historyRepo: historyRepo,
		embedder:    embedder,
		vectors:     vectors,
	}
}

func (s *searchService) Search(ctx context.Context, params SearchParams) ([]*types.Product, error) {
	if params.UserID != nil {
		s.recordHistory(*params.UserID, params.Query)
	}

	filter := repos.ProductFilter{
		Tokens:   s.tokenizer.Clean(params.Query),
		MinPrice: params.MinPrice,
		MaxPrice: params.MaxPrice,
		MinStock: params.MinStock,
	}

	var keywordResults []*types.Product
	var vectorResults []*types.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.productRepo.Search(gctx, nil, filter)
		if err != nil {
			return err
		}
		keywordResults = found
		return nil
	})
	if params.UseVector {
		g.Go(func() error {
			found, err := s.vectorPath(gctx, params)
			if err != nil {
				// Documented fallback: a vector-side failure degrades the
				// search to keyword-only rather than failing the request.
				s.log.Warn("Vector retrieval path unavailable, serving keyword-only results", "error", err)
				return nil
			}
			vectorResults = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := keywordResults
	seen := make(map[uint]struct{}, len(keywordResults))
	for _, p := range keywordResults {
		seen[p.ID] = struct{}{}
	}
	for _, p := range vectorResults {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}
	return merged, nil
}

// vectorPath embeds the raw query, pulls similar product ids, then re-applies
// the same structural filters. Stock policy is unified with the keyword path:
// stock must exceed min_stock, defaulting to zero.
func (s *searchService) vectorPath(ctx context.Context, params SearchParams) ([]*types.Product, error) {
	queryVec, err := s.embedder.EmbedText(ctx, params.Query)
	if err != nil {
		return nil, err
	}

	ids, err := s.vectors.QueryProductIDs(ctx, queryVec, vectorSearchTopK, params.SimilarityThreshold)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	products, err := s.productRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*types.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	minStock := 0
	if params.MinStock != nil {
		minStock = *params.MinStock
	}

	// Iterate in similarity order so merge ordering stays deterministic.
	out := make([]*types.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if p.Stock <= minStock {
			continue
		}
		if params.MinPrice != nil && p.Price < *params.MinPrice {
			continue
		}
		if params.MaxPrice != nil && p.Price > *params.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// recordHistory appends the raw query for the user without blocking the
// search. Append-only, best-effort; a failed write is logged and dropped.
func (s *searchService) recordHistory(userID uint, query string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := s.historyRepo.Create(ctx, nil, &types.SearchHistory{
			UserID: userID,
			Query:  query,
		})
		if err != nil {
			s.log.Warn("Failed to record search history", "user_id", userID, "error", err)
		}
	}()
}
