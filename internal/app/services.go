package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/services"
)

type Services struct {
	Embedding      services.EmbeddingService
	Search         services.SearchService
	Catalog        services.CatalogService
	Recommendation services.RecommendationService
	Feedback       services.FeedbackService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	tokenizer := services.NewTokenizer()

	embedding := services.NewEmbeddingService(
		log, clients.Inference, clients.Vectors,
		reposet.Product, reposet.Category, clients.Redis,
	)
	search := services.NewSearchService(
		db, log, tokenizer,
		reposet.Product, reposet.SearchHistory,
		embedding, clients.Vectors,
	)
	catalog := services.NewCatalogService(
		db, log,
		reposet.User, reposet.Category, reposet.Product,
		embedding,
	)
	recommendation := services.NewRecommendationService(
		db, log,
		reposet.User, reposet.SearchHistory, reposet.Rec, reposet.AICallLog,
		search, clients.Inference,
		services.RecommendationConfig{
			SimilarityThreshold: cfg.SimilarityThreshold,
			MaxOutputTokens:     cfg.MaxOutputTokens,
			InferenceTimeout:    cfg.InferenceTimeout,
		},
	)
	feedback := services.NewFeedbackService(
		db, log,
		reposet.User, reposet.Product, reposet.SearchHistory,
		reposet.Rec, reposet.Feedback,
		search,
		services.FeedbackConfig{SimilarityThreshold: cfg.SimilarityThreshold},
	)

	return Services{
		Embedding:      embedding,
		Search:         search,
		Catalog:        catalog,
		Recommendation: recommendation,
		Feedback:       feedback,
	}
}
