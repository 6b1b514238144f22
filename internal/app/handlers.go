package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/shopmind-backend/internal/handlers"
	"github.com/yungbote/shopmind-backend/internal/observability"
	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/server"
)

type Handlers struct {
	User           *handlers.UserHandler
	Category       *handlers.CategoryHandler
	Product        *handlers.ProductHandler
	Search         *handlers.SearchHandler
	Recommendation *handlers.RecommendationHandler
	Feedback       *handlers.FeedbackHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		User:           handlers.NewUserHandler(services.Catalog, services.Recommendation),
		Category:       handlers.NewCategoryHandler(services.Catalog),
		Product:        handlers.NewProductHandler(services.Catalog, services.Embedding),
		Search:         handlers.NewSearchHandler(services.Search, cfg.SimilarityThreshold),
		Recommendation: handlers.NewRecommendationHandler(services.Recommendation),
		Feedback:       handlers.NewFeedbackHandler(services.Feedback),
	}
}

func wireRouter(cfg Config, handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:           cfg.ServiceName,
		AllowedOrigins:        cfg.AllowedOrigins,
		TracingEnabled:        observability.Enabled(),
		UserHandler:           handlerset.User,
		CategoryHandler:       handlerset.Category,
		ProductHandler:        handlerset.Product,
		SearchHandler:         handlerset.Search,
		RecommendationHandler: handlerset.Recommendation,
		FeedbackHandler:       handlerset.Feedback,
	})
}
