package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/shopmind-backend/internal/handlers"
	"github.com/yungbote/shopmind-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName           string
	AllowedOrigins        []string
	TracingEnabled        bool
	UserHandler           *handlers.UserHandler
	CategoryHandler       *handlers.CategoryHandler
	ProductHandler        *handlers.ProductHandler
	SearchHandler         *handlers.SearchHandler
	RecommendationHandler *handlers.RecommendationHandler
	FeedbackHandler       *handlers.FeedbackHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestID())
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}

	// Cors
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Users
		api.POST("/users", cfg.UserHandler.Create)
		api.GET("/users/:id", cfg.UserHandler.Get)
		api.PATCH("/users/:id", cfg.UserHandler.Update)
		api.GET("/users/:id/profile", cfg.UserHandler.Profile)
		api.POST("/users/:id/recommendation", cfg.RecommendationHandler.Recommend)

		// Categories
		api.POST("/categories", cfg.CategoryHandler.Create)
		api.GET("/categories/:id", cfg.CategoryHandler.Get)
		api.PATCH("/categories/:id", cfg.CategoryHandler.Update)

		// Products
		api.POST("/products", cfg.ProductHandler.Create)
		api.GET("/products/:id", cfg.ProductHandler.Get)
		api.PATCH("/products/:id", cfg.ProductHandler.Update)
		api.POST("/products/:id/reembed", cfg.ProductHandler.Reembed)

		// Search
		api.GET("/search", cfg.SearchHandler.Search)

		// Feedback
		api.POST("/recommendations/:id/feedback", cfg.FeedbackHandler.Record)
		api.GET("/feedback/summary", cfg.FeedbackHandler.Summary)
	}

	return router
}
