package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	Category      repos.CategoryRepo
	Product       repos.ProductRepo
	SearchHistory repos.SearchHistoryRepo
	Rec           repos.RecommendationRepo
	Feedback      repos.RecommendationFeedbackRepo
	AICallLog     repos.AICallLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Category:      repos.NewCategoryRepo(db, log),
		Product:       repos.NewProductRepo(db, log),
		SearchHistory: repos.NewSearchHistoryRepo(db, log),
		Rec:           repos.NewRecommendationRepo(db, log),
		Feedback:      repos.NewRecommendationFeedbackRepo(db, log),
		AICallLog:     repos.NewAICallLogRepo(db, log),
	}
}
