package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/types"
)

// ErrDuplicateFeedback passthrough note: Create returns the raw gorm error;
// with TranslateError enabled a second feedback for the same recommendation
// comes back as gorm.ErrDuplicatedKey and the service layer decides policy.
type RecommendationFeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, feedback *types.RecommendationFeedback) (*types.RecommendationFeedback, error)
	ListByMinRating(ctx context.Context, tx *gorm.DB, minRating int) ([]*types.RecommendationFeedback, error)
	CountByRating(ctx context.Context, tx *gorm.DB) (map[int]int64, error)
}

type recommendationFeedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationFeedbackRepo {
	return &recommendationFeedbackRepo{db: db, log: baseLog.With("repo", "RecommendationFeedbackRepo")}
}

func (r *recommendationFeedbackRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *recommendationFeedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback *types.RecommendationFeedback) (*types.RecommendationFeedback, error) {
	if err := r.conn(tx).WithContext(ctx).Create(feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *recommendationFeedbackRepo) ListByMinRating(ctx context.Context, tx *gorm.DB, minRating int) ([]*types.RecommendationFeedback, error) {
	results := []*types.RecommendationFeedback{}
	if err := r.conn(tx).WithContext(ctx).
		Where("rating >= ?", minRating).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *recommendationFeedbackRepo) CountByRating(ctx context.Context, tx *gorm.DB) (map[int]int64, error) {
	type row struct {
		Rating int
		Total  int64
	}
	var rows []row
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.RecommendationFeedback{}).
		Select("rating, COUNT(*) AS total").
		Group("rating").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[int]int64, len(rows))
	for _, rr := range rows {
		out[rr.Rating] = rr.Total
	}
	return out, nil
}
