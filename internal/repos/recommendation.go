package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/types"
)

type RecommendationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *types.Recommendation) (*types.Recommendation, error)
	GetByID(ctx context.Context, tx *gorm.DB, recommendationID uint) (*types.Recommendation, error)
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	return &recommendationRepo{db: db, log: baseLog.With("repo", "RecommendationRepo")}
}

func (r *recommendationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *recommendationRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.Recommendation) (*types.Recommendation, error) {
	if err := r.conn(tx).WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *recommendationRepo) GetByID(ctx context.Context, tx *gorm.DB, recommendationID uint) (*types.Recommendation, error) {
	var rec types.Recommendation
	err := r.conn(tx).WithContext(ctx).First(&rec, recommendationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
