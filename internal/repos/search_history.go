package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/types"
)

type SearchHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.SearchHistory) (*types.SearchHistory, error)
	ListQueriesByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]string, error)
}

type searchHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchHistoryRepo(db *gorm.DB, baseLog *logger.Logger) SearchHistoryRepo {
	return &searchHistoryRepo{db: db, log: baseLog.With("repo", "SearchHistoryRepo")}
}

func (r *searchHistoryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *searchHistoryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.SearchHistory) (*types.SearchHistory, error) {
	if err := r.conn(tx).WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListQueriesByUser returns raw queries in insertion order, which is the
// chronological order the prompt builder depends on.
func (r *searchHistoryRepo) ListQueriesByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]string, error) {
	queries := []string{}
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.SearchHistory{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("query", &queries).Error; err != nil {
		return nil, err
	}
	return queries, nil
}
