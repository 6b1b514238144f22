package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/types"
)

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error)
	GetByID(ctx context.Context, tx *gorm.DB, categoryID uint) (*types.Category, error)
	Update(ctx context.Context, tx *gorm.DB, categoryID uint, updates map[string]any) (*types.Category, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *categoryRepo) Create(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error) {
	if err := r.conn(tx).WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, tx *gorm.DB, categoryID uint) (*types.Category, error) {
	var category types.Category
	err := r.conn(tx).WithContext(ctx).First(&category, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Update(ctx context.Context, tx *gorm.DB, categoryID uint, updates map[string]any) (*types.Category, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, tx, categoryID)
	}
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Category{}).
		Where("id = ?", categoryID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, tx, categoryID)
}
