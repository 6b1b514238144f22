package repos

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/types"
)

// ProductFilter is the shared structural constraint set for both retrieval
// paths. Tokens build a case-insensitive substring OR-match over name and
// description; a product qualifies when any token hits either field. When
// MinStock is unset the default policy excludes out-of-stock rows
// (stock > 0).
type ProductFilter struct {
	Tokens   []string
	MinPrice *float64
	MaxPrice *float64
	MinStock *int
}

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, productID uint) (*types.Product, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]*types.Product, error)
	Update(ctx context.Context, tx *gorm.DB, productID uint, updates map[string]any) (*types.Product, error)
	Search(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*types.Product, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error) {
	if err := r.conn(tx).WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetByID(ctx context.Context, tx *gorm.DB, productID uint) (*types.Product, error) {
	var product types.Product
	err := r.conn(tx).WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]*types.Product, error) {
	results := []*types.Product{}
	if len(productIDs) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productRepo) Update(ctx context.Context, tx *gorm.DB, productID uint, updates map[string]any) (*types.Product, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, tx, productID)
	}
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", productID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, tx, productID)
}

// Search runs the keyword retrieval path in one query. LOWER(...) LIKE keeps
// the substring match case-insensitive on both postgres and sqlite.
func (r *productRepo) Search(ctx context.Context, tx *gorm.DB, filter ProductFilter) ([]*types.Product, error) {
	q := r.conn(tx).WithContext(ctx).Model(&types.Product{})

	var clauses []string
	var args []any
	for _, token := range filter.Tokens {
		pattern := "%" + strings.ToLower(token) + "%"
		clauses = append(clauses, "LOWER(name) LIKE ?", "LOWER(description) LIKE ?")
		args = append(args, pattern, pattern)
	}
	if len(clauses) > 0 {
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinStock != nil {
		q = q.Where("stock > ?", *filter.MinStock)
	} else {
		q = q.Where("stock > 0")
	}

	results := []*types.Product{}
	if err := q.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
