package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/types"
)

type AICallLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.AICallLog) (*types.AICallLog, error)
}

type aiCallLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAICallLogRepo(db *gorm.DB, baseLog *logger.Logger) AICallLogRepo {
	return &aiCallLogRepo{db: db, log: baseLog.With("repo", "AICallLogRepo")}
}

func (r *aiCallLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.AICallLog) (*types.AICallLog, error) {
	conn := tx
	if conn == nil {
		conn = r.db
	}
	if err := conn.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}
