package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/types"
	"github.com/yungbote/shopmind-backend/internal/utils"
)

// DatabaseService owns the gorm handle for the relational store. DB_DRIVER
// selects postgres (default) or sqlite for local runs, matching the
// environments the service is deployed in. TranslateError is on so
// duplicate-key writes surface as gorm.ErrDuplicatedKey instead of
// driver-specific strings.
type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
	serviceLog := log.With("service", "DatabaseService")

	driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log))

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "shopmind.db", log)
		dialector = sqlite.Open(path)
	case "postgres":
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "shopmind", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	serviceLog.Info("Connecting to relational store...", "driver", driver)
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to relational store", "driver", driver, "error", err)
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	return &DatabaseService{db: gdb, log: serviceLog}, nil
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Category{},
		&types.Product{},
		&types.SearchHistory{},
		&types.Recommendation{},
		&types.RecommendationFeedback{},
		&types.AICallLog{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *DatabaseService) DB() *gorm.DB {
	return s.db
}

func (s *DatabaseService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
