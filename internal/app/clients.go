package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/platform/inference"
	"github.com/yungbote/shopmind-backend/internal/platform/qdrant"
)

type Clients struct {
	Inference inference.Client
	Vectors   qdrant.VectorStore
	Redis     *goredis.Client
}

// wireClients builds the external clients: the inference HTTP client, the
// qdrant vector store (collection ensured up front), and an optional redis
// embedding cache. Redis is best-effort: a failed ping disables the cache
// instead of failing startup.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	inf, err := inference.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init inference client: %w", err)
	}

	qcfg, err := qdrant.ResolveConfigFromEnv()
	if err != nil {
		return Clients{}, fmt.Errorf("resolve qdrant config: %w", err)
	}
	vectors, err := qdrant.NewVectorStore(log, qcfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init vector store: %w", err)
	}
	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := vectors.EnsureCollection(ensureCtx); err != nil {
		return Clients{}, fmt.Errorf("ensure qdrant collection: %w", err)
	}

	var cache *goredis.Client
	if cfg.RedisURL != "" {
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn("Invalid REDIS_URL, embedding cache disabled", "error", err)
		} else {
			cache = goredis.NewClient(opts)
			pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
			defer cancelPing()
			if err := cache.Ping(pingCtx).Err(); err != nil {
				log.Warn("Redis unreachable, embedding cache disabled", "error", err)
				cache.Close()
				cache = nil
			}
		}
	}

	return Clients{
		Inference: inf,
		Vectors:   vectors,
		Redis:     cache,
	}, nil
}
