package app

import (
	"strings"
	"time"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/utils"
)

type Config struct {
	ServiceName         string
	Environment         string
	Version             string
	Port                string
	AllowedOrigins      []string
	SimilarityThreshold float64
	MaxOutputTokens     int
	InferenceTimeout    time.Duration
	RedisURL            string
}

func LoadConfig(log *logger.Logger) Config {
	origins := strings.Split(utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	inferenceTimeoutSeconds := utils.GetEnvAsInt("RECOMMENDATION_TIMEOUT_SECONDS", 60, log)
	return Config{
		ServiceName:         utils.GetEnv("SERVICE_NAME", "shopmind", log),
		Environment:         utils.GetEnv("ENVIRONMENT", "development", log),
		Version:             utils.GetEnv("SERVICE_VERSION", "dev", log),
		Port:                utils.GetEnv("PORT", "8080", log),
		AllowedOrigins:      origins,
		SimilarityThreshold: utils.GetEnvAsFloat("SIMILARITY_THRESHOLD", 0.3, log),
		MaxOutputTokens:     utils.GetEnvAsInt("RECOMMENDATION_MAX_TOKENS", 30, log),
		InferenceTimeout:    time.Duration(inferenceTimeoutSeconds) * time.Second,
		RedisURL:            utils.GetEnv("REDIS_URL", "", log),
	}
}
