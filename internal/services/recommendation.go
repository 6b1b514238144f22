package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/apierr"
	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/platform/inference"
	"github.com/yungbote/shopmind-backend/internal/repos"
	"github.com/yungbote/shopmind-backend/internal/types"
)

const defaultRecommendationScore = 1.0

type RecommendationConfig struct {
	// SimilarityThreshold gates the vector retrieval path during candidate
	// gathering.
	SimilarityThreshold float64
	// MaxOutputTokens bounds generation; the expected answer is one product
	// name.
	MaxOutputTokens int
	// InferenceTimeout bounds the blocking generation call. On expiry the
	// invocation fails cleanly with nothing persisted.
	InferenceTimeout time.Duration
}

type RecommendationResult struct {
	RecommendationID uint `json:"recommendation_id"`
	ProductID        uint `json:"product_id"`
}

// RecommendationService runs the full pipeline per invocation:
// gather profile and history, retrieve candidates, build the ranking prompt,
// infer, resolve the model's answer back to a candidate, persist. A
// Recommendation row is written only after successful resolution.
type RecommendationService interface {
	Recommend(ctx context.Context, userID uint) (*RecommendationResult, error)
	CustomerProfile(ctx context.Context, userID uint) (string, error)
}

type recommendationService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	historyRepo repos.SearchHistoryRepo
	recRepo     repos.RecommendationRepo
	aiLogRepo   repos.AICallLogRepo
	search      SearchService
	inf         inference.Client
	cfg         RecommendationConfig
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	historyRepo repos.SearchHistoryRepo,
	recRepo repos.RecommendationRepo,
	aiLogRepo repos.AICallLogRepo,
	search SearchService,
	inf inference.Client,
	cfg RecommendationConfig,
) RecommendationService {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.3
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 30
	}
	if cfg.InferenceTimeout <= 0 {
		cfg.InferenceTimeout = 60 * time.Second
	}
	return &recommendationService{
		db:          db,
		log:         log.With("service", "RecommendationService"),
		userRepo:    userRepo,
		historyRepo: historyRepo,
		recRepo:     recRepo,
		aiLogRepo:   aiLogRepo,
		search:      search,
		inf:         inf,
		cfg:         cfg,
	}
}

func (s *recommendationService) Recommend(ctx context.Context, userID uint) (*RecommendationResult, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound(fmt.Errorf("user %d not found", userID))
	}

	historyStr, err := s.joinedHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Candidate retrieval keys off the profile text, vector path on, default
	// stock policy only. The user id is deliberately not forwarded so the
	// profile text does not get appended to the user's search history.
	products, err := s.search.Search(ctx, SearchParams{
		Query:               user.ProfileDescription,
		UseVector:           true,
		SimilarityThreshold: s.cfg.SimilarityThreshold,
	})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apierr.Unresolved(fmt.Errorf("no in-stock candidates for user %d", userID))
	}

	candidates := make([]Candidate, 0, len(products))
	for _, p := range products {
		candidates = append(candidates, Candidate{ID: p.ID, Name: p.Name})
	}

	prompt := BuildRecommendationPrompt(user.ProfileDescription, historyStr, candidates)

	infCtx, cancel := context.WithTimeout(ctx, s.cfg.InferenceTimeout)
	defer cancel()
	started := time.Now()
	output, genErr := s.inf.Generate(infCtx, prompt, s.cfg.MaxOutputTokens)
	latency := time.Since(started)

	if genErr != nil {
		s.appendCallLog(userID, prompt, "", latency, false, len(candidates), genErr)
		return nil, apierr.UpstreamUnavailable(fmt.Errorf("generation failed: %w", genErr))
	}

	product := resolveCandidate(output, products)
	s.appendCallLog(userID, prompt, output, latency, product != nil, len(candidates), nil)

	if product == nil {
		s.log.Warn("Model output matched no candidate",
			"user_id", userID,
			"output", output,
			"candidate_count", len(candidates),
		)
		return nil, apierr.Unresolved(fmt.Errorf("model output %q matched no candidate", strings.TrimSpace(output)))
	}

	rec, err := s.recRepo.Create(ctx, nil, &types.Recommendation{
		UserID:    userID,
		ProductID: product.ID,
		Score:     defaultRecommendationScore,
	})
	if err != nil {
		return nil, err
	}

	return &RecommendationResult{
		RecommendationID: rec.ID,
		ProductID:        product.ID,
	}, nil
}

func (s *recommendationService) CustomerProfile(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apierr.NotFound(fmt.Errorf("user %d not found", userID))
	}
	historyStr, err := s.joinedHistory(ctx, userID)
	if err != nil {
		return "", err
	}
	return BuildCustomerInfoPrompt(user.ProfileDescription, historyStr), nil
}

func (s *recommendationService) joinedHistory(ctx context.Context, userID uint) (string, error) {
	queries, err := s.historyRepo.ListQueriesByUser(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	return strings.Join(queries, ","), nil
}

// resolveCandidate maps the model's free-text answer back to a product:
// case-insensitive, whitespace-trimmed, first match in candidate order wins.
func resolveCandidate(output string, products []*types.Product) *types.Product {
	answer := strings.ToLower(strings.TrimSpace(output))
	if answer == "" {
		return nil
	}
	for _, p := range products {
		if strings.ToLower(strings.TrimSpace(p.Name)) == answer {
			return p
		}
	}
	return nil
}

// appendCallLog records the inference audit row. Best-effort with its own
// deadline: the recommendation outcome never depends on it.
func (s *recommendationService) appendCallLog(userID uint, prompt, output string, latency time.Duration, resolved bool, candidateCount int, callErr error) {
	meta := map[string]any{"candidate_count": candidateCount}
	if callErr != nil {
		meta["error"] = callErr.Error()
	}
	rawMeta, _ := json.Marshal(meta)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.aiLogRepo.Create(ctx, nil, &types.AICallLog{
		UserID:    userID,
		Model:     s.inf.GenerationModel(),
		Prompt:    prompt,
		Output:    output,
		LatencyMS: latency.Milliseconds(),
		Resolved:  resolved,
		Metadata:  rawMeta,
	})
	if err != nil {
		s.log.Warn("Failed to append AI call log", "user_id", userID, "error", err)
	}
}
