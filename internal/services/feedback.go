package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/apierr"
	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/repos"
	"github.com/yungbote/shopmind-backend/internal/types"
)

const (
	minRating = 0
	maxRating = 5

	// Only feedback at or above this rating qualifies as a positive training
	// signal for the ranking model.
	trainingMinRating = 3
)

type FeedbackConfig struct {
	// SimilarityThreshold is used when rebuilding candidate sets at export
	// time, matching the serving-path retrieval.
	SimilarityThreshold float64
}

// TrainingPair is one exported fine-tuning example: the rebuilt ranking
// prompt and the product name the customer endorsed.
type TrainingPair struct {
	Prompt string
	Answer string
}

// FeedbackService records per-recommendation ratings and turns the positive
// ones into a fine-tuning dataset. Feedback is create-once per
// recommendation; a second submission conflicts.
type FeedbackService interface {
	RecordFeedback(ctx context.Context, userID, recommendationID uint, rating int) (*types.RecommendationFeedback, error)
	Summary(ctx context.Context) (map[int]int64, error)
	ExportTrainingSet(ctx context.Context) ([]TrainingPair, error)
	WriteTrainingSetCSV(ctx context.Context, path string) (int, error)
}

type feedbackService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	productRepo  repos.ProductRepo
	historyRepo  repos.SearchHistoryRepo
	recRepo      repos.RecommendationRepo
	feedbackRepo repos.RecommendationFeedbackRepo
	search       SearchService
	cfg          FeedbackConfig
}

func NewFeedbackService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	productRepo repos.ProductRepo,
	historyRepo repos.SearchHistoryRepo,
	recRepo repos.RecommendationRepo,
	feedbackRepo repos.RecommendationFeedbackRepo,
	search SearchService,
	cfg FeedbackConfig,
) FeedbackService {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.3
	}
	return &feedbackService{
		db:           db,
		log:          log.With("service", "FeedbackService"),
		userRepo:     userRepo,
		productRepo:  productRepo,
		historyRepo:  historyRepo,
		recRepo:      recRepo,
		feedbackRepo: feedbackRepo,
		search:       search,
		cfg:          cfg,
	}
}

func (s *feedbackService) RecordFeedback(ctx context.Context, userID, recommendationID uint, rating int) (*types.RecommendationFeedback, error) {
	if rating < minRating || rating > maxRating {
		return nil, apierr.Validation(fmt.Errorf("rating must be between %d and %d", minRating, maxRating))
	}

	rec, err := s.recRepo.GetByID(ctx, nil, recommendationID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apierr.NotFound(fmt.Errorf("recommendation %d not found", recommendationID))
	}
	if rec.UserID != userID {
		return nil, apierr.Forbidden(fmt.Errorf("recommendation %d does not belong to user %d", recommendationID, userID))
	}

	feedback, err := s.feedbackRepo.Create(ctx, nil, &types.RecommendationFeedback{
		RecommendationID: recommendationID,
		UserID:           userID,
		Rating:           rating,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierr.Conflict(fmt.Errorf("recommendation %d already has feedback", recommendationID))
	}
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *feedbackService) Summary(ctx context.Context) (map[int]int64, error) {
	counts, err := s.feedbackRepo.CountByRating(ctx, nil)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// ExportTrainingSet rebuilds one training example per positive feedback row.
// The candidate set is re-retrieved from the current catalog rather than
// replayed from the original invocation, so the endorsed product is appended
// when retrieval no longer surfaces it. Rows whose user, recommendation, or
// product has since disappeared are skipped with a warning.
func (s *feedbackService) ExportTrainingSet(ctx context.Context) ([]TrainingPair, error) {
	rows, err := s.feedbackRepo.ListByMinRating(ctx, nil, trainingMinRating)
	if err != nil {
		return nil, err
	}

	pairs := make([]TrainingPair, 0, len(rows))
	for _, fb := range rows {
		pair, err := s.buildTrainingPair(ctx, fb)
		if err != nil {
			return nil, err
		}
		if pair == nil {
			continue
		}
		pairs = append(pairs, *pair)
	}
	return pairs, nil
}

func (s *feedbackService) buildTrainingPair(ctx context.Context, fb *types.RecommendationFeedback) (*TrainingPair, error) {
	rec, err := s.recRepo.GetByID(ctx, nil, fb.RecommendationID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		s.log.Warn("Skipping feedback, recommendation missing", "feedback_id", fb.ID, "recommendation_id", fb.RecommendationID)
		return nil, nil
	}
	user, err := s.userRepo.GetByID(ctx, nil, rec.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.Warn("Skipping feedback, user missing", "feedback_id", fb.ID, "user_id", rec.UserID)
		return nil, nil
	}
	product, err := s.productRepo.GetByID(ctx, nil, rec.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		s.log.Warn("Skipping feedback, product missing", "feedback_id", fb.ID, "product_id", rec.ProductID)
		return nil, nil
	}

	queries, err := s.historyRepo.ListQueriesByUser(ctx, nil, rec.UserID)
	if err != nil {
		return nil, err
	}
	historyStr := strings.Join(queries, ",")

	// Same retrieval as serving: profile text, vector path on, no user id so
	// the export does not pollute search history.
	candidates, err := s.search.Search(ctx, SearchParams{
		Query:               user.ProfileDescription,
		UseVector:           true,
		SimilarityThreshold: s.cfg.SimilarityThreshold,
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(candidates)+1)
	answerPresent := false
	for _, c := range candidates {
		names = append(names, c.Name)
		if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(product.Name)) {
			answerPresent = true
		}
	}
	if !answerPresent {
		names = append(names, product.Name)
	}

	return &TrainingPair{
		Prompt: BuildTrainingPrompt(user.ProfileDescription, historyStr, names),
		Answer: product.Name,
	}, nil
}

// WriteTrainingSetCSV exports the training pairs to a two-column CSV with an
// input,output header. Returns the number of rows written.
func (s *feedbackService) WriteTrainingSetCSV(ctx context.Context, path string) (int, error) {
	started := time.Now()
	pairs, err := s.ExportTrainingSet(ctx)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"input", "output"}); err != nil {
		return 0, err
	}
	for _, pair := range pairs {
		if err := w.Write([]string{pair.Prompt, pair.Answer}); err != nil {
			return 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, err
	}

	s.log.Info("Training set exported",
		"path", path,
		"rows", len(pairs),
		"duration", time.Since(started).String(),
	)
	return len(pairs), nil
}
