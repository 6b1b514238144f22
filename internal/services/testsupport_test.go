package services

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/repos"
	"github.com/yungbote/shopmind-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.User{},
		&types.Category{},
		&types.Product{},
		&types.SearchHistory{},
		&types.Recommendation{},
		&types.RecommendationFeedback{},
		&types.AICallLog{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type testRepos struct {
	user     repos.UserRepo
	category repos.CategoryRepo
	product  repos.ProductRepo
	history  repos.SearchHistoryRepo
	rec      repos.RecommendationRepo
	feedback repos.RecommendationFeedbackRepo
	aiLog    repos.AICallLogRepo
}

func newTestRepos(t *testing.T, db *gorm.DB, log *logger.Logger) testRepos {
	t.Helper()
	return testRepos{
		user:     repos.NewUserRepo(db, log),
		category: repos.NewCategoryRepo(db, log),
		product:  repos.NewProductRepo(db, log),
		history:  repos.NewSearchHistoryRepo(db, log),
		rec:      repos.NewRecommendationRepo(db, log),
		feedback: repos.NewRecommendationFeedbackRepo(db, log),
		aiLog:    repos.NewAICallLogRepo(db, log),
	}
}

func mustCreateCategory(t *testing.T, r testRepos, name string) *types.Category {
	t.Helper()
	category, err := r.category.Create(context.Background(), nil, &types.Category{Name: name})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return category
}

func mustCreateProduct(t *testing.T, r testRepos, categoryID uint, name, description string, price float64, stock int) *types.Product {
	t.Helper()
	product, err := r.product.Create(context.Background(), nil, &types.Product{
		CategoryID:  categoryID,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
	})
	if err != nil {
		t.Fatalf("create product %q: %v", name, err)
	}
	return product
}

func mustCreateUser(t *testing.T, r testRepos, email, profile string) *types.User {
	t.Helper()
	user, err := r.user.Create(context.Background(), nil, &types.User{
		Email:              email,
		ProfileDescription: profile,
	})
	if err != nil {
		t.Fatalf("create user %q: %v", email, err)
	}
	return user
}

func historyRow(userID uint, query string) *types.SearchHistory {
	return &types.SearchHistory{UserID: userID, Query: query}
}

// fakeEmbedder returns a constant vector without calling inference. IndexProduct
// records calls so catalog tests can assert the re-embed hook fired.
type fakeEmbedder struct {
	embedErr   error
	indexErr   error
	indexedIDs []uint
}

func (f *fakeEmbedder) ProductText(name, categoryName, description string) string {
	return fmt.Sprintf("Product name is %s and category is %s. Description: %s", name, categoryName, description)
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) IndexProduct(ctx context.Context, product *types.Product, categoryName string) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexedIDs = append(f.indexedIDs, product.ID)
	return nil
}

func (f *fakeEmbedder) ReembedProduct(ctx context.Context, productID uint) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexedIDs = append(f.indexedIDs, productID)
	return nil
}

// fakeVectorStore serves a canned similarity-ordered id list.
type fakeVectorStore struct {
	ids      []uint
	queryErr error
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context) error { return nil }

func (f *fakeVectorStore) UpsertProduct(ctx context.Context, productID uint, vector []float32) error {
	return nil
}

func (f *fakeVectorStore) QueryProductIDs(ctx context.Context, query []float32, topK int, scoreThreshold float64) ([]uint, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.ids, nil
}

// fakeInference returns a fixed generation output.
type fakeInference struct {
	output  string
	genErr  error
	prompts []string
}

func (f *fakeInference) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (f *fakeInference) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.output, nil
}

func (f *fakeInference) GenerationModel() string { return "fine-tuned-flan-t5-small" }
