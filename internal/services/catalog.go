package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/shopmind-backend/internal/pkg/apierr"
	"github.com/yungbote/shopmind-backend/internal/pkg/logger"
	"github.com/yungbote/shopmind-backend/internal/repos"
	"github.com/yungbote/shopmind-backend/internal/types"
)

type UserPatch struct {
	Email              *string `json:"email"`
	ProfileDescription *string `json:"profile_description"`
}

type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ProductInput struct {
	CategoryID  uint    `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

type ProductPatch struct {
	CategoryID  *uint    `json:"category_id"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

// CatalogService owns entity lifecycle: explicit creates, partial-field
// patches. Product writes additionally keep the vector index in step; that
// second write is not transactional with the first, so an indexing failure
// is logged and left to on-demand re-embedding (§ReembedProduct).
type CatalogService interface {
	CreateUser(ctx context.Context, email, profileDescription string) (*types.User, error)
	UpdateUser(ctx context.Context, userID uint, patch UserPatch) (*types.User, error)
	GetUser(ctx context.Context, userID uint) (*types.User, error)

	CreateCategory(ctx context.Context, name, description string) (*types.Category, error)
	UpdateCategory(ctx context.Context, categoryID uint, patch CategoryPatch) (*types.Category, error)
	GetCategory(ctx context.Context, categoryID uint) (*types.Category, error)

	CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error)
	UpdateProduct(ctx context.Context, productID uint, patch ProductPatch) (*types.Product, error)
	GetProduct(ctx context.Context, productID uint) (*types.Product, error)
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	categoryRepo repos.CategoryRepo
	productRepo  repos.ProductRepo
	embedder     EmbeddingService
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	categoryRepo repos.CategoryRepo,
	productRepo repos.ProductRepo,
	embedder EmbeddingService,
) CatalogService {
	return &catalogService{
		db:           db,
		log:          log.With("service", "CatalogService"),
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		embedder:     embedder,
	}
}

// ---- Users ----

func (s *catalogService) CreateUser(ctx context.Context, email, profileDescription string) (*types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apierr.Validation(fmt.Errorf("email is required"))
	}
	user, err := s.userRepo.Create(ctx, nil, &types.User{
		Email:              email,
		ProfileDescription: profileDescription,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierr.Conflict(fmt.Errorf("email %q already registered", email))
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *catalogService) UpdateUser(ctx context.Context, userID uint, patch UserPatch) (*types.User, error) {
	existing, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound(fmt.Errorf("user %d not found", userID))
	}

	updates := map[string]any{}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" {
			return nil, apierr.Validation(fmt.Errorf("email cannot be empty"))
		}
		updates["email"] = email
	}
	if patch.ProfileDescription != nil {
		updates["profile_description"] = *patch.ProfileDescription
	}

	updated, err := s.userRepo.Update(ctx, nil, userID, updates)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierr.Conflict(fmt.Errorf("email already registered"))
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *catalogService) GetUser(ctx context.Context, userID uint) (*types.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound(fmt.Errorf("user %d not found", userID))
	}
	return user, nil
}

// ---- Categories ----

func (s *catalogService) CreateCategory(ctx context.Context, name, description string) (*types.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation(fmt.Errorf("category name is required"))
	}
	category, err := s.categoryRepo.Create(ctx, nil, &types.Category{
		Name:        name,
		Description: description,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierr.Conflict(fmt.Errorf("category %q already exists", name))
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, categoryID uint, patch CategoryPatch) (*types.Category, error) {
	existing, err := s.categoryRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound(fmt.Errorf("category %d not found", categoryID))
	}

	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apierr.Validation(fmt.Errorf("category name cannot be empty"))
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}

	updated, err := s.categoryRepo.Update(ctx, nil, categoryID, updates)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierr.Conflict(fmt.Errorf("category name already exists"))
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != existing.Name {
		// Category name feeds every member product's searchable text; those
		// embeddings are now stale until re-embedded on demand.
		s.log.Warn("Category renamed; member product embeddings need re-embedding",
			"category_id", categoryID,
			"old_name", existing.Name,
			"new_name", updated.Name,
		)
	}
	return updated, nil
}

func (s *catalogService) GetCategory(ctx context.Context, categoryID uint) (*types.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apierr.NotFound(fmt.Errorf("category %d not found", categoryID))
	}
	return category, nil
}

// ---- Products ----

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation(fmt.Errorf("product name is required"))
	}
	if input.Price < 0 {
		return nil, apierr.Validation(fmt.Errorf("price must be >= 0"))
	}
	if input.Stock < 0 {
		return nil, apierr.Validation(fmt.Errorf("stock must be >= 0"))
	}
	category, err := s.categoryRepo.GetByID(ctx, nil, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apierr.NotFound(fmt.Errorf("category %d not found", input.CategoryID))
	}

	product, err := s.productRepo.Create(ctx, nil, &types.Product{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
	})
	if err != nil {
		return nil, err
	}

	if err := s.embedder.IndexProduct(ctx, product, category.Name); err != nil {
		s.log.Error("Product created but vector indexing failed; embedding is stale until re-embedded",
			"product_id", product.ID,
			"error", err,
		)
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, productID uint, patch ProductPatch) (*types.Product, error) {
	existing, err := s.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound(fmt.Errorf("product %d not found", productID))
	}

	updates := map[string]any{}
	if patch.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, nil, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apierr.NotFound(fmt.Errorf("category %d not found", *patch.CategoryID))
		}
		updates["category_id"] = *patch.CategoryID
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, apierr.Validation(fmt.Errorf("product name cannot be empty"))
		}
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, apierr.Validation(fmt.Errorf("price must be >= 0"))
		}
		updates["price"] = *patch.Price
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return nil, apierr.Validation(fmt.Errorf("stock must be >= 0"))
		}
		updates["stock"] = *patch.Stock
	}

	updated, err := s.productRepo.Update(ctx, nil, productID, updates)
	if err != nil {
		return nil, err
	}

	// Re-embed on every update so the stored vector tracks the current
	// name/category/description, regardless of which fields changed.
	category, err := s.categoryRepo.GetByID(ctx, nil, updated.CategoryID)
	if err != nil {
		return nil, err
	}
	categoryName := ""
	if category != nil {
		categoryName = category.Name
	}
	if err := s.embedder.IndexProduct(ctx, updated, categoryName); err != nil {
		s.log.Error("Product updated but vector indexing failed; embedding is stale until re-embedded",
			"product_id", updated.ID,
			"error", err,
		)
	}
	return updated, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID uint) (*types.Product, error) {
	product, err := s.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apierr.NotFound(fmt.Errorf("product %d not found", productID))
	}
	return product, nil
}
