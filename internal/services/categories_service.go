package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/google/uuid"
)

type CategoriesService interface {
	Create(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error)
	Get(ctx context.Context, idOrSlug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id string, req domain.UpdateCategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoriesService struct {
	categories persistence.CategoryStorage
	products   persistence.ProductStorage
	logger     *slog.Logger
	now        func() time.Time
}

func NewCategoriesService(categories persistence.CategoryStorage, products persistence.ProductStorage, logger *slog.Logger, now func() time.Time) CategoriesService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &categoriesService{categories: categories, products: products, logger: logger, now: now}
}

func (s *categoriesService) Create(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error) {
	slug := req.Slug
	if slug == "" {
		slug = req.Name
	}
	slug = domain.Slugify(slug)
	if slug == "" {
		return nil, ErrUnusableSlug
	}

	now := s.now().UTC()
	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "categoryId", category.ID, "slug", category.Slug)
	return category, nil
}

// Get resolves a category by id, falling back to slug so pretty URLs work.
func (s *categoriesService) Get(ctx context.Context, idOrSlug string) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, idOrSlug)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return nil, err
	}
	return s.categories.FindBySlug(ctx, idOrSlug)
}

func (s *categoriesService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoriesService) Update(ctx context.Context, id string, req domain.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
		// A renamed category keeps its slug unless one is supplied.
	}
	if req.Slug != nil {
		slug := domain.Slugify(*req.Slug)
		if slug == "" {
			return nil, ErrUnusableSlug
		}
		category.Slug = slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	category.UpdatedAt = s.now().UTC()

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category updated", "categoryId", id)
	return category, nil
}

func (s *categoriesService) Delete(ctx context.Context, id string) error {
	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("category deleted", "categoryId", id)
	return nil
}
