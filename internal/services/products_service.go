package services

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"time"

	"github.com/osvaldoandrade/storeq/internal/providers"
	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/google/uuid"
)

type ProductsService interface {
	Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, categoryID string) ([]*domain.Product, error)
	Update(ctx context.Context, id string, req domain.UpdateProductRequest) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	AttachImage(ctx context.Context, id string, filename string, contentType string, data []byte) (*domain.Product, error)
}

type productsService struct {
	products   persistence.ProductStorage
	categories persistence.CategoryStorage
	uploader   providers.Uploader
	logger     *slog.Logger
	now        func() time.Time
}

func NewProductsService(products persistence.ProductStorage, categories persistence.CategoryStorage, uploader providers.Uploader, logger *slog.Logger, now func() time.Time) ProductsService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &productsService{products: products, categories: categories, uploader: uploader, logger: logger, now: now}
}

func (s *productsService) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, err
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	now := s.now().UTC()
	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		InStock:     inStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created", "productId", product.ID, "categoryId", product.CategoryID)
	return product, nil
}

func (s *productsService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *productsService) List(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	return s.products.List(ctx, categoryID)
}

func (s *productsService) Update(ctx context.Context, id string, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return nil, ErrUnknownCategory
			}
			return nil, err
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	product.UpdatedAt = s.now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", "productId", id)
	return product, nil
}

func (s *productsService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", "productId", id)
	return nil
}

func (s *productsService) AttachImage(ctx context.Context, id string, filename string, contentType string, data []byte) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	objPath := path.Join("products", id, path.Base(filename))
	url, err := s.uploader.UploadBytes(ctx, objPath, contentType, data)
	if err != nil {
		return nil, err
	}

	product.ImageURL = url
	product.UpdatedAt = s.now().UTC()
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product image attached", "productId", id, "url", url)
	return product, nil
}
