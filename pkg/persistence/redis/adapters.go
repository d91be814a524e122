package redis

import (
	"context"

	"github.com/osvaldoandrade/storeq/internal/repository"
	"github.com/osvaldoandrade/storeq/pkg/domain"
)

// Adapters bridge the repository layer onto the persistence storage
// interfaces. The repositories already return the persistence sentinel
// errors, so these stay thin.

// userStorageAdapter adapts repository.UserRepository to persistence.UserStorage
type userStorageAdapter struct {
	repo repository.UserRepository
}

func (a *userStorageAdapter) Save(ctx context.Context, user *domain.User) error {
	return a.repo.Create(ctx, user)
}

func (a *userStorageAdapter) Update(ctx context.Context, user *domain.User) error {
	return a.repo.Update(ctx, user)
}

func (a *userStorageAdapter) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return a.repo.GetByID(ctx, id)
}

func (a *userStorageAdapter) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return a.repo.GetByUsername(ctx, username)
}

func (a *userStorageAdapter) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return a.repo.GetByEmail(ctx, email)
}

func (a *userStorageAdapter) Delete(ctx context.Context, id string) error {
	return a.repo.Delete(ctx, id)
}

func (a *userStorageAdapter) List(ctx context.Context) ([]*domain.User, error) {
	return a.repo.List(ctx)
}

func (a *userStorageAdapter) Count(ctx context.Context) (int64, error) {
	return a.repo.Count(ctx)
}

// productStorageAdapter adapts repository.ProductRepository to persistence.ProductStorage
type productStorageAdapter struct {
	repo repository.ProductRepository
}

func (a *productStorageAdapter) Save(ctx context.Context, product *domain.Product) error {
	return a.repo.Create(ctx, product)
}

func (a *productStorageAdapter) Update(ctx context.Context, product *domain.Product) error {
	return a.repo.Update(ctx, product)
}

func (a *productStorageAdapter) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return a.repo.GetByID(ctx, id)
}

func (a *productStorageAdapter) Delete(ctx context.Context, id string) error {
	return a.repo.Delete(ctx, id)
}

func (a *productStorageAdapter) List(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	return a.repo.List(ctx, categoryID)
}

func (a *productStorageAdapter) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return a.repo.CountByCategory(ctx, categoryID)
}

func (a *productStorageAdapter) Count(ctx context.Context) (int64, error) {
	return a.repo.Count(ctx)
}

// categoryStorageAdapter adapts repository.CategoryRepository to persistence.CategoryStorage
type categoryStorageAdapter struct {
	repo repository.CategoryRepository
}

func (a *categoryStorageAdapter) Save(ctx context.Context, category *domain.Category) error {
	return a.repo.Create(ctx, category)
}

func (a *categoryStorageAdapter) Update(ctx context.Context, category *domain.Category) error {
	return a.repo.Update(ctx, category)
}

func (a *categoryStorageAdapter) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return a.repo.GetByID(ctx, id)
}

func (a *categoryStorageAdapter) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return a.repo.GetBySlug(ctx, slug)
}

func (a *categoryStorageAdapter) Delete(ctx context.Context, id string) error {
	return a.repo.Delete(ctx, id)
}

func (a *categoryStorageAdapter) List(ctx context.Context) ([]*domain.Category, error) {
	return a.repo.List(ctx)
}

func (a *categoryStorageAdapter) Count(ctx context.Context) (int64, error) {
	return a.repo.Count(ctx)
}
