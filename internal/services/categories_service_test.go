package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"
	"github.com/osvaldoandrade/storeq/pkg/persistence/memory"
)

func setupCategoriesServiceTest(t *testing.T) (context.Context, CategoriesService, persistence.PluginPersistence) {
	t.Helper()
	store, err := memory.NewPlugin(persistence.PluginConfig{})
	if err != nil {
		t.Fatalf("Failed to create memory plugin: %v", err)
	}
	svc := NewCategoriesService(store.CategoryStorage(), store.ProductStorage(), slog.Default(), nil)
	return context.Background(), svc, store
}

func TestCategoriesServiceCreateSlugFromName(t *testing.T) {
	ctx, svc, _ := setupCategoriesServiceTest(t)

	category, err := svc.Create(ctx, domain.CreateCategoryRequest{Name: "Home & Garden"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if category.Slug != "home-garden" {
		t.Errorf("Expected slug home-garden, got %s", category.Slug)
	}

	got, err := svc.Get(ctx, category.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Home & Garden" {
		t.Errorf("Expected original name, got %s", got.Name)
	}
}

func TestCategoriesServiceCreateExplicitSlug(t *testing.T) {
	ctx, svc, _ := setupCategoriesServiceTest(t)

	category, err := svc.Create(ctx, domain.CreateCategoryRequest{Name: "Board Games", Slug: "Tabletop Fun"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if category.Slug != "tabletop-fun" {
		t.Errorf("Expected supplied slug to be slugified, got %s", category.Slug)
	}
}

func TestCategoriesServiceCreateUnusableName(t *testing.T) {
	ctx, svc, _ := setupCategoriesServiceTest(t)

	if _, err := svc.Create(ctx, domain.CreateCategoryRequest{Name: "!!!"}); err == nil {
		t.Error("Expected error for a name with no letters or digits")
	}
}

func TestCategoriesServiceCreateDuplicateSlug(t *testing.T) {
	ctx, svc, _ := setupCategoriesServiceTest(t)

	if _, err := svc.Create(ctx, domain.CreateCategoryRequest{Name: "Books"}); err != nil {
		t.Fatalf("First create failed: %v", err)
	}

	_, err := svc.Create(ctx, domain.CreateCategoryRequest{Name: "Books!"})
	if !errors.Is(err, persistence.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists for colliding slug, got %v", err)
	}
}

func TestCategoriesServiceUpdate(t *testing.T) {
	ctx, svc, _ := setupCategoriesServiceTest(t)

	category, err := svc.Create(ctx, domain.CreateCategoryRequest{Name: "Books"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Renaming does not silently change the slug clients link against.
	got, err := svc.Update(ctx, category.ID, domain.UpdateCategoryRequest{Name: strPtr("Paper Books")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Name != "Paper Books" {
		t.Errorf("Expected new name, got %s", got.Name)
	}
	if got.Slug != "books" {
		t.Errorf("Expected slug to stay books, got %s", got.Slug)
	}

	got, err = svc.Update(ctx, category.ID, domain.UpdateCategoryRequest{Slug: strPtr("Paper Books")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Slug != "paper-books" {
		t.Errorf("Expected slug paper-books, got %s", got.Slug)
	}

	other, err := svc.Create(ctx, domain.CreateCategoryRequest{Name: "Games"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Update(ctx, other.ID, domain.UpdateCategoryRequest{Slug: strPtr("paper-books")}); !errors.Is(err, persistence.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists for slug collision, got %v", err)
	}
}

func TestCategoriesServiceDeleteInUse(t *testing.T) {
	ctx, svc, store := setupCategoriesServiceTest(t)

	category, err := svc.Create(ctx, domain.CreateCategoryRequest{Name: "Books"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	products := NewProductsService(store.ProductStorage(), store.CategoryStorage(), &mockImageUploader{}, slog.Default(), nil)
	product, err := products.Create(ctx, domain.CreateProductRequest{Name: "Chess", Price: 10, CategoryID: category.ID})
	if err != nil {
		t.Fatalf("Product create failed: %v", err)
	}

	if err := svc.Delete(ctx, category.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Errorf("Expected ErrCategoryInUse, got %v", err)
	}

	if err := products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Product delete failed: %v", err)
	}
	if err := svc.Delete(ctx, category.ID); err != nil {
		t.Fatalf("Delete failed after products removed: %v", err)
	}
}

func TestCategoriesServiceDeleteMissing(t *testing.T) {
	ctx, svc, _ := setupCategoriesServiceTest(t)

	if err := svc.Delete(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCategoriesServiceGetBySlugFallback(t *testing.T) {
	ctx, svc, _ := setupCategoriesServiceTest(t)

	category, err := svc.Create(ctx, domain.CreateCategoryRequest{Name: "Books"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.Get(ctx, "books")
	if err != nil {
		t.Fatalf("Get by slug failed: %v", err)
	}
	if got.ID != category.ID {
		t.Errorf("Expected category %s via slug, got %s", category.ID, got.ID)
	}

	if _, err := svc.Get(ctx, "no-such-category"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
