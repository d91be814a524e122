package persistence

import (
	"context"
	"errors"

	"github.com/osvaldoandrade/storeq/pkg/domain"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a uniqueness constraint is violated
	ErrAlreadyExists = errors.New("already exists")
)

// PluginPersistence provides storage operations for persistence plugins.
// This is the main interface that all persistence backends must implement.
type PluginPersistence interface {
	// UserStorage returns the user storage implementation
	UserStorage() UserStorage

	// ProductStorage returns the product storage implementation
	ProductStorage() ProductStorage

	// CategoryStorage returns the category storage implementation
	CategoryStorage() CategoryStorage

	// Health checks if the persistence backend is healthy
	Health(ctx context.Context) error

	// Close releases resources held by the persistence backend
	Close() error
}

// UserStorage defines persistence operations for user accounts
type UserStorage interface {
	// Save stores a new user; ErrAlreadyExists when username or email is taken
	Save(ctx context.Context, user *domain.User) error

	// Update replaces an existing user; ErrNotFound when absent
	Update(ctx context.Context, user *domain.User) error

	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByUsername retrieves a user by username
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByEmail retrieves a user by email
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Delete removes a user; ErrNotFound when absent
	Delete(ctx context.Context, id string) error

	// List returns all users
	List(ctx context.Context) ([]*domain.User, error)

	// Count returns the number of stored users
	Count(ctx context.Context) (int64, error)
}

// ProductStorage defines persistence operations for products
type ProductStorage interface {
	// Save stores a new product
	Save(ctx context.Context, product *domain.Product) error

	// Update replaces an existing product; ErrNotFound when absent
	Update(ctx context.Context, product *domain.Product) error

	// FindByID retrieves a product by ID
	FindByID(ctx context.Context, id string) (*domain.Product, error)

	// Delete removes a product; ErrNotFound when absent
	Delete(ctx context.Context, id string) error

	// List returns products, optionally narrowed to one category
	List(ctx context.Context, categoryID string) ([]*domain.Product, error)

	// CountByCategory returns the number of products referencing a category
	CountByCategory(ctx context.Context, categoryID string) (int64, error)

	// Count returns the number of stored products
	Count(ctx context.Context) (int64, error)
}

// CategoryStorage defines persistence operations for categories
type CategoryStorage interface {
	// Save stores a new category; ErrAlreadyExists when the slug is taken
	Save(ctx context.Context, category *domain.Category) error

	// Update replaces an existing category; ErrNotFound when absent
	Update(ctx context.Context, category *domain.Category) error

	// FindByID retrieves a category by ID
	FindByID(ctx context.Context, id string) (*domain.Category, error)

	// FindBySlug retrieves a category by slug
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// Delete removes a category; ErrNotFound when absent
	Delete(ctx context.Context, id string) error

	// List returns all categories
	List(ctx context.Context) ([]*domain.Category, error)

	// Count returns the number of stored categories
	Count(ctx context.Context) (int64, error)
}
