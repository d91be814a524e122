package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"
)

// Plugin implements PluginPersistence for in-memory storage
// This is primarily for testing and small single-node deployments
type Plugin struct {
	mu         sync.RWMutex
	users      map[string]*domain.User
	usernames  map[string]string // lowercase username -> user ID
	emails     map[string]string // lowercase email -> user ID
	products   map[string]*domain.Product
	categories map[string]*domain.Category
	slugs      map[string]string // slug -> category ID
}

// NewPlugin creates a new in-memory persistence plugin
func NewPlugin(config persistence.PluginConfig) (persistence.PluginPersistence, error) {
	return &Plugin{
		users:      make(map[string]*domain.User),
		usernames:  make(map[string]string),
		emails:     make(map[string]string),
		products:   make(map[string]*domain.Product),
		categories: make(map[string]*domain.Category),
		slugs:      make(map[string]string),
	}, nil
}

// UserStorage returns the user storage implementation
func (p *Plugin) UserStorage() persistence.UserStorage {
	return &userStorage{plugin: p}
}

// ProductStorage returns the product storage implementation
func (p *Plugin) ProductStorage() persistence.ProductStorage {
	return &productStorage{plugin: p}
}

// CategoryStorage returns the category storage implementation
func (p *Plugin) CategoryStorage() persistence.CategoryStorage {
	return &categoryStorage{plugin: p}
}

// Health always returns nil for in-memory storage
func (p *Plugin) Health(ctx context.Context) error {
	return nil
}

// Close is a no-op for in-memory storage
func (p *Plugin) Close() error {
	return nil
}

func init() {
	persistence.RegisterProvider("memory", NewPlugin)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// userStorage implements persistence.UserStorage for in-memory storage
type userStorage struct {
	plugin *Plugin
}

func (s *userStorage) Save(ctx context.Context, user *domain.User) error {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	if _, exists := s.plugin.users[user.ID]; exists {
		return persistence.ErrAlreadyExists
	}
	if _, taken := s.plugin.usernames[normalize(user.Username)]; taken {
		return persistence.ErrAlreadyExists
	}
	if _, taken := s.plugin.emails[normalize(user.Email)]; taken {
		return persistence.ErrAlreadyExists
	}

	userCopy := *user
	s.plugin.users[user.ID] = &userCopy
	s.plugin.usernames[normalize(user.Username)] = user.ID
	s.plugin.emails[normalize(user.Email)] = user.ID
	return nil
}

func (s *userStorage) Update(ctx context.Context, user *domain.User) error {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	current, exists := s.plugin.users[user.ID]
	if !exists {
		return persistence.ErrNotFound
	}

	// Reject username/email moves onto another account before reindexing.
	if id, taken := s.plugin.usernames[normalize(user.Username)]; taken && id != user.ID {
		return persistence.ErrAlreadyExists
	}
	if id, taken := s.plugin.emails[normalize(user.Email)]; taken && id != user.ID {
		return persistence.ErrAlreadyExists
	}

	delete(s.plugin.usernames, normalize(current.Username))
	delete(s.plugin.emails, normalize(current.Email))

	userCopy := *user
	s.plugin.users[user.ID] = &userCopy
	s.plugin.usernames[normalize(user.Username)] = user.ID
	s.plugin.emails[normalize(user.Email)] = user.ID
	return nil
}

func (s *userStorage) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	user, exists := s.plugin.users[id]
	if !exists {
		return nil, persistence.ErrNotFound
	}

	userCopy := *user
	return &userCopy, nil
}

func (s *userStorage) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	id, exists := s.plugin.usernames[normalize(username)]
	if !exists {
		return nil, persistence.ErrNotFound
	}

	userCopy := *s.plugin.users[id]
	return &userCopy, nil
}

func (s *userStorage) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	id, exists := s.plugin.emails[normalize(email)]
	if !exists {
		return nil, persistence.ErrNotFound
	}

	userCopy := *s.plugin.users[id]
	return &userCopy, nil
}

func (s *userStorage) Delete(ctx context.Context, id string) error {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	user, exists := s.plugin.users[id]
	if !exists {
		return persistence.ErrNotFound
	}

	delete(s.plugin.usernames, normalize(user.Username))
	delete(s.plugin.emails, normalize(user.Email))
	delete(s.plugin.users, id)
	return nil
}

func (s *userStorage) List(ctx context.Context) ([]*domain.User, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.plugin.users))
	for _, user := range s.plugin.users {
		userCopy := *user
		users = append(users, &userCopy)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *userStorage) Count(ctx context.Context) (int64, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	return int64(len(s.plugin.users)), nil
}

// productStorage implements persistence.ProductStorage for in-memory storage
type productStorage struct {
	plugin *Plugin
}

func (s *productStorage) Save(ctx context.Context, product *domain.Product) error {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	if _, exists := s.plugin.products[product.ID]; exists {
		return persistence.ErrAlreadyExists
	}

	productCopy := *product
	s.plugin.products[product.ID] = &productCopy
	return nil
}

func (s *productStorage) Update(ctx context.Context, product *domain.Product) error {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	if _, exists := s.plugin.products[product.ID]; !exists {
		return persistence.ErrNotFound
	}

	productCopy := *product
	s.plugin.products[product.ID] = &productCopy
	return nil
}

func (s *productStorage) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	product, exists := s.plugin.products[id]
	if !exists {
		return nil, persistence.ErrNotFound
	}

	productCopy := *product
	return &productCopy, nil
}

func (s *productStorage) Delete(ctx context.Context, id string) error {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	if _, exists := s.plugin.products[id]; !exists {
		return persistence.ErrNotFound
	}

	delete(s.plugin.products, id)
	return nil
}

func (s *productStorage) List(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	products := make([]*domain.Product, 0, len(s.plugin.products))
	for _, product := range s.plugin.products {
		if categoryID != "" && product.CategoryID != categoryID {
			continue
		}
		productCopy := *product
		products = append(products, &productCopy)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

func (s *productStorage) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	var n int64
	for _, product := range s.plugin.products {
		if product.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *productStorage) Count(ctx context.Context) (int64, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	return int64(len(s.plugin.products)), nil
}

// categoryStorage implements persistence.CategoryStorage for in-memory storage
type categoryStorage struct {
	plugin *Plugin
}

func (s *categoryStorage) Save(ctx context.Context, category *domain.Category) error {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	if _, exists := s.plugin.categories[category.ID]; exists {
		return persistence.ErrAlreadyExists
	}
	if _, taken := s.plugin.slugs[category.Slug]; taken {
		return persistence.ErrAlreadyExists
	}

	categoryCopy := *category
	s.plugin.categories[category.ID] = &categoryCopy
	s.plugin.slugs[category.Slug] = category.ID
	return nil
}

func (s *categoryStorage) Update(ctx context.Context, category *domain.Category) error {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	current, exists := s.plugin.categories[category.ID]
	if !exists {
		return persistence.ErrNotFound
	}
	if id, taken := s.plugin.slugs[category.Slug]; taken && id != category.ID {
		return persistence.ErrAlreadyExists
	}

	delete(s.plugin.slugs, current.Slug)

	categoryCopy := *category
	s.plugin.categories[category.ID] = &categoryCopy
	s.plugin.slugs[category.Slug] = category.ID
	return nil
}

func (s *categoryStorage) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	category, exists := s.plugin.categories[id]
	if !exists {
		return nil, persistence.ErrNotFound
	}

	categoryCopy := *category
	return &categoryCopy, nil
}

func (s *categoryStorage) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	id, exists := s.plugin.slugs[slug]
	if !exists {
		return nil, persistence.ErrNotFound
	}

	categoryCopy := *s.plugin.categories[id]
	return &categoryCopy, nil
}

func (s *categoryStorage) Delete(ctx context.Context, id string) error {
	s.plugin.mu.Lock()
	defer s.plugin.mu.Unlock()

	category, exists := s.plugin.categories[id]
	if !exists {
		return persistence.ErrNotFound
	}

	delete(s.plugin.slugs, category.Slug)
	delete(s.plugin.categories, id)
	return nil
}

func (s *categoryStorage) List(ctx context.Context) ([]*domain.Category, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(s.plugin.categories))
	for _, category := range s.plugin.categories {
		categoryCopy := *category
		categories = append(categories, &categoryCopy)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].CreatedAt.Equal(categories[j].CreatedAt) {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].CreatedAt.Before(categories[j].CreatedAt)
	})
	return categories, nil
}

func (s *categoryStorage) Count(ctx context.Context) (int64, error) {
	s.plugin.mu.RLock()
	defer s.plugin.mu.RUnlock()

	return int64(len(s.plugin.categories)), nil
}
