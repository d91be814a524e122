package redis

import (
	"context"
	"encoding/json"

	"github.com/osvaldoandrade/storeq/internal/repository"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/go-redis/redis/v8"
)

// Config holds Redis-specific configuration
type Config struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
}

// Plugin implements PluginPersistence for Redis/KVRocks
type Plugin struct {
	client       *redis.Client
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewPlugin creates a new Redis persistence plugin
func NewPlugin(config persistence.PluginConfig) (persistence.PluginPersistence, error) {
	var cfg Config
	if err := json.Unmarshal(config.Config, &cfg); err != nil {
		return nil, err
	}

	// Create Redis client
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Initialize repositories using existing implementations
	return &Plugin{
		client:       client,
		userRepo:     repository.NewUserRepository(client, config.Namespace),
		productRepo:  repository.NewProductRepository(client, config.Namespace),
		categoryRepo: repository.NewCategoryRepository(client, config.Namespace),
	}, nil
}

// UserStorage returns the user storage implementation
func (p *Plugin) UserStorage() persistence.UserStorage {
	return &userStorageAdapter{repo: p.userRepo}
}

// ProductStorage returns the product storage implementation
func (p *Plugin) ProductStorage() persistence.ProductStorage {
	return &productStorageAdapter{repo: p.productRepo}
}

// CategoryStorage returns the category storage implementation
func (p *Plugin) CategoryStorage() persistence.CategoryStorage {
	return &categoryStorageAdapter{repo: p.categoryRepo}
}

// Health checks if Redis is healthy
func (p *Plugin) Health(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases Redis connection
func (p *Plugin) Close() error {
	return p.client.Close()
}

func init() {
	persistence.RegisterProvider("redis", NewPlugin)
}
